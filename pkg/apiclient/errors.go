package apiclient

import (
	"fmt"
	"strings"
)

// ServerError is returned when the server answered with a non-2xx status.
// It carries only the body the server sent; status line and headers are
// dropped.
type ServerError struct {
	Payload Payload
}

func (e *ServerError) Error() string {
	snippet := bodySnippet(e.Payload)
	if snippet == "" {
		return "server error"
	}
	return "server error: " + snippet
}

// TransportError is returned when no response was received, e.g. the host was
// unreachable or the context was cancelled before the server answered.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
