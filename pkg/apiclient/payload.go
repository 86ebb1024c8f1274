package apiclient

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyPayload is returned when decoding a payload with no content.
var ErrEmptyPayload = errors.New("empty payload")

// Payload is the schema-less JSON body of a response. Call sites decode it
// into the concrete shape they expect.
type Payload []byte

// Decode unmarshals the payload into v.
func (p Payload) Decode(v any) error {
	if len(strings.TrimSpace(string(p))) == 0 {
		return ErrEmptyPayload
	}
	return json.Unmarshal(p, v)
}

// Map decodes the payload as a JSON object.
func (p Payload) Map() (map[string]any, error) {
	var out map[string]any
	if err := p.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// StringField returns the field as a string when the payload is an object holding
// a string value under key.
func (p Payload) StringField(key string) (string, bool) {
	m, err := p.Map()
	if err != nil {
		return "", false
	}
	v, ok := m[key].(string)
	return v, ok
}

// MarshalJSON emits the payload verbatim so it can be forwarded as-is.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(p) {
		return json.Marshal(string(p))
	}
	return []byte(p), nil
}
