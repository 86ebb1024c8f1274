package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Publisher sends events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger defines the logging surface publishers rely on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// sink carries the identity every transport shares.
type sink struct {
	id  string
	typ string
	log Logger
}

func newSink(cfg PublisherConfig, log Logger) sink {
	return sink{id: cfg.ID, typ: cfg.Type, log: ensureLogger(log)}
}

func (s sink) ID() string   { return s.id }
func (s sink) Type() string { return s.typ }

// delivered logs the outcome of one send and wraps err with the sink type.
func (s sink) delivered(evt Event, err error) error {
	fields := map[string]any{
		"publisher_id":   s.id,
		"publisher_type": s.typ,
		"event_type":     evt.Type,
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.ErrorObj("auth event delivery failed", "publisher_error", fields)
		return fmt.Errorf("%s delivery: %w", s.typ, err)
	}
	s.log.DebugObj("auth event delivered", "publisher_delivery", fields)
	return nil
}

func encodeEvent(evt Event) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}

// scopedPublisher restricts a sink to the event types it subscribed to.
type scopedPublisher struct {
	Publisher
	cfg PublisherConfig
}

func scope(pub Publisher, cfg PublisherConfig) Publisher {
	if len(cfg.Events) == 0 {
		return pub
	}
	return &scopedPublisher{Publisher: pub, cfg: cfg}
}

// Handles reports whether evtType should reach the wrapped sink.
func (s *scopedPublisher) Handles(evtType string) bool { return s.cfg.handles(evtType) }

func (s *scopedPublisher) Close() error {
	if c, ok := s.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
