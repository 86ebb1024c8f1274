package publishers

import "time"

// Auth event types.
const (
	EventSignIn  = "auth.sign_in"
	EventSignUp  = "auth.sign_up"
	EventSignOut = "auth.sign_out"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	// eventTypeAttribute names the message attribute carrying Event.Type on
	// queue and topic sinks.
	eventTypeAttribute = "event_type"
)

// Event represents an auth audit record published downstream. It never
// carries credentials or request payloads.
type Event struct {
	Type       string    `json:"type"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event stamped at the given time in UTC.
func NewEvent(typ, outcome string, at time.Time) Event {
	return Event{
		Type:       typ,
		Outcome:    outcome,
		OccurredAt: at.UTC(),
	}
}
