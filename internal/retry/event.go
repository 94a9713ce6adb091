package retry

import (
	"time"

	ai "github.com/spetersoncode/aigate"
)

// EventType identifies the kind of event occurring during orchestration.
type EventType string

const (
	// EventAttemptStart fires before each attempt.
	EventAttemptStart EventType = "attempt_start"

	// EventAttemptFailed fires after a failed attempt.
	EventAttemptFailed EventType = "attempt_failed"

	// EventRotated fires when a rate limited request moves to the next
	// credential of the same provider.
	EventRotated EventType = "rotated"

	// EventSkipped fires when a provider in the plan cannot serve the
	// operation and is passed over without an attempt.
	EventSkipped EventType = "skipped"

	// EventFallback fires when the request moves to the next provider.
	EventFallback EventType = "fallback"

	// EventSuccess fires when an attempt succeeds.
	EventSuccess EventType = "success"

	// EventExhausted fires when every provider in the plan has failed.
	EventExhausted EventType = "exhausted"
)

// Event represents an observable occurrence during orchestration.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// RequestID correlates the events of one logical request.
	RequestID string

	// Operation is the gateway operation being served.
	Operation Operation

	// Provider is the provider the event concerns.
	Provider ai.Provider

	// Credential is the redacted credential used by the attempt.
	Credential string

	// Attempt is the attempt number within the request (1-indexed).
	Attempt int

	// Outcome is the classified result of a finished attempt.
	Outcome OutcomeKind

	// Error contains the error from a failed attempt.
	Error error

	// Duration is how long the attempt took.
	Duration time.Duration

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
		// Channel full - don't block
	}
}
