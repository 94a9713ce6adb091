package client

import (
	"context"
	"time"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/internal/retry"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before a gateway call begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after a gateway call succeeds.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a gateway call fails.
	EventRequestError EventType = "request_error"

	// EventRetry forwards an attempt-level event from the orchestrator.
	EventRetry EventType = "retry"
)

// Event represents an observable occurrence during client operations.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// Operation identifies the gateway operation.
	Operation Operation

	// RequestID correlates all events of one call.
	RequestID string

	// Provider is the preferred provider for request events and the
	// attempted provider for retry events.
	Provider ai.Provider

	// Duration is the elapsed time for finished requests.
	Duration time.Duration

	// Error contains the error for EventRequestError.
	Error error

	// RetryEvent contains the underlying orchestrator event for EventRetry.
	RetryEvent *RetryEvent

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Operation names a gateway operation.
type Operation = retry.Operation

// Gateway operations.
const (
	OpCompletion    = retry.OpCompletion
	OpStreaming     = retry.OpStreaming
	OpExtraction    = retry.OpExtraction
	OpEmbedding     = retry.OpEmbedding
	OpImageAnalysis = retry.OpImageAnalysis
	OpTranscription = retry.OpTranscription
)

// RetryEvent is an attempt-level event.
type RetryEvent = retry.Event

// RetryEventType identifies the kind of attempt-level event.
type RetryEventType = retry.EventType

// Attempt-level event types.
const (
	RetryEventAttemptStart  = retry.EventAttemptStart
	RetryEventAttemptFailed = retry.EventAttemptFailed
	RetryEventRotated       = retry.EventRotated
	RetryEventSkipped       = retry.EventSkipped
	RetryEventFallback      = retry.EventFallback
	RetryEventSuccess       = retry.EventSuccess
	RetryEventExhausted     = retry.EventExhausted
)

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

// forwardRetryEvents relays orchestrator events for one call until ch is
// closed.
func (c *Client) forwardRetryEvents(ch <-chan retry.Event) {
	for re := range ch {
		emit(c.events, Event{
			Type:       EventRetry,
			Operation:  re.Operation,
			RequestID:  re.RequestID,
			Provider:   re.Provider,
			Error:      re.Error,
			RetryEvent: &re,
		})
	}
}

// orchestrator returns the orchestrator for one call and a function to run
// once the call is over. That function returns after every attempt event of
// the call has been relayed.
func (c *Client) orchestrator() (*retry.Orchestrator, func()) {
	if c.events == nil {
		return c.orch, func() {}
	}
	ch := make(chan retry.Event, 16)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		c.forwardRetryEvents(ch)
	}()
	return c.orch.WithEvents(ch), func() {
		close(ch)
		<-forwarded
	}
}

// begin emits the start event and returns the matching finish function.
func (c *Client) begin(op Operation, o *ai.Options) func(error) {
	start := time.Now()
	provider := c.preferred(o)
	emit(c.events, Event{Type: EventRequestStart, Operation: op, RequestID: o.RequestID, Provider: provider})

	return func(err error) {
		elapsed := time.Since(start)
		if err != nil {
			c.logger.Error("request failed",
				"request_id", o.RequestID, "operation", string(op), "duration", elapsed, "error", err)
			emit(c.events, Event{
				Type:      EventRequestError,
				Operation: op,
				RequestID: o.RequestID,
				Provider:  provider,
				Duration:  elapsed,
				Error:     err,
			})
			return
		}
		c.logger.Info("request completed",
			"request_id", o.RequestID, "operation", string(op), "duration", elapsed)
		emit(c.events, Event{
			Type:      EventRequestComplete,
			Operation: op,
			RequestID: o.RequestID,
			Provider:  provider,
			Duration:  elapsed,
		})
	}
}

// call runs fn under the orchestrator with request events around it.
func call[T any](ctx context.Context, c *Client, o *ai.Options, op Operation, fn retry.AttemptFunc[T]) (T, error) {
	finish := c.begin(op, o)
	orch, done := c.orchestrator()
	result, err := retry.Do(ctx, orch, o, op, fn)
	done()
	finish(err)
	return result, err
}
