// Package retry implements the gateway's rotation and fallback policy.
//
// A logical request walks an ordered plan of providers. Within a provider,
// only a rate limit moves the request to the next credential of the same
// pool, up to one attempt per credential. Any other failure, including an
// attempt timeout, moves it to the next provider. When the plan is used up
// the caller receives a *aigate.GenerationError carrying the last cause.
package retry

import (
	"context"
	"iter"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/credential"
)

// Operation names a gateway operation and the capability it needs.
type Operation string

const (
	OpCompletion    Operation = "completion"
	OpStreaming     Operation = "streaming_completion"
	OpExtraction    Operation = "structured_extraction"
	OpEmbedding     Operation = "embedding"
	OpImageAnalysis Operation = "image_analysis"
	OpTranscription Operation = "audio_transcription"
)

// Capability returns the adapter capability the operation requires.
func (op Operation) Capability() ai.Capability {
	switch op {
	case OpStreaming:
		return ai.CapStreaming
	case OpEmbedding:
		return ai.CapEmbedding
	case OpImageAnalysis, OpTranscription:
		return ai.CapMultimodal
	default:
		return ai.CapCompletion
	}
}

// Config holds the dependencies of an Orchestrator.
type Config struct {
	Adapters    []ai.Adapter
	Credentials *credential.Set
	Primary     ai.Provider
	Fallbacks   []ai.Provider

	// Logger receives attempt logs. Nil discards them.
	Logger *slog.Logger
	// Events receives attempt events without blocking. Nil disables them.
	Events chan<- Event
}

// Orchestrator runs requests against adapters following the plan.
// It is safe for concurrent use.
type Orchestrator struct {
	adapters  map[ai.Provider]ai.Adapter
	creds     *credential.Set
	primary   ai.Provider
	fallbacks []ai.Provider
	logger    *slog.Logger
	events    chan<- Event
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		adapters:  make(map[ai.Provider]ai.Adapter, len(cfg.Adapters)),
		creds:     cfg.Credentials,
		primary:   cfg.Primary,
		fallbacks: append([]ai.Provider(nil), cfg.Fallbacks...),
		logger:    cfg.Logger,
		events:    cfg.Events,
	}
	for _, a := range cfg.Adapters {
		o.adapters[a.Provider()] = a
	}
	if o.creds == nil {
		o.creds = credential.NewSet(nil)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithEvents returns a copy of o that reports to events instead.
func (o *Orchestrator) WithEvents(events chan<- Event) *Orchestrator {
	cp := *o
	cp.events = events
	return &cp
}

// Primary returns the default preferred provider.
func (o *Orchestrator) Primary() ai.Provider { return o.primary }

// Adapter returns the adapter registered for provider.
func (o *Orchestrator) Adapter(provider ai.Provider) (ai.Adapter, bool) {
	a, ok := o.adapters[provider]
	return a, ok
}

// Plan returns the ordered providers for a request: the preferred provider
// (the primary unless opts names one) followed by the fallbacks (the
// configured ones unless opts sets its own). Each appears at most once.
func (o *Orchestrator) Plan(opts *ai.Options) []ai.Provider {
	preferred := o.primary
	fallbacks := o.fallbacks
	if opts != nil {
		if opts.Provider != "" {
			preferred = opts.Provider
		}
		if opts.Fallbacks != nil {
			fallbacks = opts.Fallbacks
		}
	}

	plan := make([]ai.Provider, 0, 1+len(fallbacks))
	seen := make(map[ai.Provider]bool, 1+len(fallbacks))
	for _, p := range append([]ai.Provider{preferred}, fallbacks...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		plan = append(plan, p)
	}
	return plan
}

// AttemptFunc performs one attempt with one credential. ctx carries the
// per-attempt timeout.
type AttemptFunc[T any] func(ctx context.Context, adapter ai.Adapter, cred ai.Credential) (T, error)

// Do runs fn under the rotation and fallback policy and returns the first
// successful result.
func Do[T any](ctx context.Context, o *Orchestrator, opts *ai.Options, op Operation, fn AttemptFunc[T]) (T, error) {
	result, release, err := run(ctx, o, opts, op, fn)
	if release != nil {
		release()
	}
	return result, err
}

// StreamFunc opens one streaming attempt with one credential.
type StreamFunc func(ctx context.Context, adapter ai.Adapter, cred ai.Credential) iter.Seq2[string, error]

// Stream runs a streaming request under the same policy as Do. Nothing
// happens until the sequence is pulled. An attempt counts as successful
// once its first chunk (or a clean end) arrives; failures before that point
// fall through to the next credential or provider without the consumer
// seeing them. After the first chunk the stream is committed, and a later
// error is yielded as the final element. Stopping early releases the
// underlying attempt.
func Stream(ctx context.Context, o *Orchestrator, opts *ai.Options, fn StreamFunc) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		p, release, err := run(ctx, o, opts, OpStreaming, func(ctx context.Context, a ai.Adapter, cred ai.Credential) (*primed, error) {
			next, stop := iter.Pull2(fn(ctx, a, cred))
			chunk, err, ok := next()
			if err != nil {
				stop()
				return nil, err
			}
			return &primed{provider: a.Provider(), first: chunk, more: ok, next: next, stop: stop}, nil
		})
		if err != nil {
			yield("", err)
			return
		}
		defer release()
		defer p.stop()

		if !p.more || !yield(p.first, nil) {
			return
		}
		for {
			chunk, err, ok := p.next()
			if !ok {
				return
			}
			if err != nil {
				yield("", Judge(ctx, p.provider, err).Err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// primed is a stream whose first element has already been pulled.
type primed struct {
	provider ai.Provider
	first    string
	more     bool
	next     func() (string, error, bool)
	stop     func()
}

// run is the attempt loop shared by Do and Stream. On success it returns
// the release function of the winning attempt's context; the caller must
// call it once the result is no longer in use.
func run[T any](ctx context.Context, o *Orchestrator, opts *ai.Options, op Operation, fn AttemptFunc[T]) (T, context.CancelFunc, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, nil, err
	}
	if opts == nil {
		opts = &ai.Options{}
	}

	log := o.logger.With("request_id", opts.RequestID, "operation", string(op))
	base := Event{RequestID: opts.RequestID, Operation: op}

	var (
		attempts int
		last     error
	)
	for i, provider := range o.Plan(opts) {
		adapter, ok := o.adapters[provider]
		if !ok || !adapter.Capabilities().Has(op.Capability()) {
			last = &ai.UnsupportedOperationError{Provider: provider, Operation: string(op)}
			log.Debug("provider skipped", "provider", provider, "reason", last)
			o.emit(base, Event{Type: EventSkipped, Provider: provider, Outcome: Unsupported, Error: last})
			continue
		}
		if i > 0 {
			log.Info("falling back", "provider", provider, "attempts", attempts)
			o.emit(base, Event{Type: EventFallback, Provider: provider, Error: last})
		}

		tries := max(1, o.creds.Size(provider))
		for try := range tries {
			cred, err := o.creds.Draw(provider)
			if err != nil {
				return zero, nil, err
			}
			attempts++
			o.emit(base, Event{Type: EventAttemptStart, Provider: provider, Credential: cred.String(), Attempt: attempts})

			attemptCtx, cancel := withTimeout(ctx, opts.Timeout)
			start := time.Now()
			result, err := fn(attemptCtx, adapter, cred)
			out := Judge(ctx, provider, err)
			attempt := Event{
				Provider:   provider,
				Credential: cred.String(),
				Attempt:    attempts,
				Outcome:    out.Kind,
				Error:      out.Err,
				Duration:   time.Since(start),
			}

			if out.Kind == Success {
				log.Debug("attempt succeeded", "provider", provider, "credential", cred, "attempt", attempts)
				attempt.Type = EventSuccess
				o.emit(base, attempt)
				return result, cancel, nil
			}
			cancel()

			attempt.Type = EventAttemptFailed
			o.emit(base, attempt)
			if out.Kind == Canceled {
				return zero, nil, out.Err
			}
			last = out.Err

			if out.Kind != RateLimited {
				log.Warn("provider failed", "provider", provider, "credential", cred, "attempt", attempts, "error", out.Err)
				break
			}
			log.Warn("credential rate limited", "provider", provider, "credential", cred, "attempt", attempts)
			if try < tries-1 {
				o.emit(base, Event{Type: EventRotated, Provider: provider, Attempt: attempts, Error: out.Err})
			}
		}
	}

	log.Error("all providers exhausted", "attempts", attempts, "error", last)
	o.emit(base, Event{Type: EventExhausted, Attempt: attempts, Error: last})
	return zero, nil, &ai.GenerationError{Operation: string(op), Attempts: attempts, Last: last}
}

func (o *Orchestrator) emit(base, e Event) {
	e.RequestID = base.RequestID
	e.Operation = base.Operation
	emit(o.events, e)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
