package retry

import (
	"context"
	"errors"

	ai "github.com/spetersoncode/aigate"
)

// OutcomeKind is the classified result of a single attempt.
type OutcomeKind int

const (
	// Success means the attempt produced a result.
	Success OutcomeKind = iota
	// RateLimited means the credential was throttled; try the next one.
	RateLimited
	// Failed means the provider failed; move to the next provider.
	Failed
	// Unsupported means the provider lacks the capability; move on.
	Unsupported
	// Canceled means the caller gave up; stop immediately.
	Canceled
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case RateLimited:
		return "rate_limited"
	case Failed:
		return "failed"
	case Unsupported:
		return "unsupported"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Outcome is the result of one attempt against one credential.
// Err is nil only for Success.
type Outcome struct {
	Kind     OutcomeKind
	Provider ai.Provider
	Err      error
}

// Judge classifies the error returned by an attempt. ctx is the caller's
// context: once it is done every failure counts as Canceled. A deadline
// that fires while ctx is still live is the attempt timeout and counts as a
// provider failure.
func Judge(ctx context.Context, provider ai.Provider, err error) Outcome {
	out := Outcome{Provider: provider}
	if err == nil {
		out.Kind = Success
		return out
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		out.Kind = Canceled
		out.Err = ctxErr
		return out
	}
	if errors.Is(err, context.DeadlineExceeded) {
		out.Kind = Failed
		out.Err = &ai.ProviderError{Provider: provider, Msg: "attempt timed out", Cause: err}
		return out
	}

	err = Classify(provider, err)
	out.Err = err
	switch {
	case ai.IsUnsupported(err):
		out.Kind = Unsupported
	case ai.IsRateLimit(err):
		out.Kind = RateLimited
	default:
		out.Kind = Failed
	}
	return out
}
