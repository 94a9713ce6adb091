package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ai "github.com/spetersoncode/aigate"
	"google.golang.org/genai"
)

// wrapError maps a Google GenAI error onto the gateway taxonomy.
// genai.APIError does not expose headers, so RetryAfter is never set.
// Context errors pass through untouched for the orchestrator to judge.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	code, status, ok := apiStatus(err)
	if !ok {
		return &ai.ProviderError{Provider: ai.ProviderGoogle, Cause: err}
	}

	if code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" {
		return &ai.RateLimitError{Provider: ai.ProviderGoogle, StatusCode: code, Cause: err}
	}
	return &ai.ProviderError{
		Provider:   ai.ProviderGoogle,
		StatusCode: code,
		Msg:        describeStatus(code),
		Cause:      err,
	}
}

func apiStatus(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, true
	}
	var apiPtr *genai.APIError
	if errors.As(err, &apiPtr) && apiPtr != nil {
		return apiPtr.Code, apiPtr.Status, true
	}
	return 0, "", false
}

// describeStatus names the failure class of an HTTP status code.
func describeStatus(code int) string {
	switch {
	case code == 401 || code == 403:
		return "authentication failed"
	case code == 400 || code == 404 || code == 422:
		return "invalid request"
	case code >= 500 && code < 600:
		return "server error"
	default:
		return "request failed"
	}
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}
