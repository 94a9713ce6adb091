package openai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/aigate"
)

// wrapError maps an OpenAI SDK error onto the gateway taxonomy, keeping the
// status code and any Retry-After hint. Context errors pass through.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return &ai.ProviderError{Provider: ai.ProviderOpenAI, Cause: err}
	}

	code := apiErr.StatusCode
	if code == http.StatusTooManyRequests {
		return &ai.RateLimitError{
			Provider:   ai.ProviderOpenAI,
			StatusCode: code,
			RetryAfter: parseRetryAfter(apiErr.Response),
			Cause:      err,
		}
	}
	return &ai.ProviderError{
		Provider:   ai.ProviderOpenAI,
		StatusCode: code,
		Msg:        describeStatus(code),
		Cause:      err,
	}
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

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// HTTP-date form (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
