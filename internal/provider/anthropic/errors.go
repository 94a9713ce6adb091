package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/aigate"
)

// statusOverloaded is Anthropic's "overloaded" status.
const statusOverloaded = 529

// wrapError maps an Anthropic SDK error onto the gateway taxonomy.
// Context errors pass through.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &ai.ProviderError{Provider: ai.ProviderAnthropic, Cause: err}
	}

	code := apiErr.StatusCode
	if code == http.StatusTooManyRequests {
		return &ai.RateLimitError{
			Provider:   ai.ProviderAnthropic,
			StatusCode: code,
			RetryAfter: retryAfter(apiErr.Response),
			Cause:      err,
		}
	}

	msg := "request failed"
	switch {
	case code == 401 || code == 403:
		msg = "authentication failed"
	case code == 400 || code == 404 || code == 422:
		msg = "invalid request"
	case code == statusOverloaded:
		msg = "overloaded"
	case code >= 500 && code < 600:
		msg = "server error"
	}
	return &ai.ProviderError{Provider: ai.ProviderAnthropic, StatusCode: code, Msg: msg, Cause: err}
}

// retryAfter reads the Retry-After header in its delay-seconds form.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
