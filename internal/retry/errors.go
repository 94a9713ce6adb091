package retry

import (
	"errors"
	"net/http"
	"strings"

	ai "github.com/spetersoncode/aigate"
)

// statusCoder is implemented by SDK errors that expose an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// Classify converts err into the gateway taxonomy. Errors that an adapter
// already classified are returned unchanged. Anything else is judged
// heuristically: a 429 status or a rate-limit message becomes a
// RateLimitError, everything else a ProviderError.
func Classify(provider ai.Provider, err error) error {
	if err == nil {
		return nil
	}

	var (
		rl  *ai.RateLimitError
		pe  *ai.ProviderError
		uoe *ai.UnsupportedOperationError
		ce  *ai.ConfigurationError
	)
	switch {
	case errors.As(err, &rl), errors.As(err, &pe), errors.As(err, &uoe), errors.As(err, &ce):
		return err
	}

	code := 0
	var sc statusCoder
	if errors.As(err, &sc) {
		code = sc.StatusCode()
	}
	if code == http.StatusTooManyRequests || looksRateLimited(err) {
		return &ai.RateLimitError{Provider: provider, StatusCode: code, Cause: err}
	}
	return &ai.ProviderError{Provider: provider, StatusCode: code, Cause: err}
}

// rateLimitPatterns are message fragments backends use for throttling.
var rateLimitPatterns = []string{
	"too many requests",
	"rate limit",
	"ratelimit",
	"resource exhausted",
	"resource_exhausted",
	"quota exceeded",
}

func looksRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range rateLimitPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
