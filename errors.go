package aigate

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput is returned when a required input is empty.
var ErrEmptyInput = errors.New("empty input")

// ConfigurationError indicates the gateway cannot serve a provider because it
// is not configured, most commonly because no credentials were loaded for it.
// It is fatal and never retried.
type ConfigurationError struct {
	Provider Provider
	Msg      string
}

// Error returns the error message.
func (e *ConfigurationError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Provider, e.Msg)
	}
	return "configuration error: " + e.Msg
}

// RateLimitError indicates the provider throttled the credential used.
// The orchestrator answers it by rotating to the next credential of the
// same provider.
type RateLimitError struct {
	Provider   Provider
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, 0 if not available
	Cause      error
}

// Error returns the error message.
func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s rate limited: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s rate limited", e.Provider)
}

// Unwrap returns the underlying error.
func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// ProviderError is any other adapter, network or backend failure.
// It moves the request to the next provider without retrying the current one.
type ProviderError struct {
	Provider   Provider
	StatusCode int // HTTP status code, 0 if not applicable
	Msg        string
	Cause      error
}

// Error returns the error message.
func (e *ProviderError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "request failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// UnsupportedOperationError is returned when a provider does not implement
// the requested capability.
type UnsupportedOperationError struct {
	Provider  Provider
	Operation string
}

// Error returns the error message.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s provider does not support %s", e.Provider, e.Operation)
}

// ParseError is returned when model output cannot be repaired into valid
// structured data. Raw holds the unmodified model output for diagnostics.
type ParseError struct {
	Raw   string
	Cause error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unparseable model output (%d bytes): %v", len(e.Raw), e.Cause)
	}
	return fmt.Sprintf("unparseable model output (%d bytes)", len(e.Raw))
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// GenerationError is the terminal failure returned once every provider and
// credential in a request's plan has been tried. Last is the final
// classified cause.
type GenerationError struct {
	Operation string
	Attempts  int
	Last      error
}

// Error returns the error message.
func (e *GenerationError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s failed: no provider could serve the request", e.Operation)
	}
	return fmt.Sprintf("%s failed after %d attempts: last error: %v", e.Operation, e.Attempts, e.Last)
}

// Unwrap returns the last underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Last
}

// IsRateLimit reports whether err is or wraps a RateLimitError.
func IsRateLimit(err error) bool {
	var target *RateLimitError
	return errors.As(err, &target)
}

// IsProviderError reports whether err is or wraps a ProviderError.
func IsProviderError(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}

// IsUnsupported reports whether err is or wraps an UnsupportedOperationError.
func IsUnsupported(err error) bool {
	var target *UnsupportedOperationError
	return errors.As(err, &target)
}

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// StatusCodeOf returns the HTTP status code carried by a classified error, or 0.
func StatusCodeOf(err error) int {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.StatusCode
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// RetryAfterOf returns the retry delay suggested by the provider, or 0.
func RetryAfterOf(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}

// PayloadError represents an invalid multimodal payload.
type PayloadError struct {
	Op       string // "decode" or "validate"
	MimeType string
	Err      error
}

// Error returns a formatted error message describing the payload failure.
func (e *PayloadError) Error() string {
	return fmt.Sprintf("payload %s error for %s: %v", e.Op, e.MimeType, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *PayloadError) Unwrap() error {
	return e.Err
}
