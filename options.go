package aigate

import "time"

// Options contains configuration for a single gateway call.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64

	// Provider is the preferred provider. Empty means the gateway primary.
	Provider Provider
	// Fallbacks is the ordered list of providers tried after Provider.
	// Nil means the gateway's configured fallbacks.
	Fallbacks []Provider

	// Timeout bounds each individual provider attempt. A timeout is treated
	// as a provider failure: the request falls through to the next provider.
	Timeout time.Duration

	// RequestID correlates logs and events. Generated when empty.
	RequestID string
}

// Option is a functional option for configuring gateway calls.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithProvider sets the preferred provider for the request.
func WithProvider(p Provider) Option {
	return func(o *Options) {
		o.Provider = p
	}
}

// WithFallbacks sets the ordered fallback providers for the request,
// replacing the gateway defaults. Call with no arguments to disable fallback.
func WithFallbacks(providers ...Provider) Option {
	return func(o *Options) {
		o.Fallbacks = append([]Provider{}, providers...)
	}
}

// WithTimeout bounds each provider attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithRequestID sets the correlation id for the request.
func WithRequestID(id string) Option {
	return func(o *Options) {
		o.RequestID = id
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
