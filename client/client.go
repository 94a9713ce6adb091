package client

import (
	"fmt"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/credential"
	"github.com/spetersoncode/aigate/internal/provider/anthropic"
	"github.com/spetersoncode/aigate/internal/provider/google"
	"github.com/spetersoncode/aigate/internal/provider/openai"
	"github.com/spetersoncode/aigate/internal/retry"
)

// Config holds configuration for creating a gateway client.
type Config struct {
	// Primary is the provider tried first. Defaults to the first entry of
	// Providers.
	Primary ai.Provider

	// Fallbacks are tried in order after Primary fails.
	Fallbacks []ai.Provider

	// Providers holds per-provider defaults. A provider with credentials but
	// no entry here uses the adapter's built-in defaults.
	Providers []ai.ProviderConfig

	// Credentials maps each provider to its API keys.
	Credentials map[ai.Provider][]string

	// DefaultTemperature and DefaultMaxTokens apply when neither the request
	// nor the provider configuration sets a value.
	DefaultTemperature *float64
	DefaultMaxTokens   int

	// Timeout bounds each provider attempt unless a request sets its own.
	// Zero means no per-attempt limit.
	Timeout time.Duration

	// Logger receives request logs. Nil discards them.
	Logger *slog.Logger

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAdapter replaces the built-in adapter for a.Provider().
func WithAdapter(a ai.Adapter) ClientOption {
	return func(c *Client) {
		c.adapters[a.Provider()] = a
	}
}

// WithCredentialOptions sets options used when building the credential pools.
func WithCredentialOptions(opts ...credential.Option) ClientOption {
	return func(c *Client) {
		c.credOpts = append(c.credOpts, opts...)
	}
}

// WithDefaultTemperature sets the gateway-wide default temperature.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.temperature = &t
	}
}

// WithDefaultMaxTokens sets the gateway-wide default max tokens.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// Client is the gateway facade. It is safe for concurrent use.
type Client struct {
	orch        *retry.Orchestrator
	providers   map[ai.Provider]ai.ProviderConfig
	adapters    map[ai.Provider]ai.Adapter
	credOpts    []credential.Option
	temperature *float64
	maxTokens   int
	timeout     time.Duration
	logger      *slog.Logger
	events      chan<- Event
}

// New creates a gateway client. It fails with *aigate.ConfigurationError
// when no primary provider can be determined, when the primary or a
// fallback has no credentials, or when a provider is unknown.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	c := &Client{
		providers:   make(map[ai.Provider]ai.ProviderConfig, len(cfg.Providers)),
		adapters:    make(map[ai.Provider]ai.Adapter),
		temperature: cfg.DefaultTemperature,
		maxTokens:   cfg.DefaultMaxTokens,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
		events:      cfg.Events,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	for _, pc := range cfg.Providers {
		c.providers[pc.ID] = pc
	}

	primary := cfg.Primary
	if primary == "" && len(cfg.Providers) > 0 {
		primary = cfg.Providers[0].ID
	}
	if primary == "" {
		return nil, &ai.ConfigurationError{Msg: "no primary provider configured"}
	}

	creds := credential.NewSet(cfg.Credentials, c.credOpts...)
	for _, p := range append([]ai.Provider{primary}, cfg.Fallbacks...) {
		if creds.Size(p) == 0 {
			return nil, &ai.ConfigurationError{Provider: p, Msg: "no credentials configured"}
		}
	}

	var adapters []ai.Adapter
	for _, p := range creds.Providers() {
		a, err := c.adapterFor(p)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	c.orch = retry.New(retry.Config{
		Adapters:    adapters,
		Credentials: creds,
		Primary:     primary,
		Fallbacks:   cfg.Fallbacks,
		Logger:      c.logger,
	})
	return c, nil
}

// adapterFor returns the override for p or builds the built-in adapter
// using p's configured defaults.
func (c *Client) adapterFor(p ai.Provider) (ai.Adapter, error) {
	if a, ok := c.adapters[p]; ok {
		return a, nil
	}
	pc := c.providers[p]
	switch p {
	case ai.ProviderGoogle:
		return google.New(
			google.WithModel(google.ChatModel(pc.DefaultModel)),
			google.WithEmbeddingModel(google.EmbeddingModel(pc.EmbeddingModel)),
			google.WithBaseURL(pc.BaseURL),
		), nil
	case ai.ProviderOpenAI:
		return openai.New(
			openai.WithModel(openai.ChatModel(pc.DefaultModel)),
			openai.WithBaseURL(pc.BaseURL),
		), nil
	case ai.ProviderAnthropic:
		return anthropic.New(
			anthropic.WithModel(anthropic.ChatModel(pc.DefaultModel)),
			anthropic.WithBaseURL(pc.BaseURL),
		), nil
	default:
		return nil, &ai.ConfigurationError{Provider: p, Msg: fmt.Sprintf("unknown provider %q", p)}
	}
}

// Primary returns the default preferred provider.
func (c *Client) Primary() ai.Provider {
	return c.orch.Primary()
}

// Capabilities returns the capabilities of provider's adapter, or zero if
// the provider is not configured.
func (c *Client) Capabilities(provider ai.Provider) ai.Capability {
	if a, ok := c.orch.Adapter(provider); ok {
		return a.Capabilities()
	}
	return 0
}

// prepare applies opts and fills in the request id and timeout.
func (c *Client) prepare(opts []ai.Option) *ai.Options {
	o := ai.ApplyOptions(opts...)
	if o.RequestID == "" {
		o.RequestID = ai.GenerateRequestID()
	}
	if o.Timeout == 0 {
		o.Timeout = c.timeout
	}
	return o
}

// preferred returns the first provider the request will try.
func (c *Client) preferred(o *ai.Options) ai.Provider {
	if o.Provider != "" {
		return o.Provider
	}
	return c.orch.Primary()
}

// buildRequest resolves settings for one provider. Request options win
// over the provider configuration, which wins over gateway defaults. A
// model named by the request only applies to the preferred provider;
// fallbacks use their own configured model.
func (c *Client) buildRequest(provider ai.Provider, messages []ai.Message, o *ai.Options) *ai.Request {
	pc := c.providers[provider]
	req := &ai.Request{
		Messages:    messages,
		Model:       pc.DefaultModel,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if pc.DefaultTemperature != nil {
		req.Temperature = pc.DefaultTemperature
	}
	if pc.DefaultMaxTokens > 0 {
		req.MaxTokens = pc.DefaultMaxTokens
	}
	if o.Model != "" && provider == c.preferred(o) {
		req.Model = o.Model
	}
	if o.Temperature != nil {
		req.Temperature = o.Temperature
	}
	if o.MaxTokens > 0 {
		req.MaxTokens = o.MaxTokens
	}
	return req
}

// embeddingModel resolves the embedding model for provider.
func (c *Client) embeddingModel(provider ai.Provider, o *ai.Options) string {
	if o.Model != "" && provider == c.preferred(o) {
		return o.Model
	}
	return c.providers[provider].EmbeddingModel
}
