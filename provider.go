package aigate

import (
	"context"
	"iter"
	"strings"
)

// Provider identifies an AI provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider normalizes a provider name as found in configuration.
func ParseProvider(s string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(s)))
}

// Capability is a set of operations an adapter implements.
type Capability uint8

const (
	CapCompletion Capability = 1 << iota
	CapStreaming
	CapEmbedding
	CapMultimodal
)

// Has reports whether every capability in c is part of the set.
func (s Capability) Has(c Capability) bool {
	return s&c == c
}

// String returns the capability names joined with "|".
func (s Capability) String() string {
	var names []string
	for _, c := range []struct {
		cap  Capability
		name string
	}{
		{CapCompletion, "completion"},
		{CapStreaming, "streaming"},
		{CapEmbedding, "embedding"},
		{CapMultimodal, "multimodal"},
	} {
		if s.Has(c.cap) {
			names = append(names, c.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Credential is a single API key bound to its provider.
type Credential struct {
	Provider Provider
	Secret   string
}

// String redacts the secret so credentials are safe to log. Only keys of at
// least 12 bytes show their last four.
func (c Credential) String() string {
	if len(c.Secret) < 12 {
		return string(c.Provider) + ":****"
	}
	return string(c.Provider) + ":****" + c.Secret[len(c.Secret)-4:]
}

// ProviderConfig holds the per-adapter defaults. It is immutable once the
// gateway is built.
type ProviderConfig struct {
	ID                 Provider `yaml:"id" validate:"required,oneof=google openai anthropic"`
	DefaultModel       string   `yaml:"model"`
	DefaultTemperature *float64 `yaml:"temperature" validate:"omitempty,gte=0,lte=2"`
	DefaultMaxTokens   int      `yaml:"max_tokens" validate:"gte=0"`
	EmbeddingModel     string   `yaml:"embedding_model"`
	BaseURL            string   `yaml:"base_url" validate:"omitempty,url"`
}

// Request is the provider-neutral request handed to an adapter after the
// gateway has resolved defaults.
type Request struct {
	Messages    []Message
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Adapter translates neutral requests into calls against one backend.
// Operations outside Capabilities return *UnsupportedOperationError.
// Backend errors are returned as *RateLimitError or *ProviderError.
type Adapter interface {
	Provider() Provider
	Capabilities() Capability

	// Complete returns the full text of a completion.
	Complete(ctx context.Context, cred Credential, req *Request) (string, error)

	// Stream returns a finite, single-pass sequence of text chunks.
	// The backend call starts on the first pull; stopping early releases it.
	Stream(ctx context.Context, cred Credential, req *Request) iter.Seq2[string, error]

	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, cred Credential, model, text string) (Embedding, error)

	// AnalyzeImage answers req about an inline image payload.
	AnalyzeImage(ctx context.Context, cred Credential, req *Request, payload Payload) (string, error)

	// TranscribeAudio transcribes an inline audio payload, steered by req.
	TranscribeAudio(ctx context.Context, cred Credential, req *Request, payload Payload) (string, error)
}
