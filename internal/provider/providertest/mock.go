// Package providertest provides a configurable adapter for tests.
package providertest

import (
	"context"
	"iter"
	"sync"

	ai "github.com/spetersoncode/aigate"
)

// MockAdapter is a configurable test double for aigate.Adapter.
// Set the Func fields to control behavior; an unset func reports the
// operation as unsupported. Every call records the credential it received.
// All methods are safe for concurrent use.
type MockAdapter struct {
	ID   ai.Provider
	Caps ai.Capability

	CompleteFunc   func(ctx context.Context, cred ai.Credential, req *ai.Request) (string, error)
	StreamFunc     func(ctx context.Context, cred ai.Credential, req *ai.Request) iter.Seq2[string, error]
	EmbedFunc      func(ctx context.Context, cred ai.Credential, model, text string) (ai.Embedding, error)
	ImageFunc      func(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error)
	TranscribeFunc func(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error)

	mu       sync.Mutex
	secrets  []string
	requests []*ai.Request
}

// New returns a MockAdapter for provider with the given capabilities.
func New(provider ai.Provider, caps ai.Capability) *MockAdapter {
	return &MockAdapter{ID: provider, Caps: caps}
}

func (m *MockAdapter) record(cred ai.Credential, req *ai.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets = append(m.secrets, cred.Secret)
	if req != nil {
		m.requests = append(m.requests, req)
	}
}

func (m *MockAdapter) unsupported(op string) error {
	return &ai.UnsupportedOperationError{Provider: m.ID, Operation: op}
}

// Calls returns the number of calls made so far.
func (m *MockAdapter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.secrets)
}

// Secrets returns the credential secrets used, in call order.
func (m *MockAdapter) Secrets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.secrets...)
}

// Requests returns the requests received, in call order.
func (m *MockAdapter) Requests() []*ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ai.Request(nil), m.requests...)
}

// Provider returns ID.
func (m *MockAdapter) Provider() ai.Provider { return m.ID }

// Capabilities returns Caps.
func (m *MockAdapter) Capabilities() ai.Capability { return m.Caps }

// Complete delegates to CompleteFunc.
func (m *MockAdapter) Complete(ctx context.Context, cred ai.Credential, req *ai.Request) (string, error) {
	m.record(cred, req)
	if m.CompleteFunc == nil {
		return "", m.unsupported("completion")
	}
	return m.CompleteFunc(ctx, cred, req)
}

// Stream delegates to StreamFunc. The call is recorded when the sequence
// is first pulled.
func (m *MockAdapter) Stream(ctx context.Context, cred ai.Credential, req *ai.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		m.record(cred, req)
		if m.StreamFunc == nil {
			yield("", m.unsupported("streaming"))
			return
		}
		for chunk, err := range m.StreamFunc(ctx, cred, req) {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

// Embed delegates to EmbedFunc.
func (m *MockAdapter) Embed(ctx context.Context, cred ai.Credential, model, text string) (ai.Embedding, error) {
	m.record(cred, nil)
	if m.EmbedFunc == nil {
		return nil, m.unsupported("embedding")
	}
	return m.EmbedFunc(ctx, cred, model, text)
}

// AnalyzeImage delegates to ImageFunc.
func (m *MockAdapter) AnalyzeImage(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error) {
	m.record(cred, req)
	if m.ImageFunc == nil {
		return "", m.unsupported("image analysis")
	}
	return m.ImageFunc(ctx, cred, req, payload)
}

// TranscribeAudio delegates to TranscribeFunc.
func (m *MockAdapter) TranscribeAudio(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error) {
	m.record(cred, req)
	if m.TranscribeFunc == nil {
		return "", m.unsupported("audio transcription")
	}
	return m.TranscribeFunc(ctx, cred, req, payload)
}

// Chunks returns a stream that yields chunks in order.
func Chunks(chunks ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Failing returns a stream that yields chunks and then err.
func Failing(err error, chunks ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		yield("", err)
	}
}

// RateLimited returns a *aigate.RateLimitError for provider.
func RateLimited(provider ai.Provider) error {
	return &ai.RateLimitError{Provider: provider, StatusCode: 429}
}

// Failed returns a *aigate.ProviderError for provider.
func Failed(provider ai.Provider, status int) error {
	return &ai.ProviderError{Provider: provider, StatusCode: status}
}

var _ ai.Adapter = (*MockAdapter)(nil)
