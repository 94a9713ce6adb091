package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ai "github.com/spetersoncode/aigate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages(t *testing.T) {
	system, contents := convertMessages([]ai.Message{
		ai.UserMessage("hello"),
		ai.SystemMessage("be brief"),
		ai.AssistantMessage("hi"),
		ai.UserMessage(""),
		ai.UserMessage("bye"),
	})

	require.NotNil(t, system)
	require.Len(t, system.Parts, 1)
	assert.Equal(t, "be brief", system.Parts[0].Text)

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "bye", contents[2].Parts[0].Text)
}

func TestConvertMessagesWithoutSystem(t *testing.T) {
	system, contents := convertMessages([]ai.Message{ai.UserMessage("q")})
	assert.Nil(t, system)
	assert.Len(t, contents, 1)
}

func TestAttachInline(t *testing.T) {
	blob := &genai.Blob{Data: []byte("img"), MIMEType: "image/png"}

	t.Run("appends to last user turn", func(t *testing.T) {
		_, contents := convertMessages([]ai.Message{ai.UserMessage("what is this?")})
		contents = attachInline(contents, blob)
		require.Len(t, contents, 1)
		require.Len(t, contents[0].Parts, 2)
		assert.Same(t, blob, contents[0].Parts[1].InlineData)
	})

	t.Run("adds a user turn", func(t *testing.T) {
		contents := attachInline(nil, blob)
		require.Len(t, contents, 1)
		assert.Equal(t, "user", contents[0].Role)
	})
}

func TestGenerateConfig(t *testing.T) {
	temp := 0.3
	cfg := generateConfig(&ai.Request{MaxTokens: 256, Temperature: &temp}, nil)
	assert.Equal(t, int32(256), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.3, *cfg.Temperature, 1e-6)

	cfg = generateConfig(&ai.Request{}, nil)
	assert.Zero(t, cfg.MaxOutputTokens)
	assert.Nil(t, cfg.Temperature)
}

func TestWrapError(t *testing.T) {
	t.Run("429 is a rate limit", func(t *testing.T) {
		err := wrapError(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"})
		assert.True(t, ai.IsRateLimit(err))
		assert.Equal(t, 429, ai.StatusCodeOf(err))
	})

	t.Run("resource exhausted status is a rate limit", func(t *testing.T) {
		err := wrapError(fmt.Errorf("call: %w", genai.APIError{Code: 0, Status: "RESOURCE_EXHAUSTED"}))
		assert.True(t, ai.IsRateLimit(err))
	})

	t.Run("auth failure is a provider error", func(t *testing.T) {
		err := wrapError(genai.APIError{Code: 403, Status: "PERMISSION_DENIED"})
		assert.True(t, ai.IsProviderError(err))
		assert.Contains(t, err.Error(), "authentication failed")
		assert.Equal(t, 403, ai.StatusCodeOf(err))
	})

	t.Run("network error is a provider error", func(t *testing.T) {
		err := wrapError(errors.New("connection reset"))
		assert.True(t, ai.IsProviderError(err))
		assert.Zero(t, ai.StatusCodeOf(err))
	})

	t.Run("context errors pass through", func(t *testing.T) {
		assert.Equal(t, context.Canceled, wrapError(context.Canceled))
		assert.Nil(t, wrapError(nil))
	})
}

func TestResponseText(t *testing.T) {
	t.Run("joins parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Hello, "}, {Text: "world"}}},
		}}}
		text, err := responseText(resp)
		require.NoError(t, err)
		assert.Equal(t, "Hello, world", text)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
		}
		_, err := responseText(resp)
		assert.True(t, ai.IsProviderError(err))
		var blocked *BlockedError
		require.True(t, errors.As(err, &blocked))
		assert.Equal(t, "SAFETY", blocked.Reason)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{})
		assert.True(t, ai.IsProviderError(err))
	})
}

func TestClientDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, ai.ProviderGoogle, c.Provider())
	assert.True(t, c.Capabilities().Has(ai.CapEmbedding|ai.CapMultimodal))
	assert.Equal(t, DefaultChatModel.String(), c.modelFor(&ai.Request{}))
	assert.Equal(t, "gemini-2.5-pro", c.modelFor(&ai.Request{Model: "gemini-2.5-pro"}))

	c = New(WithModel(Gemini25Pro), WithModel(""))
	assert.Equal(t, Gemini25Pro, c.model)
}

func TestCompleteOverHTTP(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"pong"}]}}]}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL + "/"))
	text, err := c.Complete(context.Background(), ai.Credential{Provider: ai.ProviderGoogle, Secret: "key-1"}, &ai.Request{
		Messages: []ai.Message{ai.UserMessage("ping")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", text)
	assert.Equal(t, "key-1", gotKey)
}

func TestCompleteRateLimitedOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL + "/"))
	_, err := c.Complete(context.Background(), ai.Credential{Provider: ai.ProviderGoogle, Secret: "key-1"}, &ai.Request{
		Messages: []ai.Message{ai.UserMessage("ping")},
	})
	require.Error(t, err)
	assert.True(t, ai.IsRateLimit(err))
}

func TestEmbedRequiresText(t *testing.T) {
	_, err := New().Embed(context.Background(), ai.Credential{Secret: "k"}, "", "")
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
}
