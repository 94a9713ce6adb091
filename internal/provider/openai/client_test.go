package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	ai "github.com/spetersoncode/aigate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = ai.Credential{Provider: ai.ProviderOpenAI, Secret: "sk-test"}

func TestConvertMessages(t *testing.T) {
	msgs := convertMessages([]ai.Message{
		ai.UserMessage("hello"),
		ai.SystemMessage("be brief"),
		ai.AssistantMessage(""),
		ai.AssistantMessage("hi"),
	})

	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestParams(t *testing.T) {
	temp := 0.7
	c := New(WithModel(GPT4oMini))

	p := c.params(&ai.Request{Messages: []ai.Message{ai.UserMessage("q")}, MaxTokens: 128, Temperature: &temp})
	assert.Equal(t, "gpt-4o-mini", p.Model)
	assert.Equal(t, int64(128), p.MaxCompletionTokens.Value)
	assert.Equal(t, 0.7, p.Temperature.Value)

	p = c.params(&ai.Request{Model: "gpt-5"})
	assert.Equal(t, "gpt-5", p.Model)
	assert.Zero(t, p.MaxCompletionTokens.Value)
}

func TestUnsupportedOperations(t *testing.T) {
	c := New()
	assert.Equal(t, ai.ProviderOpenAI, c.Provider())
	assert.False(t, c.Capabilities().Has(ai.CapEmbedding))
	assert.False(t, c.Capabilities().Has(ai.CapMultimodal))

	_, err := c.Embed(context.Background(), testCred, "", "text")
	assert.True(t, ai.IsUnsupported(err))
	_, err = c.AnalyzeImage(context.Background(), testCred, &ai.Request{}, ai.Payload{})
	assert.True(t, ai.IsUnsupported(err))
	_, err = c.TranscribeAudio(context.Background(), testCred, &ai.Request{}, ai.Payload{})
	assert.True(t, ai.IsUnsupported(err))
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, parseRetryAfter(nil))
	assert.Zero(t, parseRetryAfter(resp))

	resp.Header.Set("Retry-After", "12")
	assert.Equal(t, 12*time.Second, parseRetryAfter(resp))

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, parseRetryAfter(resp))
}

func TestWrapErrorPassesContextErrors(t *testing.T) {
	assert.Nil(t, wrapError(nil))
	assert.ErrorIs(t, wrapError(fmt.Errorf("post: %w", context.DeadlineExceeded)), context.DeadlineExceeded)
	assert.False(t, ai.IsProviderError(wrapError(context.Canceled)))
	assert.True(t, ai.IsProviderError(wrapError(fmt.Errorf("dial tcp: refused"))))
}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL + "/"))
}

func TestCompleteOverHTTP(t *testing.T) {
	var auth string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-5-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"pong"}}]}`))
	})

	text, err := c.Complete(context.Background(), testCred, &ai.Request{Messages: []ai.Message{ai.UserMessage("ping")}})
	require.NoError(t, err)
	assert.Equal(t, "pong", text)
	assert.Equal(t, "Bearer sk-test", auth)
}

func TestCompleteRateLimitedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	})

	_, err := c.Complete(context.Background(), testCred, &ai.Request{Messages: []ai.Message{ai.UserMessage("ping")}})
	require.Error(t, err)
	assert.True(t, ai.IsRateLimit(err))
	assert.Equal(t, 3*time.Second, ai.RetryAfterOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	_, err := c.Complete(context.Background(), testCred, &ai.Request{Messages: []ai.Message{ai.UserMessage("ping")}})
	require.Error(t, err)
	assert.True(t, ai.IsProviderError(err))
	assert.Equal(t, 500, ai.StatusCodeOf(err))
}

func TestStreamOverHTTP(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\","+
				"\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var got string
	for chunk, err := range c.Stream(context.Background(), testCred, &ai.Request{Messages: []ai.Message{ai.UserMessage("hi")}}) {
		require.NoError(t, err)
		got += chunk
	}
	assert.Equal(t, "Hello", got)
}

func TestStreamStopsEarly(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"a", "b", "c"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\","+
				"\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var got []string
	for chunk, err := range c.Stream(context.Background(), testCred, &ai.Request{Messages: []ai.Message{ai.UserMessage("hi")}}) {
		require.NoError(t, err)
		got = append(got, chunk)
		break
	}
	assert.Equal(t, []string{"a"}, got)
}
