package openai

import (
	"context"
	"iter"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/internal/provider"
)

// Client adapts the OpenAI SDK to aigate.Adapter. It serves completion and
// streaming only.
type Client struct {
	clients *provider.ClientCache[*openai.Client]
	model   ChatModel
	baseURL string
}

// New creates an OpenAI adapter. SDK clients are created per credential on
// first use with SDK retries disabled; rotation is the gateway's job.
func New(opts ...ClientOption) *Client {
	c := &Client{model: DefaultChatModel}
	for _, opt := range opts {
		opt(c)
	}
	c.clients = provider.NewClientCache(c.newSDKClient)
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests without one.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the SDK at an OpenAI-compatible endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

func (c *Client) newSDKClient(secret string) (*openai.Client, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(secret),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)
	return &client, nil
}

func (c *Client) sdk(cred ai.Credential) (*openai.Client, error) {
	client, err := c.clients.Get(cred.Secret)
	if err != nil {
		return nil, &ai.ProviderError{Provider: ai.ProviderOpenAI, Msg: "client init failed", Cause: err}
	}
	return client, nil
}

// Provider returns ai.ProviderOpenAI.
func (c *Client) Provider() ai.Provider { return ai.ProviderOpenAI }

// Capabilities reports completion and streaming.
func (c *Client) Capabilities() ai.Capability {
	return ai.CapCompletion | ai.CapStreaming
}

func (c *Client) params(req *ai.Request) openai.ChatCompletionNewParams {
	model := c.model.String()
	if req.Model != "" {
		model = req.Model
	}
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	return params
}

// Complete sends the conversation and returns the full response text.
func (c *Client) Complete(ctx context.Context, cred ai.Credential, req *ai.Request) (string, error) {
	client, err := c.sdk(cred)
	if err != nil {
		return "", err
	}

	resp, err := client.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ai.ProviderError{Provider: ai.ProviderOpenAI, Msg: "response had no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream sends the conversation and yields content deltas as they arrive.
// The underlying HTTP stream is closed when the sequence ends or the
// consumer stops early.
func (c *Client) Stream(ctx context.Context, cred ai.Credential, req *ai.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		client, err := c.sdk(cred)
		if err != nil {
			yield("", err)
			return
		}

		stream := client.Chat.Completions.NewStreaming(ctx, c.params(req))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", wrapError(err))
		}
	}
}

// Embed is not supported by this adapter.
func (c *Client) Embed(context.Context, ai.Credential, string, string) (ai.Embedding, error) {
	return nil, &ai.UnsupportedOperationError{Provider: ai.ProviderOpenAI, Operation: "embedding"}
}

// AnalyzeImage is not supported by this adapter.
func (c *Client) AnalyzeImage(context.Context, ai.Credential, *ai.Request, ai.Payload) (string, error) {
	return "", &ai.UnsupportedOperationError{Provider: ai.ProviderOpenAI, Operation: "image analysis"}
}

// TranscribeAudio is not supported by this adapter.
func (c *Client) TranscribeAudio(context.Context, ai.Credential, *ai.Request, ai.Payload) (string, error) {
	return "", &ai.UnsupportedOperationError{Provider: ai.ProviderOpenAI, Operation: "audio transcription"}
}

var _ ai.Adapter = (*Client)(nil)
