package anthropic

import (
	"context"
	"iter"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/internal/provider"
)

// Client adapts the Anthropic SDK to aigate.Adapter.
type Client struct {
	clients *provider.ClientCache[*anthropic.Client]
	model   ChatModel
	baseURL string
}

// New creates an Anthropic adapter.
func New(opts ...ClientOption) *Client {
	c := &Client{model: DefaultChatModel}
	for _, opt := range opts {
		opt(c)
	}
	c.clients = provider.NewClientCache(c.newSDKClient)
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests without one.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the SDK at a different endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

func (c *Client) newSDKClient(secret string) (*anthropic.Client, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(secret),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &client, nil
}

func (c *Client) sdk(cred ai.Credential) (*anthropic.Client, error) {
	client, err := c.clients.Get(cred.Secret)
	if err != nil {
		return nil, &ai.ProviderError{Provider: ai.ProviderAnthropic, Msg: "client init failed", Cause: err}
	}
	return client, nil
}

// Provider returns ai.ProviderAnthropic.
func (c *Client) Provider() ai.Provider { return ai.ProviderAnthropic }

// Capabilities reports completion and streaming.
func (c *Client) Capabilities() ai.Capability {
	return ai.CapCompletion | ai.CapStreaming
}

func (c *Client) params(req *ai.Request) anthropic.MessageNewParams {
	model := c.model.String()
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := int64(defaultMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	msgs, system := convertMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	return params
}

// Complete sends the conversation and returns the concatenated text blocks.
func (c *Client) Complete(ctx context.Context, cred ai.Credential, req *ai.Request) (string, error) {
	client, err := c.sdk(cred)
	if err != nil {
		return "", err
	}

	resp, err := client.Messages.New(ctx, c.params(req))
	if err != nil {
		return "", wrapError(err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return content, nil
}

// Stream sends the conversation and yields text deltas. The HTTP stream is
// closed when the sequence ends or the consumer stops early.
func (c *Client) Stream(ctx context.Context, cred ai.Credential, req *ai.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		client, err := c.sdk(cred)
		if err != nil {
			yield("", err)
			return
		}

		stream := client.Messages.NewStreaming(ctx, c.params(req))
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			if event.Type != "content_block_delta" {
				continue
			}
			delta := event.AsContentBlockDelta()
			textDelta := delta.Delta.AsTextDelta()
			if textDelta.Type != "text_delta" || textDelta.Text == "" {
				continue
			}
			if !yield(textDelta.Text, nil) {
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
	return nil, &ai.UnsupportedOperationError{Provider: ai.ProviderAnthropic, Operation: "embedding"}
}

// AnalyzeImage is not supported by this adapter.
func (c *Client) AnalyzeImage(context.Context, ai.Credential, *ai.Request, ai.Payload) (string, error) {
	return "", &ai.UnsupportedOperationError{Provider: ai.ProviderAnthropic, Operation: "image analysis"}
}

// TranscribeAudio is not supported by this adapter.
func (c *Client) TranscribeAudio(context.Context, ai.Credential, *ai.Request, ai.Payload) (string, error) {
	return "", &ai.UnsupportedOperationError{Provider: ai.ProviderAnthropic, Operation: "audio transcription"}
}

var _ ai.Adapter = (*Client)(nil)
