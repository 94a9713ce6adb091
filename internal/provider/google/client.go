package google

import (
	"context"
	"iter"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/internal/provider"
	"google.golang.org/genai"
)

// Client adapts the Google GenAI SDK to aigate.Adapter. It serves every
// capability: completion, streaming, embedding and inline multimodal input.
type Client struct {
	clients        *provider.ClientCache[*genai.Client]
	model          ChatModel
	embeddingModel EmbeddingModel
	baseURL        string
}

// New creates a Google adapter. SDK clients are created per credential on
// first use.
func New(opts ...ClientOption) *Client {
	c := &Client{
		model:          DefaultChatModel,
		embeddingModel: DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.clients = provider.NewClientCache(c.newSDKClient)
	return c
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default chat model for requests without one.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEmbeddingModel sets the default embedding model.
func WithEmbeddingModel(model EmbeddingModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithBaseURL points the SDK at a different endpoint, such as a proxy.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

func (c *Client) newSDKClient(secret string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  secret,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	return genai.NewClient(context.Background(), cfg)
}

func (c *Client) sdk(cred ai.Credential) (*genai.Client, error) {
	client, err := c.clients.Get(cred.Secret)
	if err != nil {
		return nil, &ai.ProviderError{Provider: ai.ProviderGoogle, Msg: "client init failed", Cause: err}
	}
	return client, nil
}

// Provider returns ai.ProviderGoogle.
func (c *Client) Provider() ai.Provider { return ai.ProviderGoogle }

// Capabilities reports every capability.
func (c *Client) Capabilities() ai.Capability {
	return ai.CapCompletion | ai.CapStreaming | ai.CapEmbedding | ai.CapMultimodal
}

func (c *Client) modelFor(req *ai.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model.String()
}

// Complete sends the conversation and returns the full response text.
func (c *Client) Complete(ctx context.Context, cred ai.Credential, req *ai.Request) (string, error) {
	client, err := c.sdk(cred)
	if err != nil {
		return "", err
	}

	system, contents := convertMessages(req.Messages)
	resp, err := client.Models.GenerateContent(ctx, c.modelFor(req), contents, generateConfig(req, system))
	if err != nil {
		return "", wrapError(err)
	}
	return responseText(resp)
}

// Stream sends the conversation and yields text deltas as they arrive.
// Breaking out of the sequence stops reading the response body.
func (c *Client) Stream(ctx context.Context, cred ai.Credential, req *ai.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		client, err := c.sdk(cred)
		if err != nil {
			yield("", err)
			return
		}

		system, contents := convertMessages(req.Messages)
		for resp, err := range client.Models.GenerateContentStream(ctx, c.modelFor(req), contents, generateConfig(req, system)) {
			if err != nil {
				yield("", wrapError(err))
				return
			}
			if err := checkBlocked(resp); err != nil {
				yield("", err)
				return
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text == "" {
					continue
				}
				if !yield(part.Text, nil) {
					return
				}
			}
		}
	}
}

// generateConfig maps the neutral request settings onto the SDK config.
func generateConfig(req *ai.Request, system *genai.Content) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	return config
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if err := checkBlocked(resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", &ai.ProviderError{Provider: ai.ProviderGoogle, Msg: "response had no candidates"}
	}

	content := ""
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			content += part.Text
		}
	}
	return content, nil
}

var _ ai.Adapter = (*Client)(nil)
