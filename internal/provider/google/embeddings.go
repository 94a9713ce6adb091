package google

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/aigate"
	"google.golang.org/genai"
)

// Embed returns the embedding for text. An empty model selects the
// adapter's default embedding model.
func (c *Client) Embed(ctx context.Context, cred ai.Credential, model, text string) (ai.Embedding, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required for embedding", ai.ErrEmptyInput)
	}
	if model == "" {
		model = c.embeddingModel.String()
	}

	client, err := c.sdk(cred)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{{Parts: []*genai.Part{{Text: text}}}}
	resp, err := client.Models.EmbedContent(ctx, model, contents, &genai.EmbedContentConfig{})
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, &ai.ProviderError{Provider: ai.ProviderGoogle, Msg: "response had no embeddings"}
	}

	values := resp.Embeddings[0].Values
	out := make(ai.Embedding, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}
