package client

import (
	"context"
	"errors"
	"fmt"

	ai "github.com/spetersoncode/aigate"
)

const (
	defaultImagePrompt = "Describe this image."
	defaultAudioPrompt = "Transcribe this audio verbatim. Respond with the transcription only."
)

// GenerateEmbedding returns the embedding vector for text.
func (c *Client) GenerateEmbedding(ctx context.Context, text string, opts ...ai.Option) (ai.Embedding, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required for embedding", ai.ErrEmptyInput)
	}
	o := c.prepare(opts)
	return call(ctx, c, o, OpEmbedding, func(ctx context.Context, a ai.Adapter, cred ai.Credential) (ai.Embedding, error) {
		return a.Embed(ctx, cred, c.embeddingModel(a.Provider(), o), text)
	})
}

// AnalyzeImage answers prompt about an inline image. An empty prompt asks
// for a description.
func (c *Client) AnalyzeImage(ctx context.Context, payload ai.Payload, prompt string, opts ...ai.Option) (string, error) {
	if err := checkPayload(payload, "image"); err != nil {
		return "", err
	}
	o := c.prepare(opts)
	return c.analyzeImage(ctx, o, payload, []ai.Message{ai.UserMessage(orDefault(prompt, defaultImagePrompt))})
}

func (c *Client) analyzeImage(ctx context.Context, o *ai.Options, payload ai.Payload, messages []ai.Message) (string, error) {
	return call(ctx, c, o, OpImageAnalysis, func(ctx context.Context, a ai.Adapter, cred ai.Credential) (string, error) {
		return a.AnalyzeImage(ctx, cred, c.buildRequest(a.Provider(), messages, o), payload)
	})
}

// TranscribeAudio transcribes an inline audio payload. prompt can steer
// the transcription, e.g. with expected names or a language.
func (c *Client) TranscribeAudio(ctx context.Context, payload ai.Payload, prompt string, opts ...ai.Option) (string, error) {
	if err := checkPayload(payload, "audio"); err != nil {
		return "", err
	}
	o := c.prepare(opts)
	messages := []ai.Message{ai.UserMessage(orDefault(prompt, defaultAudioPrompt))}
	return call(ctx, c, o, OpTranscription, func(ctx context.Context, a ai.Adapter, cred ai.Credential) (string, error) {
		return a.TranscribeAudio(ctx, cred, c.buildRequest(a.Provider(), messages, o), payload)
	})
}

// checkPayload validates payload and its media kind before any attempt.
func checkPayload(payload ai.Payload, kind string) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	ok := payload.IsImage()
	if kind == "audio" {
		ok = payload.IsAudio()
	}
	if !ok {
		return &ai.PayloadError{Op: "validate", MimeType: payload.MimeType, Err: errors.New("not " + kind + " content")}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
