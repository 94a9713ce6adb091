package google

import (
	"context"

	ai "github.com/spetersoncode/aigate"
	"google.golang.org/genai"
)

// AnalyzeImage answers the conversation about an inline image.
func (c *Client) AnalyzeImage(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error) {
	return c.generateInline(ctx, cred, req, payload)
}

// TranscribeAudio transcribes inline audio; the conversation carries the
// transcription instructions.
func (c *Client) TranscribeAudio(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error) {
	return c.generateInline(ctx, cred, req, payload)
}

func (c *Client) generateInline(ctx context.Context, cred ai.Credential, req *ai.Request, payload ai.Payload) (string, error) {
	data, err := payload.Bytes()
	if err != nil {
		return "", err
	}

	client, err := c.sdk(cred)
	if err != nil {
		return "", err
	}

	system, contents := convertMessages(req.Messages)
	contents = attachInline(contents, &genai.Blob{Data: data, MIMEType: payload.MimeType})

	resp, err := client.Models.GenerateContent(ctx, c.modelFor(req), contents, generateConfig(req, system))
	if err != nil {
		return "", wrapError(err)
	}
	return responseText(resp)
}
