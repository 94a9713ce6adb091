package client

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/jsonrepair"
)

// ExtractStructuredData asks the model to pull data shaped like schema out
// of sourceText and decodes the repaired JSON into T. If the first response
// cannot be parsed the request is issued once more; a second
// *aigate.ParseError is returned to the caller.
//
//	type Contact struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//	contact, err := client.ExtractStructuredData[Contact](ctx, c,
//	    "John is 30 years old", ai.SchemaFor[Contact]())
func ExtractStructuredData[T any](ctx context.Context, c *Client, sourceText string, schema ai.ExtractionSchema, opts ...ai.Option) (T, error) {
	if sourceText == "" {
		var zero T
		return zero, fmt.Errorf("%w: source text is required", ai.ErrEmptyInput)
	}
	o := c.prepare(opts)
	messages := []ai.Message{
		ai.SystemMessage(schema.Instruction()),
		ai.UserMessage(sourceText),
	}
	return decodeWithReissue[T](c, o, func() (string, error) {
		return c.complete(ctx, o, OpExtraction, messages)
	})
}

// AnalyzeImageAs analyzes an image and decodes the structured answer into
// T, with the same single re-issue on unparseable output as
// ExtractStructuredData.
func AnalyzeImageAs[T any](ctx context.Context, c *Client, payload ai.Payload, prompt string, schema ai.ExtractionSchema, opts ...ai.Option) (T, error) {
	if err := checkPayload(payload, "image"); err != nil {
		var zero T
		return zero, err
	}
	o := c.prepare(opts)
	messages := []ai.Message{
		ai.SystemMessage(schema.Instruction()),
		ai.UserMessage(orDefault(prompt, defaultImagePrompt)),
	}
	return decodeWithReissue[T](c, o, func() (string, error) {
		return c.analyzeImage(ctx, o, payload, messages)
	})
}

// decodeWithReissue produces model output and decodes it, producing it a
// second time if the first output is unparseable.
func decodeWithReissue[T any](c *Client, o *ai.Options, produce func() (string, error)) (T, error) {
	var zero T
	const maxIssues = 2

	var err error
	for issue := 1; issue <= maxIssues; issue++ {
		var raw string
		raw, err = produce()
		if err != nil {
			return zero, err
		}

		var out T
		err = jsonrepair.Unmarshal(raw, &out)
		if err == nil {
			return out, nil
		}
		if !ai.IsParseError(err) {
			return zero, err
		}
		c.logger.Warn("unparseable model output",
			"request_id", o.RequestID, "issue", issue, "bytes", len(raw), "error", err)
	}
	return zero, err
}
