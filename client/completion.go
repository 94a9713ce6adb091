package client

import (
	"context"
	"fmt"
	"iter"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/internal/retry"
)

// GenerateCompletion sends a conversation and returns the full response
// text. It fails with *aigate.GenerationError only after every provider in
// the request's plan has been exhausted.
func (c *Client) GenerateCompletion(ctx context.Context, messages []ai.Message, opts ...ai.Option) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: at least one message is required", ai.ErrEmptyInput)
	}
	o := c.prepare(opts)
	return c.complete(ctx, o, OpCompletion, messages)
}

func (c *Client) complete(ctx context.Context, o *ai.Options, op Operation, messages []ai.Message) (string, error) {
	return call(ctx, c, o, op, func(ctx context.Context, a ai.Adapter, cred ai.Credential) (string, error) {
		return a.Complete(ctx, cred, c.buildRequest(a.Provider(), messages, o))
	})
}

// GenerateStreamingCompletion returns the response as a sequence of text
// fragments produced as the backend emits them. Nothing is sent until the
// sequence is ranged over. Rotation and fallback happen before the first
// fragment; a failure after that ends the sequence with its error.
// Breaking out of the loop releases the backend stream.
//
//	stream, err := c.GenerateStreamingCompletion(ctx, msgs)
//	if err != nil {
//	    return err
//	}
//	for chunk, err := range stream {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk)
//	}
func (c *Client) GenerateStreamingCompletion(ctx context.Context, messages []ai.Message, opts ...ai.Option) (iter.Seq2[string, error], error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: at least one message is required", ai.ErrEmptyInput)
	}
	o := c.prepare(opts)

	return func(yield func(string, error) bool) {
		finish := c.begin(OpStreaming, o)
		orch, done := c.orchestrator()

		stream := retry.Stream(ctx, orch, o, func(ctx context.Context, a ai.Adapter, cred ai.Credential) iter.Seq2[string, error] {
			return a.Stream(ctx, cred, c.buildRequest(a.Provider(), messages, o))
		})

		var failure error
		for chunk, err := range stream {
			if err != nil {
				failure = err
				yield("", err)
				break
			}
			if !yield(chunk, nil) {
				break
			}
		}
		done()
		finish(failure)
	}, nil
}
