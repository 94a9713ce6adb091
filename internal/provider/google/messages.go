package google

import (
	ai "github.com/spetersoncode/aigate"
	"google.golang.org/genai"
)

// convertMessages splits the conversation into Gemini's system instruction
// and its user/model turns. Empty turns are dropped.
func convertMessages(messages []ai.Message) (*genai.Content, []*genai.Content) {
	system, turns := ai.SplitSystem(messages)

	var instruction *genai.Content
	if system != "" {
		instruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, msg := range turns {
		if msg.Content == "" {
			continue
		}
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return instruction, contents
}

// attachInline adds blob to the final user turn, creating one if the
// conversation does not end with a user message.
func attachInline(contents []*genai.Content, blob *genai.Blob) []*genai.Content {
	part := &genai.Part{InlineData: blob}
	if n := len(contents); n > 0 && contents[n-1].Role == "user" {
		last := contents[n-1]
		last.Parts = append(last.Parts, part)
		return contents
	}
	return append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
}

func checkBlocked(resp *genai.GenerateContentResponse) error {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return &ai.ProviderError{
			Provider: ai.ProviderGoogle,
			Msg:      "prompt rejected",
			Cause:    &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)},
		}
	}
	return nil
}
