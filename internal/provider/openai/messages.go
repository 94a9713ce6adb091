package openai

import (
	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/aigate"
)

// convertMessages maps the conversation to chat completion messages with
// system messages first. Empty messages are dropped.
func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	ordered := ai.OrderMessages(messages)
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(ordered))
	for _, msg := range ordered {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case ai.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
