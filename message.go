package aigate

import "github.com/google/uuid"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// OrderMessages returns a copy of messages with every system message moved
// to the front. Relative order within each group is preserved.
func OrderMessages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			out = append(out, m)
		}
	}
	for _, m := range messages {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// SplitSystem separates system content from the conversation turns.
// Multiple system messages are joined with a blank line.
func SplitSystem(messages []Message) (system string, turns []Message) {
	for _, m := range OrderMessages(messages) {
		if m.Role != RoleSystem {
			turns = append(turns, m)
			continue
		}
		if m.Content == "" {
			continue
		}
		if system != "" {
			system += "\n\n"
		}
		system += m.Content
	}
	return system, turns
}

// GenerateRequestID creates a unique identifier for a gateway call.
func GenerateRequestID() string {
	return "req-" + uuid.New().String()
}
