package anthropic

// ChatModel represents an Anthropic chat model.
type ChatModel string

const (
	ClaudeOpus45   ChatModel = "claude-opus-4-5"
	ClaudeSonnet45 ChatModel = "claude-sonnet-4-5"
	ClaudeHaiku45  ChatModel = "claude-haiku-4-5"

	// DefaultChatModel is used when neither the request nor the provider
	// configuration names a model.
	DefaultChatModel ChatModel = ClaudeSonnet45
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }

// defaultMaxTokens is sent when a request leaves MaxTokens unset; the
// Messages API requires the field.
const defaultMaxTokens = 4096
