package openai

// ChatModel represents an OpenAI chat/completion model.
type ChatModel string

const (
	GPT52     ChatModel = "gpt-5.2"
	GPT5      ChatModel = "gpt-5"
	GPT5Mini  ChatModel = "gpt-5-mini"
	GPT5Nano  ChatModel = "gpt-5-nano"
	GPT4oMini ChatModel = "gpt-4o-mini"

	// DefaultChatModel is used when neither the request nor the provider
	// configuration names a model.
	DefaultChatModel ChatModel = GPT5Mini
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
