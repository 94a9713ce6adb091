package google

// ChatModel represents a Google Gemini chat model.
type ChatModel string

const (
	Gemini3Pro        ChatModel = "gemini-3.0-pro"
	Gemini25Pro       ChatModel = "gemini-2.5-pro"
	Gemini25Flash     ChatModel = "gemini-2.5-flash"
	Gemini25FlashLite ChatModel = "gemini-2.5-flash-lite"

	// DefaultChatModel is used when neither the request nor the provider
	// configuration names a model.
	DefaultChatModel ChatModel = Gemini25Flash
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }

// EmbeddingModel represents a Google text embedding model.
type EmbeddingModel string

const (
	GeminiEmbedding001 EmbeddingModel = "gemini-embedding-001" // 3072 dimensions

	// DefaultEmbeddingModel is the recommended default embedding model.
	DefaultEmbeddingModel EmbeddingModel = GeminiEmbedding001
)

// String returns the model identifier string.
func (m EmbeddingModel) String() string { return string(m) }
