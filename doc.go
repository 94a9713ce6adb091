// Package aigate provides the provider-neutral types of the AI provider gateway.
//
// The gateway routes completion, streaming, structured extraction, embedding
// and multimodal requests to one of several LLM backends (Google Gemini,
// OpenAI, Anthropic). It rotates API keys on rate limits, falls back between
// providers, and repairs loosely formatted JSON returned by models.
//
// # Core Types
//
//   - [Adapter]: one backend, tagged with the [Capability] set it implements
//   - [Credential]: an API key bound to a provider
//   - [Message], [Request], [Options]: what callers send
//   - [Payload], [Embedding], [ExtractionSchema]: multimodal input, vectors and shapes
//
// Use the [github.com/spetersoncode/aigate/client] package as the entry point.
//
// # Basic Usage
//
//	gw, err := client.New(client.Config{
//	    Primary:   aigate.ProviderGoogle,
//	    Fallbacks: []aigate.Provider{aigate.ProviderOpenAI},
//	    Credentials: map[aigate.Provider][]string{
//	        aigate.ProviderGoogle: {os.Getenv("GOOGLE_API_KEY")},
//	        aigate.ProviderOpenAI: {os.Getenv("OPENAI_API_KEY")},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := gw.GenerateCompletion(ctx, []aigate.Message{
//	    aigate.UserMessage("Summarize this meeting note: ..."),
//	})
//
// # Structured Extraction
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//
//	p, err := client.ExtractStructuredData[Person](ctx, gw,
//	    "John is 30 years old", aigate.SchemaFor[Person]())
//
// # Errors
//
// Every failure is classified into one of [ConfigurationError],
// [RateLimitError], [ProviderError], [UnsupportedOperationError],
// [ParseError] or the terminal [GenerationError].
package aigate
