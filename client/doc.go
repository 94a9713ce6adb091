// Package client is the gateway facade used by the CRM.
//
// A Client owns one credential pool per provider, one adapter per provider
// and the orchestrator that walks them. Callers only see operations:
//
//   - GenerateCompletion and GenerateStreamingCompletion
//   - ExtractStructuredData and AnalyzeImageAs for typed JSON answers
//   - GenerateEmbedding
//   - AnalyzeImage and TranscribeAudio
//
// # Basic Usage
//
//	c, err := client.New(client.Config{
//	    Primary:   ai.ProviderGoogle,
//	    Fallbacks: []ai.Provider{ai.ProviderOpenAI},
//	    Credentials: map[ai.Provider][]string{
//	        ai.ProviderGoogle: {os.Getenv("GOOGLE_KEY_1"), os.Getenv("GOOGLE_KEY_2")},
//	        ai.ProviderOpenAI: {os.Getenv("OPENAI_KEY")},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	text, err := c.GenerateCompletion(ctx, []ai.Message{
//	    ai.SystemMessage("You write short CRM follow-ups."),
//	    ai.UserMessage("Draft a reply to the last email from Ann."),
//	})
//
// # Rotation and Fallback
//
// A rate-limited attempt moves on to the next key of the same provider, so a
// provider with N keys is tried at most N times. Any other failure moves on
// to the next provider of the plan: the preferred provider (WithProvider, or
// the primary) followed by the fallbacks (WithFallbacks, or the configured
// ones). Providers that lack the capability an operation needs are skipped.
// When every provider is used up the error is a *aigate.GenerationError.
//
// # Settings
//
// Model, temperature and max tokens resolve per provider: request options
// first, then the provider's ProviderConfig, then the gateway defaults. A
// model named with WithModel only applies to the preferred provider.
//
// # Events
//
// Observe operations via an event channel:
//
//	events := make(chan client.Event, 100)
//	c, _ := client.New(client.Config{
//	    Primary:     ai.ProviderOpenAI,
//	    Credentials: map[ai.Provider][]string{ai.ProviderOpenAI: {key}},
//	    Events:      events,
//	})
//
//	go func() {
//	    for e := range events {
//	        fmt.Printf("[%s] %s took %v\n", e.Type, e.Operation, e.Duration)
//	    }
//	}()
package client
