package aigate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("no options yields zero values", func(t *testing.T) {
		o := ApplyOptions()
		assert.Empty(t, o.Model)
		assert.Zero(t, o.MaxTokens)
		assert.Nil(t, o.Temperature)
		assert.Nil(t, o.Fallbacks)
		assert.Empty(t, o.Provider)
	})

	t.Run("all options", func(t *testing.T) {
		o := ApplyOptions(
			WithModel("gemini-2.5-flash"),
			WithMaxTokens(512),
			WithTemperature(0.2),
			WithProvider(ProviderOpenAI),
			WithFallbacks(ProviderGoogle, ProviderAnthropic),
			WithTimeout(5*time.Second),
			WithRequestID("req-1"),
		)

		assert.Equal(t, "gemini-2.5-flash", o.Model)
		assert.Equal(t, 512, o.MaxTokens)
		require.NotNil(t, o.Temperature)
		assert.InDelta(t, 0.2, *o.Temperature, 1e-9)
		assert.Equal(t, ProviderOpenAI, o.Provider)
		assert.Equal(t, []Provider{ProviderGoogle, ProviderAnthropic}, o.Fallbacks)
		assert.Equal(t, 5*time.Second, o.Timeout)
		assert.Equal(t, "req-1", o.RequestID)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		o := ApplyOptions(WithTemperature(1.0), WithTemperature(0.0))
		require.NotNil(t, o.Temperature)
		assert.Zero(t, *o.Temperature)
	})

	t.Run("empty fallbacks disables fallback", func(t *testing.T) {
		o := ApplyOptions(WithFallbacks())
		assert.NotNil(t, o.Fallbacks)
		assert.Empty(t, o.Fallbacks)
	})
}

func TestCapability(t *testing.T) {
	caps := CapCompletion | CapStreaming

	assert.True(t, caps.Has(CapCompletion))
	assert.True(t, caps.Has(CapCompletion|CapStreaming))
	assert.False(t, caps.Has(CapEmbedding))
	assert.False(t, caps.Has(CapCompletion|CapMultimodal))
	assert.Equal(t, "completion|streaming", caps.String())
	assert.Equal(t, "none", Capability(0).String())
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, ProviderGoogle, ParseProvider(" Google "))
	assert.Equal(t, ProviderOpenAI, ParseProvider("OPENAI"))
}

func TestCredentialString(t *testing.T) {
	assert.Equal(t, "google:****wxyz", Credential{Provider: ProviderGoogle, Secret: "sk-proj-abcwxyz"}.String())
	assert.Equal(t, "google:****", Credential{Provider: ProviderGoogle, Secret: "sk-abcdef"}.String())
	assert.Equal(t, "anthropic:****", Credential{Provider: ProviderAnthropic, Secret: "abcdefghijk"}.String())
	assert.Equal(t, "openai:****", Credential{Provider: ProviderOpenAI, Secret: "abc"}.String())
}

func TestEmbedding(t *testing.T) {
	e := Embedding{0.5, -1, 2}
	assert.Equal(t, 3, e.Dimensions())
	assert.Equal(t, []float32{0.5, -1, 2}, e.Float32())
}
