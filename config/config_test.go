package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	ai "github.com/spetersoncode/aigate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
primary: google
fallbacks: [openai]
temperature: 0.3
max_tokens: 2048
timeout: 45s
credentials:
  google: ["${TEST_GOOGLE_KEY}", "g-static"]
  openai: ["${TEST_OPENAI_KEY:-o-default}"]
providers:
  - id: google
    model: gemini-2.5-pro
    embedding_model: gemini-embedding-001
  - id: openai
    model: gpt-5-mini
    max_tokens: 1024
    base_url: http://localhost:8080/v1
`

func TestLoad(t *testing.T) {
	t.Setenv("TEST_GOOGLE_KEY", "g-from-env")

	path := filepath.Join(t.TempDir(), "aigate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ai.ProviderGoogle, cfg.Primary)
	assert.Equal(t, []ai.Provider{ai.ProviderOpenAI}, cfg.Fallbacks)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.3, *cfg.Temperature, 1e-9)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"g-from-env", "g-static"}, cfg.Credentials[ai.ProviderGoogle])
	assert.Equal(t, []string{"o-default"}, cfg.Credentials[ai.ProviderOpenAI])

	assert.Equal(t, "gemini-2.5-pro", cfg.Provider(ai.ProviderGoogle).DefaultModel)
	assert.Equal(t, "gemini-embedding-001", cfg.Provider(ai.ProviderGoogle).EmbeddingModel)
	assert.Equal(t, 1024, cfg.Provider(ai.ProviderOpenAI).DefaultMaxTokens)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Provider(ai.ProviderOpenAI).BaseURL)
	assert.Equal(t, ai.ProviderConfig{ID: ai.ProviderAnthropic}, cfg.Provider(ai.ProviderAnthropic))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseUnresolvedVariable(t *testing.T) {
	_, err := Parse([]byte("primary: google\ncredentials:\n  google: [\"${AIGATE_TEST_UNSET_VAR}\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AIGATE_TEST_UNSET_VAR")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		fields []string
	}{
		{
			name:   "missing primary",
			yaml:   "credentials:\n  google: [k]\n",
			fields: []string{"primary"},
		},
		{
			name:   "unknown primary",
			yaml:   "primary: mistral\ncredentials:\n  mistral: [k]\n",
			fields: []string{"primary", "credentials.mistral"},
		},
		{
			name:   "fallback without keys",
			yaml:   "primary: google\nfallbacks: [anthropic]\ncredentials:\n  google: [k]\n",
			fields: []string{"credentials.anthropic"},
		},
		{
			name:   "temperature out of range",
			yaml:   "primary: google\ntemperature: 3\ncredentials:\n  google: [k]\n",
			fields: []string{"temperature"},
		},
		{
			name:   "bad provider entry",
			yaml:   "primary: google\ncredentials:\n  google: [k]\nproviders:\n  - id: google\n    max_tokens: -1\n    base_url: not a url\n",
			fields: []string{"providers[0].max_tokens", "providers[0].base_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
		})
	}
}

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		EnvPrimary:           "openai",
		EnvFallbacks:         "google, anthropic",
		EnvTemperature:       "0.7",
		EnvMaxTokens:         "512",
		EnvTimeout:           "20s",
		"OPENAI_API_KEYS":    "o1, o2,,o3",
		"GOOGLE_API_KEY":     "g1",
		"ANTHROPIC_API_KEYS": "a1",
		"ANTHROPIC_MODEL":    "claude-haiku-4-5",
	}))
	require.NoError(t, err)

	assert.Equal(t, ai.ProviderOpenAI, cfg.Primary)
	assert.Equal(t, []ai.Provider{ai.ProviderGoogle, ai.ProviderAnthropic}, cfg.Fallbacks)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-9)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"o1", "o2", "o3"}, cfg.Credentials[ai.ProviderOpenAI])
	assert.Equal(t, []string{"g1"}, cfg.Credentials[ai.ProviderGoogle])
	assert.Equal(t, "claude-haiku-4-5", cfg.Provider(ai.ProviderAnthropic).DefaultModel)
	assert.Len(t, cfg.Providers, 1)
}

func TestFromLookupDefaultsPrimary(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"OPENAI_API_KEY":    "o1",
		"ANTHROPIC_API_KEY": "a1",
	}))
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, cfg.Primary, "first provider with keys in google, openai, anthropic order")
	assert.Nil(t, cfg.Fallbacks)
}

func TestFromLookupErrors(t *testing.T) {
	_, err := fromLookup(lookupFrom(map[string]string{
		"GOOGLE_API_KEY": "g1",
		EnvTemperature:   "warm",
		EnvTimeout:       "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTemperature)
	assert.Contains(t, err.Error(), EnvTimeout)

	_, err = fromLookup(lookupFrom(map[string]string{}))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "primary")
}

func TestClientConfig(t *testing.T) {
	temp := 0.1
	cfg := &Config{
		Primary:     ai.ProviderGoogle,
		Fallbacks:   []ai.Provider{ai.ProviderOpenAI},
		Temperature: &temp,
		MaxTokens:   99,
		Timeout:     time.Second,
		Providers:   []ai.ProviderConfig{{ID: ai.ProviderGoogle, DefaultModel: "m"}},
		Credentials: map[ai.Provider][]string{ai.ProviderGoogle: {"g"}, ai.ProviderOpenAI: {"o"}},
	}

	cc := cfg.ClientConfig()
	assert.Equal(t, cfg.Primary, cc.Primary)
	assert.Equal(t, cfg.Fallbacks, cc.Fallbacks)
	assert.Equal(t, cfg.Providers, cc.Providers)
	assert.Equal(t, cfg.Credentials, cc.Credentials)
	assert.Equal(t, &temp, cc.DefaultTemperature)
	assert.Equal(t, 99, cc.DefaultMaxTokens)
	assert.Equal(t, time.Second, cc.Timeout)
}
