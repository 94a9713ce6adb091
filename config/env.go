package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/aigate"
)

// Environment variables read by FromEnv.
const (
	EnvPrimary     = "AIGATE_PRIMARY"
	EnvFallbacks   = "AIGATE_FALLBACKS"
	EnvTemperature = "AIGATE_TEMPERATURE"
	EnvMaxTokens   = "AIGATE_MAX_TOKENS"
	EnvTimeout     = "AIGATE_TIMEOUT"
)

var knownProviders = []ai.Provider{ai.ProviderGoogle, ai.ProviderOpenAI, ai.ProviderAnthropic}

// FromEnv builds the configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
//
// Besides the AIGATE_* settings, each provider reads
// <PROVIDER>_API_KEYS (comma separated) and <PROVIDER>_API_KEY,
// <PROVIDER>_MODEL, <PROVIDER>_EMBEDDING_MODEL and <PROVIDER>_BASE_URL.
// Without AIGATE_PRIMARY the first provider with keys becomes primary.
func FromEnv() (*Config, error) {
	godotenv.Load() // Load .env file if present
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		Primary:     ai.ParseProvider(get(EnvPrimary)),
		Credentials: make(map[ai.Provider][]string),
	}
	for _, name := range splitList(get(EnvFallbacks)) {
		cfg.Fallbacks = append(cfg.Fallbacks, ai.ParseProvider(name))
	}

	var errs []error
	if v := get(EnvTemperature); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTemperature, err))
		} else {
			cfg.Temperature = &t
		}
	}
	if v := get(EnvMaxTokens); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxTokens, err))
		}
		cfg.MaxTokens = n
	}
	if v := get(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTimeout, err))
		}
		cfg.Timeout = d
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	for _, p := range knownProviders {
		prefix := strings.ToUpper(string(p)) + "_"
		keys := append(splitList(get(prefix+"API_KEYS")), splitList(get(prefix+"API_KEY"))...)
		if len(keys) > 0 {
			cfg.Credentials[p] = keys
			if cfg.Primary == "" {
				cfg.Primary = p
			}
		}

		pc := ai.ProviderConfig{
			ID:             p,
			DefaultModel:   get(prefix + "MODEL"),
			EmbeddingModel: get(prefix + "EMBEDDING_MODEL"),
			BaseURL:        get(prefix + "BASE_URL"),
		}
		if pc != (ai.ProviderConfig{ID: p}) {
			cfg.setProvider(pc)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
