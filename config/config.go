// Package config loads the gateway configuration from a YAML file or from
// environment variables and validates it.
package config

import (
	"time"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/client"
)

// Config is the gateway configuration surface.
type Config struct {
	// Primary is the default preferred provider.
	Primary ai.Provider `yaml:"primary" validate:"required,oneof=google openai anthropic"`

	// Fallbacks are tried in order after the primary.
	Fallbacks []ai.Provider `yaml:"fallbacks" validate:"dive,oneof=google openai anthropic"`

	// Temperature and MaxTokens are the gateway-wide defaults.
	Temperature *float64 `yaml:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int      `yaml:"max_tokens" validate:"gte=0"`

	// Timeout bounds each provider attempt, e.g. "30s". Zero disables it.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// Providers holds per-provider defaults.
	Providers []ai.ProviderConfig `yaml:"providers" validate:"dive"`

	// Credentials lists the API keys of each provider.
	Credentials map[ai.Provider][]string `yaml:"credentials"`
}

// Provider returns the configuration entry for id, or a zero entry with
// only ID set.
func (c *Config) Provider(id ai.Provider) ai.ProviderConfig {
	for _, pc := range c.Providers {
		if pc.ID == id {
			return pc
		}
	}
	return ai.ProviderConfig{ID: id}
}

// ClientConfig converts c into the configuration of a gateway client.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		Primary:            c.Primary,
		Fallbacks:          c.Fallbacks,
		Providers:          c.Providers,
		Credentials:        c.Credentials,
		DefaultTemperature: c.Temperature,
		DefaultMaxTokens:   c.MaxTokens,
		Timeout:            c.Timeout,
	}
}

// setProvider replaces or appends the entry for pc.ID.
func (c *Config) setProvider(pc ai.ProviderConfig) {
	for i := range c.Providers {
		if c.Providers[i].ID == pc.ID {
			c.Providers[i] = pc
			return
		}
	}
	c.Providers = append(c.Providers, pc)
}
