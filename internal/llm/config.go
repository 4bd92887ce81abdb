// Package llm provides the model configuration and the clients that invoke
// a generative model with a system and a user prompt.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// Generation defaults.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 4096
	MaxTemperature     = 2.0
)

var defaultModels = map[Provider]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-3-7-sonnet-latest",
}

// GenerationConfig bounds a single model call.
type GenerationConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Validate checks the model name, the temperature range and the token limit.
func (g GenerationConfig) Validate() error {
	if strings.TrimSpace(g.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if g.Temperature < 0 || g.Temperature > MaxTemperature {
		return fmt.Errorf("temperature must be between 0 and %.0f, got %g", MaxTemperature, g.Temperature)
	}
	if g.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", g.MaxTokens)
	}
	return nil
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	GenerationConfig
}

// ParseProvider returns the provider named s, case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaultModels[p]; !ok {
		return "", fmt.Errorf("unknown LLM provider %q", s)
	}
	return p, nil
}

// DefaultModel returns the model used for p when none is configured.
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderGemini)
}

// DefaultConfigFor returns the default configuration for provider p.
func DefaultConfigFor(p Provider) *Config {
	return &Config{
		Provider: p,
		GenerationConfig: GenerationConfig{
			Model:       DefaultModel(p),
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
	}
}

// WithModel returns a copy of c that uses model.
func (c *Config) WithModel(model string) *Config {
	next := *c
	next.Model = model
	return &next
}

// Validate checks the provider and the generation bounds.
func (c *Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return c.GenerationConfig.Validate()
}
