package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-structurer/internal/apperr"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// Complete sends one system and one user prompt and returns the raw text answer.
	Complete(ctx context.Context, system, user string, gen GenerationConfig) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, system, user string, gen GenerationConfig) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, system, user string, gen GenerationConfig) (string, error) {
	return f(ctx, system, user, gen)
}

// Close is a no-op.
func (f ClientFunc) Close() error { return nil }

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}

// serviceError wraps a provider failure so callers see an LLM service error
// carrying the provider's message.
func serviceError(err error) error {
	return &apperr.ExternalServiceError{
		Service: apperr.ServiceLLM,
		Message: fmt.Sprintf("LLM API error: %v", err),
		Cause:   err,
	}
}
