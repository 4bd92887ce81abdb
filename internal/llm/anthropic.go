package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonathan/resume-structurer/internal/logger"
)

// AnthropicClient implements Client for Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client. Extra request options
// such as a base URL may be appended.
func NewAnthropicClient(apiKey string, opts ...anthropicopt.RequestOption) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	opts = append([]anthropicopt.RequestOption{anthropicopt.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{client: anthropic.NewClient(opts...)}, nil
}

// Complete generates text for the given prompts.
func (c *AnthropicClient) Complete(ctx context.Context, system, user string, gen GenerationConfig) (string, error) {
	if err := gen.Validate(); err != nil {
		return "", fmt.Errorf("invalid generation config: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(gen.Model),
		MaxTokens:   int64(gen.MaxTokens),
		Temperature: anthropic.Float(gen.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", serviceError(err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", serviceError(errors.New("no text content in response"))
	}

	logger.Info().
		Str("provider", string(ProviderAnthropic)).
		Str("model", gen.Model).
		Int("chars", sb.Len()).
		Int64("tokens", resp.Usage.InputTokens+resp.Usage.OutputTokens).
		Msg("llm_response_received")
	return sb.String(), nil
}

// Close is a no-op; the SDK client holds no resources.
func (c *AnthropicClient) Close() error {
	return nil
}
