package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-structurer/internal/logger"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Complete generates text for the given prompts.
func (c *GeminiClient) Complete(ctx context.Context, system, user string, gen GenerationConfig) (string, error) {
	if err := gen.Validate(); err != nil {
		return "", fmt.Errorf("invalid generation config: %w", err)
	}

	model := c.client.GenerativeModel(gen.Model)
	model.SetTemperature(float32(gen.Temperature))
	model.SetMaxOutputTokens(int32(gen.MaxTokens))
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", serviceError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", serviceError(err)
	}

	event := logger.Info().Str("provider", string(ProviderGemini)).Str("model", gen.Model).Int("chars", len(text))
	if resp.UsageMetadata != nil {
		event = event.Int32("tokens", resp.UsageMetadata.TotalTokenCount)
	}
	event.Msg("llm_response_received")
	return text, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
