package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-structurer/internal/config"
	"github.com/jonathan/resume-structurer/internal/github"
	"github.com/jonathan/resume-structurer/internal/llm"
	"github.com/jonathan/resume-structurer/internal/structuring"
)

// loadConfig resolves configuration from the optional file and the environment.
func loadConfig(path string, lookup func(string) (string, bool)) (*config.Config, error) {
	c, err := config.Load(path, lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return c, nil
}

// newStructurer builds the model client and structuring service from c.
// The caller must close the returned client.
func newStructurer(ctx context.Context, c *config.Config) (*structuring.Service, llm.Client, error) {
	llmCfg, err := c.LLMConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}
	if c.LLMAPIKey == "" {
		return nil, nil, fmt.Errorf("an API key for provider %s is required (set LLM_API_KEY)", llmCfg.Provider)
	}

	client, err := llm.NewClient(ctx, llmCfg, c.LLMAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return structuring.NewService(client, llmCfg.GenerationConfig), client, nil
}

func newGitHubClient(c *config.Config) *github.Client {
	return github.NewClient(c.GitHubAPIURL, c.GitHubToken)
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return writeBytes(w, path, append(data, '\n'))
}

func writeBytes(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
