// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-structurer/internal/llm"
)

// Config holds the service configuration. Values come from an optional JSON
// file, then environment variables, then CLI flags; zero values fall back to
// Defaults.
type Config struct {
	// Model
	LLMProvider    string   `json:"llm_provider,omitempty"`    // gemini or anthropic
	LLMModel       string   `json:"llm_model,omitempty"`       // Defaults per provider
	LLMTemperature *float64 `json:"llm_temperature,omitempty"` // 0 to 2
	LLMMaxTokens   int      `json:"llm_max_tokens,omitempty"`
	LLMAPIKey      string   `json:"llm_api_key,omitempty"`

	// GitHub
	GitHubToken      string `json:"github_token,omitempty"`
	GitHubAPIURL     string `json:"github_api_url,omitempty"`
	GitHubCacheHours int    `json:"github_cache_hours,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty disables persistence

	// Server
	Port               int    `json:"port,omitempty"`
	MaxUploadSizeMB    int    `json:"max_upload_size_mb,omitempty"`
	AllowedOrigins     string `json:"allowed_origins,omitempty"` // Comma separated
	RateLimitPerMinute int    `json:"rate_limit_per_minute,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // json or pretty
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	temperature := llm.DefaultTemperature
	return Config{
		LLMProvider:        string(llm.ProviderGemini),
		LLMTemperature:     &temperature,
		LLMMaxTokens:       llm.DefaultMaxTokens,
		GitHubAPIURL:       "https://api.github.com",
		GitHubCacheHours:   24,
		Port:               8080,
		MaxUploadSizeMB:    10,
		AllowedOrigins:     "http://localhost:3000",
		RateLimitPerMinute: 10,
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional file at path, applies environment overrides from
// lookup, fills defaults and validates the result.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return nil, err
		}
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with the environment variables that are set.
// The API key is read from LLM_API_KEY, then from the provider specific
// GEMINI_API_KEY or ANTHROPIC_API_KEY.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("LLM_PROVIDER", &c.LLMProvider)
	str("LLM_MODEL", &c.LLMModel)
	if v, ok := lookup("LLM_TEMPERATURE"); ok && v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config error: LLM_TEMPERATURE must be a number: %w", err)
		}
		c.LLMTemperature = &t
	}
	str("GITHUB_TOKEN", &c.GitHubToken)
	str("GITHUB_API_URL", &c.GitHubAPIURL)
	str("DATABASE_URL", &c.DatabaseURL)
	str("ALLOWED_ORIGINS", &c.AllowedOrigins)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	for key, dst := range map[string]*int{
		"LLM_MAX_TOKENS":        &c.LLMMaxTokens,
		"GITHUB_CACHE_HOURS":    &c.GitHubCacheHours,
		"PORT":                  &c.Port,
		"MAX_UPLOAD_SIZE_MB":    &c.MaxUploadSizeMB,
		"RATE_LIMIT_PER_MINUTE": &c.RateLimitPerMinute,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	str("LLM_API_KEY", &c.LLMAPIKey)
	if c.LLMAPIKey == "" {
		switch strings.ToLower(c.LLMProvider) {
		case string(llm.ProviderAnthropic):
			str("ANTHROPIC_API_KEY", &c.LLMAPIKey)
		default:
			str("GEMINI_API_KEY", &c.LLMAPIKey)
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
// It does not require an API key; commands that call the model check that.
func (c *Config) Validate() error {
	if c.LLMProvider != "" {
		if _, err := llm.ParseProvider(c.LLMProvider); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.LLMTemperature != nil && (*c.LLMTemperature < 0 || *c.LLMTemperature > llm.MaxTemperature) {
		return fmt.Errorf("config error: 'llm_temperature' must be between 0 and 2")
	}
	if c.LLMMaxTokens < 0 {
		return fmt.Errorf("config error: 'llm_max_tokens' must be positive")
	}
	if c.MaxUploadSizeMB < 0 {
		return fmt.Errorf("config error: 'max_upload_size_mb' must be positive")
	}
	if c.GitHubCacheHours < 0 {
		return fmt.Errorf("config error: 'github_cache_hours' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "pretty" {
		return fmt.Errorf("config error: 'log_format' must be json or pretty")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fillString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fillInt := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}

	fillString(&result.LLMProvider, defaults.LLMProvider)
	fillString(&result.LLMModel, defaults.LLMModel)
	fillString(&result.LLMAPIKey, defaults.LLMAPIKey)
	fillString(&result.GitHubToken, defaults.GitHubToken)
	fillString(&result.GitHubAPIURL, defaults.GitHubAPIURL)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.AllowedOrigins, defaults.AllowedOrigins)
	fillString(&result.LogLevel, defaults.LogLevel)
	fillString(&result.LogFormat, defaults.LogFormat)

	fillInt(&result.LLMMaxTokens, defaults.LLMMaxTokens)
	fillInt(&result.GitHubCacheHours, defaults.GitHubCacheHours)
	fillInt(&result.Port, defaults.Port)
	fillInt(&result.MaxUploadSizeMB, defaults.MaxUploadSizeMB)
	fillInt(&result.RateLimitPerMinute, defaults.RateLimitPerMinute)

	if result.LLMTemperature == nil && defaults.LLMTemperature != nil {
		t := *defaults.LLMTemperature
		result.LLMTemperature = &t
	}
	return result
}

// LLMConfig returns the model configuration, using the provider's default
// model when none is set.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider := llm.ProviderGemini
	if c.LLMProvider != "" {
		p, err := llm.ParseProvider(c.LLMProvider)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	cfg := llm.DefaultConfigFor(provider)
	if c.LLMModel != "" {
		cfg.Model = c.LLMModel
	}
	if c.LLMTemperature != nil {
		cfg.Temperature = *c.LLMTemperature
	}
	if c.LLMMaxTokens > 0 {
		cfg.MaxTokens = c.LLMMaxTokens
	}
	return cfg, cfg.Validate()
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// GitHubCacheDuration returns how long fetched GitHub data stays fresh.
func (c *Config) GitHubCacheDuration() time.Duration {
	return time.Duration(c.GitHubCacheHours) * time.Hour
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
