package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds the limiter configuration for the API. structurePerMinute
// bounds model calls per client; zero or less disables limiting.
func NewConfig(structurePerMinute int, whitelist, blacklist string) *Config {
	if structurePerMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       parseIPList(whitelist),
		Blacklist:       parseIPList(blacklist),
		EndpointConfigs: EndpointConfigs(structurePerMinute),
	}
}

// EndpointConfigs returns the per-endpoint limits. Structuring calls the
// model and is the strictest; GitHub fetches and uploads are moderate.
func EndpointConfigs(structurePerMinute int) []EndpointConfig {
	burst := structurePerMinute / 5
	if burst < 1 {
		burst = 1
	}
	return []EndpointConfig{
		{Path: "/api/resume/structure", Method: "POST", Limit: structurePerMinute, Window: time.Minute, Burst: burst},
		{Path: "/api/github/fetch", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/api/resume/upload", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
