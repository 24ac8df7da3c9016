package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string  // Endpoint path pattern (supports prefix matching)
	Method string  // HTTP method (GET, POST, etc.)
	Rate   float64 // Requests per second, 0 means unlimited
	Burst  int     // Burst capacity (defaults to 1 if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultRate     float64
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration from the server settings. A non-positive
// rate disables limiting.
func NewConfig(ratePerSecond float64, burst int, whitelist string) *Config {
	if ratePerSecond <= 0 {
		return &Config{Enabled: false}
	}
	if burst <= 0 {
		burst = int(ratePerSecond) + 1
	}
	return &Config{
		Enabled:         true,
		DefaultRate:     ratePerSecond,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(whitelist),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(ratePerSecond, burst),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations derived
// from the default rate. Model-backed and persisting endpoints get a tenth of it.
func DefaultEndpointConfigs(ratePerSecond float64, burst int) []EndpointConfig {
	strictBurst := max(1, burst/10)
	return []EndpointConfig{
		{Path: "/v1/autocomplete", Method: "POST", Rate: ratePerSecond / 10, Burst: strictBurst},
		{Path: "/v1/drafts/", Method: "POST", Rate: ratePerSecond / 10, Burst: strictBurst},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
