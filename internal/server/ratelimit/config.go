package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // requests per Window
	Window time.Duration // refill window
	Burst  int           // bucket capacity, Limit when 0
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     getEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credentials: slow down guessing
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},

		// Analysis may call paid backends
		{Path: "/meals/analyze-image", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/meals/estimate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Writes
		{Path: "/meals", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/meals/", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/meals/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/weights", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/weights/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/goals", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/goals/", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/goals/", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/me/profile", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},

		// Reads use the default limit; GET /health is unlimited.
	}
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
