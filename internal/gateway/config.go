package gateway

import (
	"os"
	"time"
)

// DefaultUpstreamBaseURL is the governance API backend on its default port.
const DefaultUpstreamBaseURL = "http://localhost:8080"

// Config holds the configuration for the upstream proxy.
type Config struct {
	// UpstreamBaseURL is the base URL of the governance API backend
	UpstreamBaseURL string
	// UpstreamToken is the service token attached to proxied requests
	UpstreamToken string
	// RequestTimeout is the timeout for proxying requests
	RequestTimeout time.Duration
	// HandshakeTimeout is the timeout for upstream websocket dials
	HandshakeTimeout time.Duration
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() *Config {
	baseURL := os.Getenv("UPSTREAM_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultUpstreamBaseURL
	}

	requestTimeout := 2 * time.Minute
	if v := os.Getenv("UPSTREAM_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			requestTimeout = d
		}
	}

	return &Config{
		UpstreamBaseURL:  baseURL,
		UpstreamToken:    os.Getenv("UPSTREAM_API_TOKEN"),
		RequestTimeout:   requestTimeout,
		HandshakeTimeout: 45 * time.Second,
	}
}
