package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// EnvBackendBaseURL overrides the research backend base URL.
	EnvBackendBaseURL = "BACKEND_BASE_URL"

	// EnvBackendTimeout overrides the per-request timeout.
	EnvBackendTimeout = "BACKEND_TIMEOUT"
)

// BackendConfig locates the research backend. It is read once at startup and
// injected into the backend client; nothing reads it from global state.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration parses and returns the request timeout.
func (c *BackendConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *BackendConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Override replaces the base URL with an explicit value, such as a command
// line flag, and validates it. Environment variables are not consulted again.
func (c *BackendConfig) Override(baseURL string) error {
	c.BaseURL = baseURL
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *BackendConfig) Merge(overlay *BackendConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *BackendConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:5000"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *BackendConfig) loadEnv() {
	if v := os.Getenv(EnvBackendBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvBackendTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *BackendConfig) validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url: scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url: host required")
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
