// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	// APIBaseURL is the coaching platform API origin.
	APIBaseURL string `env:"COACHKIT_API_URL" envDefault:"https://api.coachkit.app"`

	// APIToken authenticates API calls. Empty is allowed for endpoints
	// behind a proxy that injects auth.
	APIToken string `env:"COACHKIT_API_TOKEN"`

	// EventsURL is the WebSocket push-feed endpoint. Empty disables the
	// realtime feed.
	EventsURL string `env:"COACHKIT_EVENTS_URL"`

	// HTTPTimeout bounds every API call.
	HTTPTimeout time.Duration `env:"COACHKIT_HTTP_TIMEOUT" envDefault:"20s"`

	// Debug enables debug-level logging.
	Debug bool `env:"COACHKIT_DEBUG"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid COACHKIT_API_URL: %q", c.APIBaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("COACHKIT_HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	return nil
}

// HasEvents returns true if the realtime feed is configured.
func (c *Config) HasEvents() bool {
	return c.EventsURL != ""
}
