package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is everything the server needs, populated from flags and
// GAMELYNQ_* env vars in cmd/server.
type Config struct {
	Bind           string
	Port           int
	BaseURL        string
	DatabaseURL    string
	AllowedOrigins []string
	ITunesBaseURL  string
	PollInterval   time.Duration
	Verbose        bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("at least one allowed origin is required")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
