package api

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"bullwhip-go/internal/chain"
)

// Config is the server configuration, sourced from the environment.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	// Seed drives new games when a request does not carry its own; 0 means
	// a fresh crypto-random seed per game.
	Seed int64 `env:"SEED" envDefault:"0"`

	// DefaultRole is the externally driven role for requests that omit one.
	DefaultRole string `env:"DEFAULT_ROLE" envDefault:"retailer"`

	// ScheduleFile optionally overrides the built-in demand schedule.
	ScheduleFile string `env:"SCHEDULE_FILE"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// ConfigFromEnv parses the configuration from the process environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("ADDR must not be empty")
	}
	if _, err := chain.Parse(c.DefaultRole); err != nil {
		return fmt.Errorf("DEFAULT_ROLE %q: %w", c.DefaultRole, err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	return nil
}
