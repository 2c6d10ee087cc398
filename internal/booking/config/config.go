package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the booking module.
type Config struct {
	// SweepInterval is the fixed wall-clock period of the expiration
	// sweeper.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`

	// SweepOnStart runs one sweep immediately at startup instead of
	// waiting for the first tick.
	SweepOnStart bool `env:"SWEEP_ON_START" envDefault:"true"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load booking configuration from environment: " + err.Error())
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Hour
	}

	return cfg, nil
}
