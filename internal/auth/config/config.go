package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Session store backends.
const (
	BackendMongo = "mongo"
	BackendRedis = "redis"
)

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"booking-system"`

	// Session Configuration
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionBackend string        `env:"SESSION_BACKEND" envDefault:"mongo"`

	// Redis Configuration (used when SESSION_BACKEND=redis)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"booking_session"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"None"`

	// Environment controls the cookie security policy: cookies are only
	// marked Secure in production.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("mongodb_uri is required")
	}

	cfg.SessionBackend = strings.ToLower(cfg.SessionBackend)
	if cfg.SessionBackend != BackendMongo && cfg.SessionBackend != BackendRedis {
		return nil, errors.New("session_backend must be one of 'mongo' or 'redis'")
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	switch {
	case strings.EqualFold(cfg.CookieSameSite, "lax"):
		cfg.CookieSameSite = "Lax"
	case strings.EqualFold(cfg.CookieSameSite, "strict"):
		cfg.CookieSameSite = "Strict"
	case strings.EqualFold(cfg.CookieSameSite, "none"):
		cfg.CookieSameSite = "None"
	default:
		return nil, errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with production cookie policy.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// CookieSecure reports whether session cookies must carry the Secure flag.
func (c *Config) CookieSecure() bool {
	return c.IsProduction()
}
