// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	IdentityBaseURL string
	DefaultCurrency string
	AllowedOrigins  []string
	LogLevel        string
	LogFormat       string
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
)

const (
	defaultPort            = "3000"
	defaultSessionTTL      = 30 * 24 * time.Hour
	defaultSweepInterval   = time.Hour
	defaultIdentityBaseURL = "https://api.divizend.com"
	defaultCurrency        = "EUR"
)

// Load builds a Config from environment variables, falling back to
// development defaults where a value is optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", defaultPort),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SessionTTL:      defaultSessionTTL,
		SweepInterval:   defaultSweepInterval,
		IdentityBaseURL: getEnv("IDENTITY_BASE_URL", defaultIdentityBaseURL),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", defaultCurrency),
		AllowedOrigins:  allowedOrigins(),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q", ttl)
		}
		cfg.SessionTTL = d
	}

	if interval := os.Getenv("SESSION_SWEEP_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL %q", interval)
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
