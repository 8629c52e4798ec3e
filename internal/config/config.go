package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the dream analysis service.
// Environment variables are parsed from the DREAM_SERVICE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage Configuration
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/dreams.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Generative model configuration. An empty API key is a server
	// misconfiguration surfaced on the first analyze call, not at startup, so the
	// rest of the service (result retrieval, health) stays usable.
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel     string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	SafetyThreshold string `envconfig:"SAFETY_THRESHOLD" default:"BLOCK_ONLY_HIGH"`
	ModelTimeoutSec int    `envconfig:"MODEL_TIMEOUT_SECONDS" default:"45"`

	// Analysis limits
	MaxDreamChars int `envconfig:"MAX_DREAM_CHARS" default:"2000"`

	// Rate limiting. Authenticated callers get the generous quota keyed by user id,
	// anonymous callers the strict quota keyed by network origin.
	AuthQuota       int `envconfig:"AUTH_QUOTA" default:"60"`
	AnonQuota       int `envconfig:"ANON_QUOTA" default:"20"`
	QuotaWindowMins int `envconfig:"QUOTA_WINDOW_MINUTES" default:"10"`
}

// ResolveDefaults validates driver selection and limit values.
func (c *Config) ResolveDefaults() error {
	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
	}
	if c.MaxDreamChars <= 0 {
		return fmt.Errorf("MAX_DREAM_CHARS must be positive")
	}
	if c.AuthQuota <= 0 || c.AnonQuota <= 0 || c.QuotaWindowMins <= 0 {
		return fmt.Errorf("rate limit quotas and window must be positive")
	}
	if c.ModelTimeoutSec <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: DREAM_SERVICE_HTTP_PORT, DREAM_SERVICE_GEMINI_API_KEY.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DREAM_SERVICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("gemini_model", cfg.GeminiModel).
		Bool("gemini_key_present", cfg.GeminiAPIKey != "").
		Int("max_dream_chars", cfg.MaxDreamChars).
		Int("auth_quota", cfg.AuthQuota).
		Int("anon_quota", cfg.AnonQuota).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config for tests with an isolated sqlite file.
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		DBDriver:        "sqlite",
		SQLitePath:      ":memory:",
		GeminiAPIKey:    "test-key",
		GeminiModel:     "gemini-2.0-flash",
		SafetyThreshold: "BLOCK_ONLY_HIGH",
		ModelTimeoutSec: 45,
		MaxDreamChars:   2000,
		AuthQuota:       60,
		AnonQuota:       20,
		QuotaWindowMins: 10,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
