package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the meal plan service.
// Environment variables are parsed from the MEALPLAN_ prefix, e.g.
// MEALPLAN_HTTP_PORT, MEALPLAN_POSTGRES_DSN.
type Config struct {
	// Build target selects the high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// DBDriver is derived from BuildTarget when set to "auto"
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration (cloud targets)
	PostgresDSN    string `envconfig:"POSTGRES_DSN" default:""`
	MigrateOnStart bool   `envconfig:"MIGRATE_ON_START" default:"true"`

	// SQLite Configuration (local target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/mealplan.db"`

	// Auth Configuration. An empty secret selects the mock authorizer,
	// which only accepts the fixed local development token.
	JWTSecret       string `envconfig:"JWT_SECRET" default:""`
	TokenTTLMinutes int    `envconfig:"TOKEN_TTL_MINUTES" default:"1440"`

	// Outbound mail. Empty URL selects the noop mailer.
	MailerURL  string `envconfig:"MAILER_URL" default:""`
	MailerFrom string `envconfig:"MAILER_FROM" default:"no-reply@mealplan.local"`

	// Rate limiting (per tenant)
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	RateLimitBurst     int `envconfig:"RATE_LIMIT_BURST" default:"30"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"15"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("MEALPLAN_POSTGRES_DSN is required for DB_DRIVER=postgres")
	}
	return nil
}

// New creates a Config by parsing MEALPLAN_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MEALPLAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("jwt_secret_present", cfg.JWTSecret != "").
		Bool("mailer_configured", cfg.MailerURL != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server bind address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
