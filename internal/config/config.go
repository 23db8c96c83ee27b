// Package config loads service configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultDatabaseURL is used when DATABASE_URL is not set.
const DefaultDatabaseURL = "postgresql://postgres:123@db:5432/test"

type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database_url"`

	// Addr is the HTTP listen address. An empty host binds every interface.
	Addr string `koanf:"addr"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	EnableMetrics bool `koanf:"enable_metrics"`
	EnableSwagger bool `koanf:"enable_swagger"`

	// AuthRequired puts the write routes behind a Bearer JWT.
	AuthRequired bool          `koanf:"auth_required"`
	JWTSecret    string        `koanf:"jwt_secret"`
	JWTIssuer    string        `koanf:"jwt_issuer"`
	JWTAudience  string        `koanf:"jwt_audience"`
	JWTExpiry    time.Duration `koanf:"jwt_expiry"`

	// ImportMaxBytes caps the size of an uploaded workbook.
	ImportMaxBytes int64 `koanf:"import_max_bytes"`
	// ImportMapping is the YAML column mapping for imports; empty uses the
	// built-in one.
	ImportMapping string `koanf:"import_mapping"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		DatabaseURL:    DefaultDatabaseURL,
		Addr:           ":5000",
		LogLevel:       "info",
		JWTSecret:      "your-secret-key-change-in-production",
		JWTIssuer:      "melp-api",
		JWTAudience:    "melp-api",
		JWTExpiry:      24 * time.Hour,
		ImportMaxBytes: 20 << 20,
	}
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// minSecretLength is the shortest JWT secret accepted when auth is on.
const minSecretLength = 32

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("database_url must not be empty")
	}
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.ImportMaxBytes <= 0 {
		return errors.New("import_max_bytes must be positive")
	}
	if c.AuthRequired {
		if len(c.JWTSecret) < minSecretLength {
			return fmt.Errorf("jwt_secret must be at least %d characters when auth is required", minSecretLength)
		}
		if c.JWTIssuer == "" || c.JWTAudience == "" {
			return errors.New("jwt_issuer and jwt_audience must be set when auth is required")
		}
		if c.JWTExpiry <= 0 {
			return errors.New("jwt_expiry must be positive")
		}
	}
	return nil
}
