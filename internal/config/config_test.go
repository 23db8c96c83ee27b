package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("Expected default database url, got %s", cfg.DatabaseURL)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("Expected default addr :5000, got %s", cfg.Addr)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("Expected default JWT expiry, got %v", cfg.JWTExpiry)
	}
	if cfg.AuthRequired {
		t.Error("Expected auth to be off by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "empty database url", mutate: func(c *Config) { c.DatabaseURL = " " }, expectError: true},
		{name: "empty addr", mutate: func(c *Config) { c.Addr = "" }, expectError: true},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, expectError: true},
		{name: "non positive import size", mutate: func(c *Config) { c.ImportMaxBytes = 0 }, expectError: true},
		{name: "short secret ignored without auth", mutate: func(c *Config) { c.JWTSecret = "short" }},
		{
			name: "short secret with auth",
			mutate: func(c *Config) {
				c.AuthRequired = true
				c.JWTSecret = "short"
			},
			expectError: true,
		},
		{
			name: "auth with long secret",
			mutate: func(c *Config) {
				c.AuthRequired = true
				c.JWTSecret = "valid-secret-that-is-long-enough-for-testing"
			},
		},
		{
			name: "auth without audience",
			mutate: func(c *Config) {
				c.AuthRequired = true
				c.JWTSecret = "valid-secret-that-is-long-enough-for-testing"
				c.JWTAudience = ""
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
