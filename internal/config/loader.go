package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file named by MELP_CONFIG, if set
//  3. MELP_* environment variables (MELP_LOG_LEVEL -> log_level)
//  4. DATABASE_URL
//
// Empty environment variables are ignored.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("MELP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	prefixed := env.ProviderWithValue("MELP_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, "MELP_"))
		if value == "" || key == "config" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, err
	}

	dsn := env.ProviderWithValue("DATABASE_URL", ".", func(key, value string) (string, interface{}) {
		if key != "DATABASE_URL" || value == "" {
			return "", nil
		}
		return "database_url", value
	})
	if err := k.Load(dsn, nil); err != nil {
		return nil, err
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidate loads the configuration and validates it.
func LoadAndValidate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
