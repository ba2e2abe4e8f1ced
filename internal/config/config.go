// Package config loads and validates application configuration. Values are
// layered: built-in defaults, then an optional YAML file, then environment
// variables prefixed with TUNEQUEST_.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TUNEQUEST_"

// Config is the full application configuration.
type Config struct {
	Addr        string   `koanf:"addr" validate:"required,hostname_port"`
	DatabaseURL string   `koanf:"database_url" validate:"required"`
	LogLevel    string   `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	CORSOrigins []string `koanf:"cors_origins"`

	// AnalyticsRateLimit caps requests per IP per minute on the analytics
	// endpoints. Zero disables the limiter.
	AnalyticsRateLimit int `koanf:"analytics_rate_limit" validate:"gte=0"`

	Spotify SpotifyConfig `koanf:"spotify"`
}

// SpotifyConfig holds the app credentials for catalog imports. Optional:
// the API serves without them, only imports need them.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

// defaults returns the built-in configuration.
func defaults() Config {
	return Config{
		Addr:               "127.0.0.1:5000",
		LogLevel:           "info",
		CORSOrigins:        []string{"http://localhost:5173"},
		AnalyticsRateLimit: 60,
	}
}

// Load reads configuration from the optional YAML file at path (empty path
// or a missing file is fine) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	// TUNEQUEST_DATABASE_URL -> database_url, TUNEQUEST_SPOTIFY__CLIENT_ID ->
	// spotify.client_id (double underscore nests).
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
