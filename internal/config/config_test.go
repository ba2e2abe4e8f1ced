package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
addr: "0.0.0.0:8080"
database_url: "postgres://localhost:5432/tunequest"
log_level: debug
analytics_rate_limit: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/tunequest" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.AnalyticsRateLimit != 10 {
		t.Errorf("AnalyticsRateLimit = %d", cfg.AnalyticsRateLimit)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database_url: "postgres://from-file/db"
`)
	t.Setenv("TUNEQUEST_DATABASE_URL", "postgres://from-env/db")
	t.Setenv("TUNEQUEST_SPOTIFY__CLIENT_ID", "abc123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DatabaseURL != "postgres://from-env/db" {
		t.Errorf("DatabaseURL = %q, want env value", cfg.DatabaseURL)
	}
	if cfg.Spotify.ClientID != "abc123" {
		t.Errorf("Spotify.ClientID = %q", cfg.Spotify.ClientID)
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load() without database_url must fail validation")
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `
database_url: "postgres://localhost/db"
log_level: loud
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid log_level must fail validation")
	}
}
