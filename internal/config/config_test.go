package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := writeConfigFile(t, `
debug: true
server:
  address: ":9000"
  read_timeout: 5s
database:
  url: "postgres://localhost/engine"
redis:
  addr: "localhost:6379"
engine:
  weeks_ahead: 6
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("Server.Address = %s, want :9000", cfg.Server.Address)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeoutSeconds*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Database.URL != "postgres://localhost/engine" {
		t.Errorf("Database.URL = %s", cfg.Database.URL)
	}
	if cfg.Engine.WeeksAhead != 6 {
		t.Errorf("Engine.WeeksAhead = %d, want 6", cfg.Engine.WeeksAhead)
	}
	if cfg.Engine.DedupeWindowMinutes != DefaultDedupeWindowMinutes {
		t.Errorf("Engine.DedupeWindowMinutes = %d, want default", cfg.Engine.DedupeWindowMinutes)
	}
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/engine")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://env-host/engine" {
		t.Errorf("Database.URL = %s, want env value", cfg.Database.URL)
	}
	if cfg.Server.Address != ":8090" {
		t.Errorf("Server.Address = %s, want default :8090", cfg.Server.Address)
	}
	if cfg.Engine.WeeksAhead != DefaultWeeksAhead {
		t.Errorf("Engine.WeeksAhead = %d, want default", cfg.Engine.WeeksAhead)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  url: "postgres://file-host/engine"
engine:
  weeks_ahead: 2
`)

	t.Setenv("DATABASE_URL", "postgres://env-host/engine")
	t.Setenv("WEEKS_AHEAD_DEFAULT", "8")
	t.Setenv("ENGINE_PORT", "9999")
	t.Setenv("APP_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://env-host/engine" {
		t.Errorf("Database.URL = %s, env should win", cfg.Database.URL)
	}
	if cfg.Engine.WeeksAhead != 8 {
		t.Errorf("Engine.WeeksAhead = %d, want 8", cfg.Engine.WeeksAhead)
	}
	if cfg.Server.Address != ":9999" {
		t.Errorf("Server.Address = %s, want :9999", cfg.Server.Address)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true from APP_DEBUG")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	path := writeConfigFile(t, "debug: false\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error without database.url")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "debug: [not closed\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for invalid YAML")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" yes ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := parseBool(tt.value); got != tt.want {
				t.Errorf("parseBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidate_NonPositiveWeeksAhead(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/engine"},
		Engine:   EngineConfig{WeeksAhead: 0},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for weeks_ahead = 0")
	}
}
