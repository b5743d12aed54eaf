package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Path != "f1_database.db" {
		t.Errorf("default database path = %q, want f1_database.db", cfg.Database.Path)
	}
	if cfg.Ergast.BaseURL != "https://api.jolpi.ca/ergast/f1" {
		t.Errorf("default base URL = %q", cfg.Ergast.BaseURL)
	}
	if cfg.Ergast.MaxRetries != 0 {
		t.Errorf("default max retries = %d, want 0", cfg.Ergast.MaxRetries)
	}
	if cfg.Analysis.DegradationThreshold != 0.5 {
		t.Errorf("default degradation threshold = %v, want 0.5", cfg.Analysis.DegradationThreshold)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: gridline
  environment: production
  log_level: warn
server:
  port: 9090
ergast:
  default_season: 2023
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Ergast.DefaultSeason != 2023 {
		t.Errorf("default season = %d, want 2023", cfg.Ergast.DefaultSeason)
	}
	// Untouched sections keep their defaults.
	if cfg.Database.ReadConnections != 4 {
		t.Errorf("read connections = %d, want 4", cfg.Database.ReadConnections)
	}
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_GRIDLINE_DB", "/tmp/custom.db")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database:\n  path: ${TEST_GRIDLINE_DB}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("database path = %q, want /tmp/custom.db", cfg.Database.Path)
	}
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.App.Environment = "qa"

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for unknown environment")
	}
}

func TestValidateRejectsFutureSeason(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.Ergast.DefaultSeason = 3000

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for future season")
	}
}

func TestListenAddr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 8000}}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8000" {
		t.Errorf("ListenAddr() = %q", got)
	}
}
