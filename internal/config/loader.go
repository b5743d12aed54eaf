// Package config provides configuration management for the Gridline service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
// A missing config file is not an error — the defaults plus environment
// variables are enough to run the service.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("GRIDLINE")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers a default for every field so the service can start
// with no config file at all.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gridline")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)

	v.SetDefault("database.path", "f1_database.db")
	v.SetDefault("database.read_connections", 4)

	v.SetDefault("ergast.base_url", "https://api.jolpi.ca/ergast/f1")
	v.SetDefault("ergast.timeout_seconds", 30)
	v.SetDefault("ergast.max_retries", 0)
	v.SetDefault("ergast.rate_limit", 4.0)
	v.SetDefault("ergast.default_season", 2024)

	v.SetDefault("analysis.degradation_threshold", 0.5)
	v.SetDefault("analysis.competitiveness_wins", 10)

	v.SetDefault("cache.historical_ttl_seconds", 3600)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
