// Package config provides configuration management for the Gridline service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Ergast   ErgastConfig   `mapstructure:"ergast" validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Host                string   `mapstructure:"host" validate:"required"`
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	CORSOrigins         []string `mapstructure:"cors_origins" validate:"required,min=1"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents the SQLite blob store configuration
type DatabaseConfig struct {
	Path            string `mapstructure:"path" validate:"required"`
	ReadConnections int    `mapstructure:"read_connections" validate:"required,gt=0"`
}

// ErgastConfig represents the upstream Jolpica/Ergast API configuration
type ErgastConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	DefaultSeason  int     `mapstructure:"default_season" validate:"required,gte=1950"`
}

// AnalysisConfig represents tunable thresholds for the insight engine
type AnalysisConfig struct {
	DegradationThreshold float64 `mapstructure:"degradation_threshold" validate:"gte=0"`
	CompetitivenessWins  int     `mapstructure:"competitiveness_wins" validate:"required,gt=0"`
}

// CacheConfig represents in-memory caching of historical season lookups
type CacheConfig struct {
	HistoricalTTLSeconds int `mapstructure:"historical_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddr returns the host:port pair the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ErgastTimeout returns the upstream request timeout as a duration
func (c *Config) ErgastTimeout() time.Duration {
	return time.Duration(c.Ergast.TimeoutSeconds) * time.Second
}

// HistoricalTTL returns the historical lookup cache TTL as a duration
func (c *Config) HistoricalTTL() time.Duration {
	return time.Duration(c.Cache.HistoricalTTLSeconds) * time.Second
}
