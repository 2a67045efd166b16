// Package config provides configuration management for the paddock prediction engine.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/paddock/internal/betting"
	"github.com/yourusername/paddock/internal/scoring"
	"github.com/yourusername/paddock/internal/simulation"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig          `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig     `mapstructure:"database" validate:"required"`
	MLOracle   MLOracleConfig     `mapstructure:"ml_oracle"`
	Prediction PredictionConfig   `mapstructure:"prediction" validate:"required"`
	Betting    betting.Config     `mapstructure:"betting"`
	Simulation simulation.Options `mapstructure:"simulation"`
	Metrics    MetricsConfig      `mapstructure:"metrics"`
	Scheduler  SchedulerConfig    `mapstructure:"scheduler"`
	Secrets    SecretsConfig      `mapstructure:"secrets"`
	RaceCard   RaceCardConfig     `mapstructure:"racecard"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	Environment  string `mapstructure:"environment" validate:"required,environment"`
	LogLevel     string `mapstructure:"log_level" validate:"required,loglevel"`
	ModelVersion string `mapstructure:"model_version" validate:"required"`
}

// DatabaseConfig selects and configures the prediction history store.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MLOracleConfig configures the external place-probability service.
type MLOracleConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	URL               string  `mapstructure:"url" validate:"omitempty,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutMs         int     `mapstructure:"timeout_ms" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"gte=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize      int     `mapstructure:"cache_max_size" validate:"gte=0"`
	ModelName         string  `mapstructure:"model_name"`
}

// Timeout is the time budget for the whole oracle fan-out of one race.
func (c MLOracleConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// PredictionConfig holds the scoring coefficients.
type PredictionConfig struct {
	Weights         WeightsConfig `mapstructure:"weights"`
	DarkHorseMargin int           `mapstructure:"dark_horse_margin" validate:"gte=0"`
	MinFieldSize    int           `mapstructure:"min_field_size" validate:"gte=3"`
}

// WeightsConfig holds both weighting regimes.
type WeightsConfig struct {
	MLPresent scoring.Weights `mapstructure:"ml_present"`
	Fallback  scoring.Weights `mapstructure:"fallback"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SchedulerConfig holds cron specs for background jobs.
type SchedulerConfig struct {
	OracleProbe string `mapstructure:"oracle_probe"`
	CacheFlush  string `mapstructure:"cache_flush"`
}

// SecretsConfig points at the AWS Secrets Manager secret overlaid on the file.
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// RaceCardConfig configures fetching race cards from an upstream provider.
type RaceCardConfig struct {
	TimeoutMs  int     `mapstructure:"timeout_ms" validate:"gte=0"`
	MaxRetries int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit  float64 `mapstructure:"rate_limit" validate:"gte=0"`
	APIKey     string  `mapstructure:"api_key"`
}

// GetDatabaseURL returns the PostgreSQL connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetMetricsAddress returns the address the health and metrics server listens on
func (c *Config) GetMetricsAddress() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// UsesSQLite reports whether prediction history is kept in a local SQLite file.
func (c *Config) UsesSQLite() bool {
	return c.Database.Driver == "sqlite"
}
