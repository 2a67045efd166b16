// Package config provides configuration management for the paddock prediction engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/paddock/internal/betting"
	"github.com/yourusername/paddock/internal/scoring"
	"github.com/yourusername/paddock/internal/simulation"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "PADDOCK"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with a default for every engine coefficient.
// A missing file is not an error: defaults and environment variables are used.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads the configuration when PADDOCK_CONFIG_PATH points at a file
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := LoadWithDefaults(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "paddock")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.model_version", "paddock-1.0")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/paddock.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "paddock")
	v.SetDefault("database.user", "paddock")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("ml_oracle.enabled", false)
	v.SetDefault("ml_oracle.timeout_ms", 2000)
	v.SetDefault("ml_oracle.rate_limit", 20)
	v.SetDefault("ml_oracle.circuit_breaker_max", 5)
	v.SetDefault("ml_oracle.cache_ttl_seconds", 300)
	v.SetDefault("ml_oracle.cache_max_size", 1000)
	v.SetDefault("ml_oracle.model_name", "place_predictor")

	setWeightDefaults(v, "prediction.weights.ml_present", scoring.DefaultMLWeights)
	setWeightDefaults(v, "prediction.weights.fallback", scoring.DefaultFallbackWeights)
	v.SetDefault("prediction.dark_horse_margin", scoring.DefaultDarkHorseMargin)
	v.SetDefault("prediction.min_field_size", 3)

	bet := betting.DefaultConfig()
	v.SetDefault("betting.format", string(bet.Format))
	v.SetDefault("betting.budget", bet.Budget)
	v.SetDefault("betting.unit", bet.Unit)
	v.SetDefault("betting.trio_share", bet.TrioShare)
	v.SetDefault("betting.trio_pivots", bet.TrioPivots)
	v.SetDefault("betting.trio_companions", bet.TrioCompanions)
	v.SetDefault("betting.trifecta_companions", bet.TrifectaCompanions)
	v.SetDefault("betting.box_size", bet.BoxSize)
	v.SetDefault("betting.pivot_policy", string(bet.PivotPolicy))

	sim := simulation.DefaultOptions()
	v.SetDefault("simulation.top_n", sim.TopN)
	v.SetDefault("simulation.frame_count", sim.FrameCount)
	v.SetDefault("simulation.include_animation", sim.IncludeAnimation)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.oracle_probe", "@every 1m")
	v.SetDefault("scheduler.cache_flush", "")

	v.SetDefault("racecard.timeout_ms", 10000)
	v.SetDefault("racecard.max_retries", 3)
	v.SetDefault("racecard.rate_limit", 2.0)
}

func setWeightDefaults(v *viper.Viper, prefix string, w scoring.Weights) {
	v.SetDefault(prefix+".ml", w.ML)
	v.SetDefault(prefix+".odds", w.Odds)
	v.SetDefault(prefix+".pace", w.Pace)
	v.SetDefault(prefix+".closing", w.Closing)
	v.SetDefault(prefix+".record", w.Record)
}
