package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "GOAL_EDGE"
	defaultConfigPath = "config/config.yaml"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads a YAML file, expanding ${VAR} placeholders from the environment
func readExpanded(v *viper.Viper, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables.
// Environment placeholders (${VAR_NAME}) in the YAML file are expanded.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if err := readExpanded(v, configPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadAndValidate loads configuration with defaults and validates it
func LoadAndValidate(configPath string) (*Config, error) {
	cfg, err := LoadWithDefaults(configPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "goal-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.analysis_workers", 4)

	v.SetDefault("model.home_advantage", 0.15)
	v.SetDefault("model.lambda_floor", 0.5)
	v.SetDefault("model.max_goals", 10)
	v.SetDefault("model.goal_lines", []float64{0.5, 1.5, 2.5, 3.5, 4.5})
	v.SetDefault("model.corner_scale", 4.5)
	v.SetDefault("model.corner_lines", []float64{7.5, 8.5, 9.5, 10.5})
	v.SetDefault("model.card_scale", 1.5)
	v.SetDefault("model.card_lines", []float64{2.5, 3.5, 4.5})
	v.SetDefault("model.approx_precision", 2)

	v.SetDefault("ensemble.strategy", "weighted_average")
	v.SetDefault("ensemble.weights", map[string]float64{"poisson": 0.6, "xgboost": 0.4})
	v.SetDefault("ensemble.primary", "poisson")

	v.SetDefault("value.min_ev", 0.05)
	v.SetDefault("value.min_probability", 0.10)
	v.SetDefault("value.fractional_kelly", 0.25)
	v.SetDefault("value.kelly_cap", 0.10)
	v.SetDefault("value.default_stake", 100)
	v.SetDefault("value.bankroll", 1000)
	v.SetDefault("value.top_n", 5)

	v.SetDefault("stats.fallback_rate", 1.5)

	v.SetDefault("ml_service.model_name", "xgboost")
	v.SetDefault("ml_service.request_timeout_seconds", 5)
	v.SetDefault("ml_service.max_retries", 3)
	v.SetDefault("ml_service.rate_limit_per_second", 10)
	v.SetDefault("ml_service.cache_ttl_seconds", 300)
	v.SetDefault("ml_service.cache_max_size", 10000)
	v.SetDefault("ml_service.status_ttl_seconds", 60)

	v.SetDefault("feed.provider", "api-football")
	v.SetDefault("feed.max_age_hours", 72)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 1)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.reload_schedule", "*/5 * * * *")
}
