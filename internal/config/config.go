// Package config provides configuration management for the goal-edge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Ensemble  EnsembleConfig  `mapstructure:"ensemble" validate:"required"`
	Value     ValueConfig     `mapstructure:"value" validate:"required"`
	Stats     StatsConfig     `mapstructure:"stats"`
	MLService MLServiceConfig `mapstructure:"ml_service"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name            string `mapstructure:"name" validate:"required"`
	Environment     string `mapstructure:"environment" validate:"required,environment"`
	LogLevel        string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat       string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	AnalysisWorkers int    `mapstructure:"analysis_workers" validate:"gte=1,lte=64"`
}

// ModelConfig holds the Poisson model parameters
type ModelConfig struct {
	HomeAdvantage   float64   `mapstructure:"home_advantage" validate:"gte=0,lte=1"`
	LambdaFloor     float64   `mapstructure:"lambda_floor" validate:"gt=0"`
	MaxGoals        int       `mapstructure:"max_goals" validate:"gte=1,lte=30"`
	GoalLines       []float64 `mapstructure:"goal_lines" validate:"min=1,dive,gt=0"`
	CornerScale     float64   `mapstructure:"corner_scale" validate:"gte=0"`
	CornerLines     []float64 `mapstructure:"corner_lines" validate:"dive,gt=0"`
	CardScale       float64   `mapstructure:"card_scale" validate:"gte=0"`
	CardLines       []float64 `mapstructure:"card_lines" validate:"dive,gt=0"`
	ApproxPrecision int       `mapstructure:"approx_precision" validate:"gte=0,lte=6"`
}

// EnsembleConfig selects the combination strategy and source weights
type EnsembleConfig struct {
	Strategy string             `mapstructure:"strategy" validate:"required,strategy"`
	Weights  map[string]float64 `mapstructure:"weights" validate:"required,weights"`
	Primary  string             `mapstructure:"primary"`
}

// ValueConfig holds the EV and Kelly thresholds
type ValueConfig struct {
	MinEV           float64 `mapstructure:"min_ev" validate:"gte=0"`
	MinProbability  float64 `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	FractionalKelly float64 `mapstructure:"fractional_kelly" validate:"gt=0,lte=1"`
	KellyCap        float64 `mapstructure:"kelly_cap" validate:"gt=0,lte=1"`
	DefaultStake    float64 `mapstructure:"default_stake" validate:"gt=0"`
	Bankroll        float64 `mapstructure:"bankroll" validate:"gt=0"`
	TopN            int     `mapstructure:"top_n" validate:"gte=0"`
}

// StatsConfig configures team statistics aggregation
type StatsConfig struct {
	FallbackRate float64 `mapstructure:"fallback_rate" validate:"gt=0"`
}

// MLServiceConfig represents the tree-model prediction service configuration
type MLServiceConfig struct {
	Enabled               bool    `mapstructure:"enabled"`
	ModelName             string  `mapstructure:"model_name"`
	GRPCAddress           string  `mapstructure:"grpc_address"`
	HTTPAddress           string  `mapstructure:"http_address" validate:"omitempty,url"`
	UseTLS                bool    `mapstructure:"use_tls"`
	APIKey                string  `mapstructure:"api_key"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"gte=0"`
	MaxRetries            int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimitPerSecond    float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize          int     `mapstructure:"cache_max_size" validate:"gte=0"`
	StatusTTLSeconds      int     `mapstructure:"status_ttl_seconds" validate:"gte=0"`
}

// FeedConfig configures the third-party prediction feed source
type FeedConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"`
	// MaxAgeHours discards stored predictions older than this; zero keeps all.
	MaxAgeHours int `mapstructure:"max_age_hours" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and health server configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SchedulerConfig configures periodic configuration reloads
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ReloadSchedule string `mapstructure:"reload_schedule" validate:"omitempty,cron"`
}

// SecretsConfig configures the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
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

// RequestTimeout returns the ML request timeout
func (c MLServiceConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns how long ML predictions are cached
func (c MLServiceConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// StatusTTL returns how long a model status answer is trusted
func (c MLServiceConfig) StatusTTL() time.Duration {
	return time.Duration(c.StatusTTLSeconds) * time.Second
}

// MaxAge returns the feed staleness limit; zero means unlimited
func (c FeedConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}
