package config

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// strategyNames mirrors the combination strategies the ensemble accepts
var strategyNames = []string{"weighted_average", "voting", "confidence_based"}

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("strategy", validateStrategy)
	_ = v.RegisterValidation("weights", validateWeights)
	_ = v.RegisterValidation("cron", validateCron)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateStrategy accepts the ensemble strategy names, case-insensitively
func validateStrategy(fl validator.FieldLevel) bool {
	name := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	for _, s := range strategyNames {
		if name == s {
			return true
		}
	}
	return false
}

// validateWeights requires at least one finite non-negative weight
func validateWeights(fl validator.FieldLevel) bool {
	weights, ok := fl.Field().Interface().(map[string]float64)
	if !ok || len(weights) == 0 {
		return false
	}
	for name, w := range weights {
		if name == "" || w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return true
}

// validateCron checks a standard five-field cron expression
func validateCron(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Ensemble.Primary != "" {
		if _, ok := cfg.Ensemble.Weights[cfg.Ensemble.Primary]; !ok {
			return fmt.Errorf("ensemble primary %q has no configured weight", cfg.Ensemble.Primary)
		}
	}

	if cfg.MLService.Enabled {
		if cfg.MLService.ModelName == "" {
			return fmt.Errorf("ml_service.model_name is required when the ML service is enabled")
		}
		if cfg.MLService.GRPCAddress == "" && cfg.MLService.HTTPAddress == "" {
			return fmt.Errorf("ml_service requires grpc_address or http_address when enabled")
		}
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required when the database is enabled")
		}
		if cfg.Database.MinConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("min_connections cannot exceed max_connections")
		}
	}

	if cfg.Feed.Enabled && !cfg.Database.Enabled {
		return fmt.Errorf("the prediction feed reads from the database; enable database first")
	}

	if cfg.Secrets.Enabled && (cfg.Secrets.Region == "" || cfg.Secrets.SecretName == "") {
		return fmt.Errorf("secrets.region and secrets.secret_name are required when secrets are enabled")
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.ReloadSchedule == "" {
		return fmt.Errorf("scheduler.reload_schedule is required when the scheduler is enabled")
	}

	if cfg.Value.TopN > 0 && cfg.Value.MinProbability >= 1 {
		return fmt.Errorf("min_probability of 1 leaves no bets to rank")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "strategy":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: %s\n", field, strings.Join(strategyNames, ", "))
		case "weights":
			errMsg += fmt.Sprintf("- Field '%s' needs at least one finite, non-negative source weight\n", field)
		case "cron":
			errMsg += fmt.Sprintf("- Field '%s' must be a standard cron expression, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.MLService.Enabled && isTestCredential(cfg.MLService.APIKey) {
			return fmt.Errorf("production environment should not use a test ML service API key")
		}
	}

	if cfg.IsDevelopment() && cfg.Secrets.Enabled {
		return fmt.Errorf("secrets manager overlay should be disabled in development mode")
	}

	return nil
}

var testCredentialPattern = regexp.MustCompile(`(?i)test|demo|example|placeholder|YOUR_`)

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	return testCredentialPattern.MatchString(credential)
}
