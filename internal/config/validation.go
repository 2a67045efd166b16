// Package config provides configuration management for the paddock prediction engine.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/paddock/internal/models"
)

// CustomValidator wraps the validator instance with custom validations
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation rules
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("betformat", validateBetFormat)

	return &CustomValidator{validator: v}
}

// Validate validates the configuration struct
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return err
	}

	return validateCrossField(cfg)
}

// Validate validates the configuration using a fresh validator
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	}
	return false
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func validateBetFormat(fl validator.FieldLevel) bool {
	switch models.BetFormat(fl.Field().String()) {
	case models.BetFormatPivot, models.BetFormatBox:
		return true
	}
	return false
}

// validateCrossField performs cross-field validations. Coefficient and ticket
// problems are reported as InconsistentConfigError.
func validateCrossField(cfg *Config) error {
	if err := cfg.Prediction.Weights.MLPresent.Validate(models.RegimeMLPresent); err != nil {
		return err
	}
	if err := cfg.Prediction.Weights.Fallback.Validate(models.RegimeFallback); err != nil {
		return err
	}
	if err := cfg.Betting.Validate(); err != nil {
		return err
	}
	if cfg.Simulation.TopN < 1 {
		return models.NewInconsistentConfigError("simulation", "top_n must be positive, got %d", cfg.Simulation.TopN)
	}

	if cfg.MLOracle.Enabled && cfg.MLOracle.URL == "" {
		return fmt.Errorf("ml_oracle.url is required when the oracle is enabled")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("postgres driver requires database host, name and user")
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			return fmt.Errorf("sqlite driver requires database.path")
		}
	}

	if cfg.IsProduction() && cfg.Database.Driver == "postgres" && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
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
		case "required", "required_if":
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
		case "betformat":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: pivot, box\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
