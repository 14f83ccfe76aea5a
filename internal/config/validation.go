// Package config provides configuration management for the Racing Predictor application.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

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

	return validateCrossField(cfg)
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

// validateCrossField performs validations that span configuration sections
func validateCrossField(cfg *Config) error {
	switch cfg.History.Backend {
	case "csv":
		if cfg.History.CSVPath == "" {
			return fmt.Errorf("history.csv_path is required for the csv backend")
		}
	case "sqlite":
		if cfg.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite backend")
		}
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required for the postgres backend")
		}
	case "cloudtable":
		if cfg.CloudTable.BaseURL == "" || cfg.CloudTable.Table == "" {
			return fmt.Errorf("cloud_table base_url and table are required for the cloudtable backend")
		}
	}

	if !cfg.Prediction.UseLongSegment {
		if len(cfg.Prediction.Blend) != 3 {
			return fmt.Errorf("prediction.blend must list exactly 3 shares when use_long_segment is false")
		}
		sum := cfg.Prediction.Blend[0] + cfg.Prediction.Blend[1] + cfg.Prediction.Blend[2]
		if sum < 1.0-1e-6 || sum > 1.0+1e-6 {
			return fmt.Errorf("prediction.blend shares must sum to 1.0, got %v", sum)
		}
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fmt.Sprintf(
			"field %s failed on the %s rule", fieldErr.Namespace(), fieldErr.Tag(),
		))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
