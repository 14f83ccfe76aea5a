// Package config provides configuration management for the Racing Predictor application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	History    HistoryConfig    `mapstructure:"history" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	CloudTable CloudTableConfig `mapstructure:"cloud_table"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Accuracy   AccuracyConfig   `mapstructure:"accuracy" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// HistoryConfig selects and parameterizes the persistence backend
type HistoryConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=csv sqlite postgres cloudtable"`
	CSVPath string `mapstructure:"csv_path"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// SQLiteConfig represents the embedded database configuration
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// CloudTableConfig represents the hosted table API configuration
type CloudTableConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	Table          string  `mapstructure:"table"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
}

// PredictionConfig carries the tunables of the prediction chain. The match
// thresholds varied across deployments, so they are configuration, not law.
type PredictionConfig struct {
	ScoringMode            string    `mapstructure:"scoring_mode" validate:"required,oneof=time speed"`
	Blend                  []float64 `mapstructure:"blend" validate:"omitempty,len=3"`
	UseLongSegment         bool      `mapstructure:"use_long_segment"`
	SimilarMatchMinimum    int       `mapstructure:"similar_match_minimum" validate:"required,gt=0"`
	MinHistoryForInference int       `mapstructure:"min_history_for_inference" validate:"required,gt=0"`
}

// AccuracyConfig represents accuracy evaluation configuration
type AccuracyConfig struct {
	MinRecords int `mapstructure:"min_records" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SnapshotConfig schedules the periodic accuracy snapshot in watch mode
type SnapshotConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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
