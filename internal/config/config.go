package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	SRS       SRSConfig       `mapstructure:"srs"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// ConnMaxLifetime returns the pool's connection lifetime.
func (d DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(d.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains bearer token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// IngestionConfig bounds vocabulary submissions.
type IngestionConfig struct {
	MaxBatchSize int `mapstructure:"max_batch_size" validate:"gt=0,lte=1000"`
}

// SRSConfig tunes review scheduling. Zero values keep the built-in defaults.
type SRSConfig struct {
	MinEaseFactor      float64 `mapstructure:"min_ease_factor"      validate:"gte=0"`
	PassingQuality     int     `mapstructure:"passing_quality"      validate:"gte=0,lte=5"`
	FailureEasePenalty float64 `mapstructure:"failure_ease_penalty" validate:"gte=0"`
	ResetInterval      int     `mapstructure:"reset_interval"       validate:"gte=0"`
	FirstInterval      int     `mapstructure:"first_interval"       validate:"gte=0"`
	SecondInterval     int     `mapstructure:"second_interval"      validate:"gte=0"`
}

// TracingConfig controls OpenTelemetry export. With no endpoint, spans are
// written to stdout.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"  validate:"gte=0,lte=1"`
	ServiceName string  `mapstructure:"service_name"  validate:"required"`
}
