// Package config defines the claimrelay service configuration. It is loaded
// once at process start and immutable thereafter, with values resolved via a
// priority chain:
//
//	OS Environment (highest) -> Dotenv file -> AWS SSM Parameter Store (lowest)
//
// A missing required value or invalid format aborts startup.
package config

import (
	"time"

	"claimrelay/internal/types"
)

// SecretString aliases types.SecretString, the redacted secret type used for
// sensitive configuration values.
type SecretString = types.SecretString

// Config is the top-level configuration for the claimrelay service.
// Components receive only the subsets they need.
type Config struct {
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"claimrelay"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Email    EmailConfig
	SMS      SMSConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required"`

	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// AWSConfig holds AWS regional configuration and resource identifiers.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"eu-central-1"`

	// NotificationQueue is the SQS queue for asynchronous dispatch requests.
	NotificationQueue string `envconfig:"SQS_NOTIFICATIONS" validate:"required,url"`

	// LocalStack support (empty in prod).
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// EmailConfig holds SES delivery settings.
type EmailConfig struct {
	ConfigurationSet string        `envconfig:"SES_CONFIGURATION_SET"`
	SendTimeout      time.Duration `envconfig:"EMAIL_SEND_TIMEOUT" default:"10s"`
}

// SMSConfig holds SNS delivery and circuit-breaker settings.
type SMSConfig struct {
	SenderID         string        `envconfig:"SMS_SENDER_ID" default:"ClaimRelay"`
	BreakerThreshold uint32        `envconfig:"SMS_BREAKER_THRESHOLD" default:"5"`
	BreakerCooldown  time.Duration `envconfig:"SMS_BREAKER_COOLDOWN" default:"30s"`
}

// AuthConfig holds API authentication settings. Key material itself lives in
// the database, bcrypt hashed.
type AuthConfig struct {
	// Enabled disables API key checks when false. Local development only.
	Enabled bool `envconfig:"AUTH_ENABLED" default:"true"`
	// KeyPrefixLength is the length of the public key prefix used to narrow
	// candidates before the bcrypt comparison.
	KeyPrefixLength int `envconfig:"AUTH_KEY_PREFIX_LENGTH" default:"8" validate:"min=4,max=16"`
}

// MetricsConfig holds CloudWatch telemetry settings.
type MetricsConfig struct {
	Namespace string `envconfig:"METRIC_NAMESPACE" default:"ClaimRelay"`
	Enabled   bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// ErrorType categorizes configuration loading failures.
type ErrorType string

const (
	// ErrSSMResolution indicates a failure fetching secrets from AWS SSM.
	ErrSSMResolution ErrorType = "SSM_FAILURE"
	// ErrValidation indicates the configuration failed struct validation.
	ErrValidation ErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates environment values could not be parsed into
	// their target types.
	ErrParsing ErrorType = "PARSING_FAILED"
)
