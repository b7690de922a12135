// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// DevJWTSecret is the built-in signing secret. It keeps a fresh checkout
// runnable and must be overridden in any shared deployment.
const DevJWTSecret = "jobmatch-development-secret-change-me"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// StoreDriver selects the document store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`
	// StoreDSN is the SQLite path or the PostgreSQL URL.
	StoreDSN string `koanf:"store_dsn"`
	// StoreMaxConns bounds the PostgreSQL pool.
	StoreMaxConns int `koanf:"store_max_conns"`

	JWTSecret          string `koanf:"jwt_secret"`
	JWTExpirationHours int    `koanf:"jwt_expiration_hours"`
	BcryptCost         int    `koanf:"bcrypt_cost"`
	PasswordPepper     string `koanf:"password_pepper"`

	// LoginRatePerMin and LoginBurst shape the per-IP login limiter.
	LoginRatePerMin int `koanf:"login_rate_per_min"`
	LoginBurst      int `koanf:"login_burst"`

	// BlobDriver selects resume storage: disk or s3.
	BlobDriver     string `koanf:"blob_driver"`
	UploadDir      string `koanf:"upload_dir"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
	S3Bucket       string `koanf:"s3_bucket"`
	S3Region       string `koanf:"s3_region"`
	S3Endpoint     string `koanf:"s3_endpoint"`
	S3AccessKey    string `koanf:"s3_access_key"`
	S3SecretKey    string `koanf:"s3_secret_key"`
	S3PathStyle    bool   `koanf:"s3_path_style"`

	// QueueSize bounds the resume task backlog.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of resume workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize bounds the remembered (user, content hash) keys.
	DedupeSize int `koanf:"dedupe_size"`

	// AMQPURL enables the RabbitMQ event publisher when set.
	AMQPURL      string `koanf:"amqp_url"`
	AMQPExchange string `koanf:"amqp_exchange"`

	// SeedFile is an optional YAML file of employers and jobs loaded at start.
	SeedFile string `koanf:"seed_file"`

	// SkillVocabulary replaces the built-in vocabulary when non-empty.
	SkillVocabulary []string `koanf:"skill_vocabulary"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":8080",
		ShutdownTimeoutSeconds: 10,
		StoreDriver:            "memory",
		StoreMaxConns:          10,
		JWTSecret:              DevJWTSecret,
		JWTExpirationHours:     24,
		BcryptCost:             12,
		LoginRatePerMin:        10,
		LoginBurst:             5,
		BlobDriver:             "disk",
		UploadDir:              "data/uploads",
		MaxUploadBytes:         5 << 20,
		S3Region:               "auto",
		QueueSize:              1024,
		WorkerCount:            runtime.NumCPU(),
		DedupeSize:             10_000,
		AMQPExchange:           "jobmatch.events",
	}
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// TokenTTL returns the token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// UsesDevSecret reports whether the built-in JWT secret is in use.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	var problems []string
	if c.Addr == "" {
		problems = append(problems, "addr must not be empty")
	}
	switch strings.ToLower(c.StoreDriver) {
	case "memory":
	case "sqlite", "postgres":
		if c.StoreDSN == "" {
			problems = append(problems, "store_dsn is required for "+c.StoreDriver)
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store_driver %q", c.StoreDriver))
	}
	switch strings.ToLower(c.BlobDriver) {
	case "disk":
		if c.UploadDir == "" {
			problems = append(problems, "upload_dir is required for disk storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			problems = append(problems, "s3_bucket is required for s3 storage")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown blob_driver %q", c.BlobDriver))
	}
	if len(c.JWTSecret) < 32 {
		problems = append(problems, "jwt_secret must be at least 32 bytes")
	}
	if c.JWTExpirationHours <= 0 {
		problems = append(problems, "jwt_expiration_hours must be positive")
	}
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		problems = append(problems, "bcrypt_cost must be between 10 and 14")
	}
	if c.MaxUploadBytes <= 0 {
		problems = append(problems, "max_upload_bytes must be positive")
	}
	if c.QueueSize <= 0 {
		problems = append(problems, "queue_size must be positive")
	}
	if c.LoginRatePerMin <= 0 || c.LoginBurst <= 0 {
		problems = append(problems, "login_rate_per_min and login_burst must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
