package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	RateLimit     RateLimitConfig
	Notifications NotificationConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	// PublicBaseURL anchors notification action links; absolute action URLs
	// that do not share this origin are rejected.
	PublicBaseURL string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// RateLimitConfig holds rate limiter settings
type RateLimitConfig struct {
	Rate   int
	Window time.Duration
	Burst  int
	// RedisAddr switches the limiter to a shared Redis counter store when
	// set; empty means the process-local in-memory store.
	RedisAddr     string
	RedisPassword string
}

// NotificationConfig holds notification side-channel settings
type NotificationConfig struct {
	MergeWindow   time.Duration
	TTL           time.Duration
	PurgeSchedule string // cron expression
}

// defaultSecrets are placeholder values that must never reach production.
var defaultSecrets = []string{
	"change-me",
	"changeme",
	"secret",
	"dev-secret-do-not-use-in-production",
}

const minSecretLength = 32

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "settleline"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "dev-secret-do-not-use-in-production"),
			Issuer:          getEnv("JWT_ISSUER", "api.settleline.io"),
			ExpirationHours: getIntEnv("JWT_EXPIRATION_HOURS", 24*7),
		},
		RateLimit: RateLimitConfig{
			Rate:          getIntEnv("RATE_LIMIT_RATE", 100),
			Window:        getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			Burst:         getIntEnv("RATE_LIMIT_BURST", 20),
			RedisAddr:     getEnv("RATE_LIMIT_REDIS_ADDR", ""),
			RedisPassword: getEnv("RATE_LIMIT_REDIS_PASSWORD", ""),
		},
		Notifications: NotificationConfig{
			MergeWindow:   getDurationEnv("NOTIFICATION_MERGE_WINDOW", 5*time.Minute),
			TTL:           getDurationEnv("NOTIFICATION_TTL", 7*24*time.Hour),
			PurgeSchedule: getEnv("NOTIFICATION_PURGE_SCHEDULE", "0 * * * *"),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}
	if u, err := url.Parse(c.Server.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("PUBLIC_BASE_URL must be an absolute URL"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation. The development fallback secret is allowed outside
	// production so a fresh checkout still boots.
	if c.IsProduction() {
		if len(c.JWT.Secret) < minSecretLength {
			errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
		}
		if isDefaultSecret(c.JWT.Secret) {
			errs = append(errs, errors.New("JWT_SECRET must not be a default placeholder value"))
		}
	}
	if c.JWT.ExpirationHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS must be positive"))
	}

	// Rate limit validation
	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}

	// Notification validation
	if c.Notifications.MergeWindow <= 0 {
		errs = append(errs, errors.New("NOTIFICATION_MERGE_WINDOW must be positive"))
	}
	if c.Notifications.TTL <= 0 {
		errs = append(errs, errors.New("NOTIFICATION_TTL must be positive"))
	}
	if c.Notifications.PurgeSchedule == "" {
		errs = append(errs, errors.New("NOTIFICATION_PURGE_SCHEDULE is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func isDefaultSecret(secret string) bool {
	lowered := strings.ToLower(secret)
	for _, d := range defaultSecrets {
		if lowered == d {
			return true
		}
	}
	return false
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
