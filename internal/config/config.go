package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Commerce  CommerceConfig
	Companion CompanionConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
	Alert     AlertConfig
	Archive   ArchiveConfig
	S3        S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database-related configuration for the recovery ledger.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds the session and dismissal store configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration for the admin routes.
type AuthConfig struct {
	APIKey string
}

// CommerceConfig points at the commerce backend.
type CommerceConfig struct {
	BaseURL        string
	PublishableKey string
	Timeout        time.Duration
}

// CompanionConfig points at the companion backend (subscriptions, alerts, MFA).
type CompanionConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CheckoutConfig holds checkout defaults.
type CheckoutConfig struct {
	ProcessorProviderID string
	DefaultRegionID     string
}

// SessionConfig holds browser session cookie configuration.
type SessionConfig struct {
	CookieName       string
	DeviceCookieName string
	TTL              time.Duration
	DeviceTTL        time.Duration
	Secure           bool
}

// AlertConfig throttles admin alert delivery.
type AlertConfig struct {
	Timeout   time.Duration
	PerMinute int
	Burst     int
}

// ArchiveConfig holds the local recovery report directory.
type ArchiveConfig struct {
	Dir string
}

// S3Config holds AWS S3 configuration for recovery reports.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "subscription-failures/")
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Commerce: CommerceConfig{
			BaseURL:        getEnv("COMMERCE_URL", "http://localhost:9000"),
			PublishableKey: getEnv("COMMERCE_PUBLISHABLE_KEY", ""),
			Timeout:        getEnvAsDuration("COMMERCE_TIMEOUT", 10*time.Second),
		},
		Companion: CompanionConfig{
			BaseURL: getEnv("COMPANION_URL", "http://localhost:9100"),
			Timeout: getEnvAsDuration("COMPANION_TIMEOUT", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			ProcessorProviderID: getEnv("PAYMENT_PROVIDER_ID", "pp_stripe_stripe"),
			DefaultRegionID:     getEnv("DEFAULT_REGION_ID", ""),
		},
		Session: SessionConfig{
			CookieName:       getEnv("SESSION_COOKIE", "sf_session"),
			DeviceCookieName: getEnv("DEVICE_COOKIE", "sf_device"),
			TTL:              getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			DeviceTTL:        getEnvAsDuration("DEVICE_TTL", 365*24*time.Hour),
			Secure:           getEnvAsBool("SESSION_SECURE", false),
		},
		Alert: AlertConfig{
			Timeout:   getEnvAsDuration("ALERT_TIMEOUT", 10*time.Second),
			PerMinute: getEnvAsInt("ALERT_PER_MINUTE", 30),
			Burst:     getEnvAsInt("ALERT_BURST", 5),
		},
		Archive: ArchiveConfig{
			Dir: getEnv("ARCHIVE_DIR", "./data/subscription-failures"),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "subscription-failures/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if err := validateURL("commerce", c.Commerce.BaseURL); err != nil {
		return err
	}

	if err := validateURL("companion", c.Companion.BaseURL); err != nil {
		return err
	}

	if c.Commerce.Timeout <= 0 || c.Companion.Timeout <= 0 {
		return fmt.Errorf("backend timeouts must be positive")
	}

	if c.Checkout.ProcessorProviderID == "" {
		return fmt.Errorf("payment provider ID is required")
	}

	if c.Session.CookieName == "" || c.Session.DeviceCookieName == "" {
		return fmt.Errorf("session cookie names are required")
	}

	if c.Session.CookieName == c.Session.DeviceCookieName {
		return fmt.Errorf("session and device cookies must have different names")
	}

	if c.Session.TTL <= 0 || c.Session.DeviceTTL <= 0 {
		return fmt.Errorf("session TTLs must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Archive.Dir == "" {
		return fmt.Errorf("archive directory is required")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s URL: %q", name, raw)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration parses values like "10s" or "24h".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
