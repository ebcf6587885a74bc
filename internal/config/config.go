package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Logger   LoggerConfig
	Uploads  UploadsConfig
	Session  SessionConfig
}

// ServerConfig holds the gateway's listen configuration.
type ServerConfig struct {
	Host string
	Port int
}

// UpstreamConfig holds the marketplace backend configuration.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// UploadsConfig holds the file-field staging configuration. S3 when
// enabled, a local directory otherwise.
type UploadsConfig struct {
	S3Enabled bool
	Bucket    string
	Region    string
	Prefix    string // key prefix within the bucket (e.g. "uploads/")
	LocalDir  string
}

// SessionConfig holds the session lifecycle configuration.
type SessionConfig struct {
	TTLMinutes   int
	SweepSeconds int
}

// TTL returns the idle lifetime of a session.
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SweepInterval returns how often idle sessions are collected.
func (c *SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}

// Timeout returns the per-request upstream timeout.
func (c *UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Upstream: UpstreamConfig{
			BaseURL:        getEnv("MARKETPLACE_API_URL", ""),
			TimeoutSeconds: getEnvAsInt("MARKETPLACE_TIMEOUT_SECONDS", 20),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Uploads: UploadsConfig{
			S3Enabled: getEnvAsBool("UPLOADS_S3_ENABLED", false),
			Bucket:    getEnv("UPLOADS_S3_BUCKET", ""),
			Region:    getEnv("UPLOADS_S3_REGION", "us-east-1"),
			Prefix:    getEnv("UPLOADS_S3_PREFIX", "uploads/"),
			LocalDir:  getEnv("UPLOADS_LOCAL_DIR", "data/uploads"),
		},
		Session: SessionConfig{
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 60),
			SweepSeconds: getEnvAsInt("SESSION_SWEEP_SECONDS", 60),
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

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("marketplace API URL is required")
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid marketplace API URL: %s", c.Upstream.BaseURL)
	}

	if c.Upstream.TimeoutSeconds < 1 {
		return fmt.Errorf("marketplace timeout must be at least 1 second")
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

	if c.Uploads.S3Enabled {
		if c.Uploads.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 uploads are enabled")
		}
		if c.Uploads.Region == "" {
			return fmt.Errorf("S3 region is required when S3 uploads are enabled")
		}
	} else if c.Uploads.LocalDir == "" {
		return fmt.Errorf("local upload directory is required when S3 uploads are disabled")
	}

	if c.Session.TTLMinutes < 1 {
		return fmt.Errorf("session TTL must be at least 1 minute")
	}
	if c.Session.SweepSeconds < 1 {
		return fmt.Errorf("session sweep interval must be at least 1 second")
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
