package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend string
	DatabaseURL string
	DB          DBConfig

	// Auth
	JWTSecretKey         string
	JWTExpirationHours   int64
	InitialAdminUsername string

	// Runtime
	LogLevel        string
	ResyncSchedule  string
	Timezone        string
	DefaultPageSize int
}

func Load() *Config {
	return &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		DataBackend: getEnv("DATA_BACKEND", BackendPostgres),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
		},

		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		JWTExpirationHours:   int64(getEnvInt("JWT_EXPIRATION_HOURS", 24)),
		InitialAdminUsername: getEnv("INITIAL_ADMIN_USERNAME", ""),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ResyncSchedule:  getEnv("RESYNC_SCHEDULE", "@daily"),
		Timezone:        getEnv("TIMEZONE", "Local"),
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{BackendPostgres, BackendMemory}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendPostgres {
		if c.DatabaseURL != "" {
			if parsedURL, err := url.Parse(c.DatabaseURL); err != nil {
				errors = append(errors, fmt.Sprintf("invalid DATABASE_URL: %v", err))
			} else if parsedURL.Scheme != "postgres" && parsedURL.Scheme != "postgresql" {
				errors = append(errors, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", parsedURL.Scheme))
			}
		} else if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			errors = append(errors, "either DATABASE_URL or DB_HOST, DB_USER and DB_NAME must be set for the postgres backend")
		}
	}

	if c.JWTSecretKey == "" {
		errors = append(errors, "JWT_SECRET_KEY must be set")
	}
	if c.JWTExpirationHours < 1 {
		errors = append(errors, fmt.Sprintf("invalid JWT expiration %d: must be at least 1 hour", c.JWTExpirationHours))
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.ResyncSchedule != "" {
		if _, err := cron.ParseStandard(c.ResyncSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid resync schedule '%s': %v", c.ResyncSchedule, err))
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > 500 {
		errors = append(errors, fmt.Sprintf("invalid default page size %d: must be between 1 and 500", c.DefaultPageSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Location returns the time zone used to decide what "today" is
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* variables
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DB.DSN()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
