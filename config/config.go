// Package config handles loading and managing application configuration.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Mercado Pago configuration
	MercadoPago MercadoPagoConfig

	// Public URLs of this service and of the front-end
	App AppConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	GinMode         string // "debug", "release", or "test"
	ShutdownTimeout time.Duration
}

// MercadoPagoConfig holds the gateway credentials and timeouts.
type MercadoPagoConfig struct {
	AccessToken    string
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

// AppConfig holds the URLs used to build redirects and notifications.
type AppConfig struct {
	ServiceName string
	BaseURL     string // Public URL of this service
	FrontendURL string
}

// LogConfig holds logrus settings.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// LoadEnvFile loads variables from an optional .env file. Variables already
// set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	logrus.Infof("loaded environment from %s", path)
	return nil
}

// Load reads configuration from environment variables.
// Returns a Config struct with all settings populated.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_MS", 10000)) * time.Millisecond,
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken:    getEnv("MP_ACCESS_TOKEN", ""),
			ConnectTimeout: time.Duration(getEnvInt("MP_CONNECTION_TIMEOUT_MS", 5000)) * time.Millisecond,
			SocketTimeout:  time.Duration(getEnvInt("MP_SOCKET_TIMEOUT_MS", 10000)) * time.Millisecond,
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "MercadoPago Donation Service"),
			BaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", ""), "/"),
			FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:4200"), "/"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.MercadoPago.AccessToken == "" {
		return errors.New("MP_ACCESS_TOKEN is required")
	}
	if c.App.FrontendURL == "" {
		return errors.New("FRONTEND_URL is required")
	}
	if c.App.BaseURL == "" {
		logrus.Warn("APP_BASE_URL not set, preferences will be created without notification_url")
	}
	return nil
}

// ConfigureLogger applies the log level and format to the standard logrus logger.
func ConfigureLogger(cfg LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer with a fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		logrus.Warnf("invalid integer for %s: %q, using %d", key, value, defaultValue)
	}
	return defaultValue
}
