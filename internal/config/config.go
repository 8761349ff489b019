package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

const (
	defaultAPIBaseURL  = "http://localhost:5000/api/users"
	usersResourcePath  = "/api/users"
	defaultClearStatus = 4 * time.Second
)

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int    `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`

	// Users API configuration
	APIBaseURL   string        `json:"api_base_url"`
	APIHealthURL string        `json:"api_health_url"`
	APITimeout   time.Duration `json:"api_timeout"`

	// Console behaviour
	StatusClearAfter time.Duration `json:"status_clear_after"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// String returns a string representation of Config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, APIBaseURL: %s, APIHealthURL: %s, APITimeout: %s, StatusClearAfter: %s, LogLevel: %s}",
		c.Port, c.Host, c.Environment, c.APIBaseURL, c.APIHealthURL, c.APITimeout, c.StatusClearAfter, c.LogLevel)
}

// APIRoot is the base URL with the users resource path replaced by /api,
// shown on the console page.
func (c *Config) APIRoot() string {
	if strings.HasSuffix(c.APIBaseURL, usersResourcePath) {
		return strings.TrimSuffix(c.APIBaseURL, usersResourcePath) + "/api"
	}
	return c.APIBaseURL
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	baseURL := strings.TrimRight(GetEnvWithDefault("API_BASE_URL", defaultAPIBaseURL), "/")
	if err := validateHTTPURL(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	healthURL := GetEnvWithDefault("API_HEALTH_URL", deriveHealthURL(baseURL))
	if err := validateHTTPURL(healthURL); err != nil {
		return nil, fmt.Errorf("invalid API_HEALTH_URL: %w", err)
	}

	timeout, err := time.ParseDuration(GetEnvWithDefault("API_TIMEOUT", "0s"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %q", os.Getenv("API_TIMEOUT"))
	}

	clearAfter, err := time.ParseDuration(GetEnvWithDefault("STATUS_CLEAR_AFTER", defaultClearStatus.String()))
	if err != nil || clearAfter <= 0 {
		return nil, fmt.Errorf("invalid STATUS_CLEAR_AFTER: %q", os.Getenv("STATUS_CLEAR_AFTER"))
	}

	environment := GetEnvWithDefault("APP_ENV", "development")
	config := &Config{
		Port:             port,
		Host:             GetEnvWithDefault("APP_HOST", "localhost"),
		Environment:      environment,
		APIBaseURL:       baseURL,
		APIHealthURL:     healthURL,
		APITimeout:       timeout,
		StatusClearAfter: clearAfter,
		LogLevel:         GetEnvWithDefault("LOG_LEVEL", LevelForEnvironment(environment).String()),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// deriveHealthURL maps http://host/api/users to http://host/health
func deriveHealthURL(baseURL string) string {
	if strings.HasSuffix(baseURL, usersResourcePath) {
		return strings.TrimSuffix(baseURL, usersResourcePath) + "/health"
	}
	return baseURL + "/health"
}

func validateHTTPURL(raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// LevelForEnvironment maps APP_ENV to a logrus level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	case time.Duration:
		durationValue, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return any(durationValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
