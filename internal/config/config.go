package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds server configuration
type Config struct {
	Port            int           // Port to listen on
	Secret          string        // Secret key for session JWTs
	Env             string        // Environment (development | production)
	BaseURL         string        // Base URL for the server
	APIBaseURL      string        // Base URL of the school administration REST API
	APITimeout      time.Duration // Timeout for a single upstream request
	ActivityLimit   int           // Number of recent activities on the dashboard
	HistoryLimit    int           // Number of message history entries fetched
	NotificationTTL time.Duration // How long a toast stays visible
	SessionTTL      time.Duration // Idle lifetime of session scoped page state
}

func (c *Config) Log() {
	log.Info().
		Int("port", c.Port).
		Str("env", c.Env).
		Str("base_url", c.BaseURL).
		Str("api_base_url", c.APIBaseURL).
		Dur("api_timeout", c.APITimeout).
		Int("activity_limit", c.ActivityLimit).
		Int("history_limit", c.HistoryLimit).
		Dur("notification_ttl", c.NotificationTTL).
		Dur("session_ttl", c.SessionTTL).
		Msg("server configuration")
}

// IsDevelopment reports whether the server runs in a local development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "dev" || c.Env == "development" || c.Env == "local"
}

// NewConfig creates a server configuration from environment variables
func NewConfig() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		log.Error().Err(err).Msg("invalid PORT environment variable")
		return nil, fmt.Errorf("invalid PORT: %q", os.Getenv("PORT"))
	}

	secret := os.Getenv("SECRET")
	if secret == "" {
		log.Error().Msg("SECRET environment variable is required")
		return nil, fmt.Errorf("SECRET is required")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "production"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8000"
	}
	if err := validateAPIBaseURL(apiBaseURL); err != nil {
		log.Error().Err(err).Msg("invalid API_BASE_URL environment variable")
		return nil, err
	}

	apiTimeout, err := parseDuration("API_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	activityLimit, err := parseLimit("ACTIVITY_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	historyLimit, err := parseLimit("HISTORY_LIMIT", 100)
	if err != nil {
		return nil, err
	}

	notificationTTL, err := parseDuration("NOTIFY_TTL", "5s")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := parseDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            port,
		Secret:          secret,
		Env:             env,
		BaseURL:         baseURL,
		APIBaseURL:      strings.TrimRight(apiBaseURL, "/"),
		APITimeout:      apiTimeout,
		ActivityLimit:   activityLimit,
		HistoryLimit:    historyLimit,
		NotificationTTL: notificationTTL,
		SessionTTL:      sessionTTL,
	}, nil
}

// validateAPIBaseURL ensures the upstream API address is an absolute http(s) URL
func validateAPIBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL: %q must be an http or https URL", raw)
	}
	return nil
}

// parseDuration reads a positive duration from the environment.
// A bare number is interpreted as seconds, e.g. "15" == "15s"
func parseDuration(key, fallback string) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}
	if _, err := strconv.Atoi(value); err == nil {
		value += "s"
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Error().Err(err).Str("key", key).Msg("invalid duration environment variable")
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return d, nil
}

// parseLimit reads a positive integer from the environment
func parseLimit(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Error().Err(err).Str("key", key).Msg("invalid limit environment variable")
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return n, nil
}
