// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the backend a fresh install talks to.
const DefaultAPIURL = "http://localhost:8000/api/v1"

// Config aggregates runtime configuration for the client.
type Config struct {
	API    APIConfig
	Home   string
	Logger LoggerConfig
	// Token, when set, overrides the stored session token.
	Token string
}

// APIConfig describes the backend.
type APIConfig struct {
	URL            string
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	File  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	home := os.Getenv("COACHDESK_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: get home dir: %w", err)
		}
		home = filepath.Join(userHome, ".coachdesk")
	}

	apiURL := strings.TrimRight(getEnv("COACHDESK_API_URL", DefaultAPIURL), "/")
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("config.Load: invalid COACHDESK_API_URL %q", apiURL)
	}

	cfg := &Config{
		API: APIConfig{
			URL:            apiURL,
			TimeoutSeconds: getEnvAsInt("COACHDESK_TIMEOUT_SECONDS", 10),
		},
		Home: home,
		Logger: LoggerConfig{
			Level: getEnv("COACHDESK_LOG_LEVEL", "info"),
			File:  getEnv("COACHDESK_LOG_FILE", filepath.Join(home, "coachdesk.log")),
		},
		Token: strings.TrimSpace(os.Getenv("COACHDESK_TOKEN")),
	}
	return cfg, nil
}

// Timeout returns the configured request timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
