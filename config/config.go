package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/raine/reddit-oauth/internal/reddit/auth"
	"github.com/rs/zerolog"
)

const (
	AppName     = "reddit-oauth"
	EnvFileName = "config.env"
)

// Config holds the service settings read from the environment.
type Config struct {
	AuthBaseURL string
	APIBaseURL  string
	HTTPTimeout time.Duration

	RenewalMargin   time.Duration
	RenewalRetryMin time.Duration
	RenewalRetryMax time.Duration

	LogLevel zerolog.Level
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// FromEnv reads the configuration. Unset values fall back to defaults; zero
// renewal durations are filled in by the renewal package.
func FromEnv() (Config, error) {
	cfg := Config{
		AuthBaseURL: getenv("REDDIT_AUTH_URL", auth.AuthBaseURL),
		APIBaseURL:  getenv("REDDIT_API_URL", auth.APIBaseURL),
		HTTPTimeout: 30 * time.Second,
		LogLevel:    zerolog.InfoLevel,
	}

	durations := []struct {
		key      string
		dest     *time.Duration
		positive bool
	}{
		{"REDDIT_HTTP_TIMEOUT", &cfg.HTTPTimeout, true},
		{"RENEWAL_MARGIN", &cfg.RenewalMargin, false},
		{"RENEWAL_RETRY_MIN", &cfg.RenewalRetryMin, false},
		{"RENEWAL_RETRY_MAX", &cfg.RenewalRetryMax, false},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if parsed < 0 {
			return cfg, fmt.Errorf("invalid %s: must not be negative", d.key)
		}
		if d.positive && parsed == 0 {
			return cfg, fmt.Errorf("invalid %s: must be positive", d.key)
		}
		*d.dest = parsed
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
