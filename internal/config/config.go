package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	// Server
	Port               string   `env:"PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:*"`

	// Storage
	DBPath string `env:"DB_PATH" envDefault:"./battlebuddy.db"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote documents
	MetadataURL     string `env:"METADATA_URL" envDefault:"http://localhost:8080/api/metadata"`
	MetadataAPIKey  string `env:"METADATA_API_KEY"`
	RemoteConfigURL string `env:"REMOTE_CONFIG_URL"`

	// Twitch Helix streams endpoint, e.g. https://api.twitch.tv/helix/streams?game_id=<id>
	TwitchStreamsURL  string `env:"TWITCH_STREAMS_URL"`
	TwitchClientID    string `env:"TWITCH_CLIENT_ID"`
	TwitchAccessToken string `env:"TWITCH_ACCESS_TOKEN"`

	// HTTP requestor
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	HTTPMaxRetries   uint64        `env:"HTTP_MAX_RETRIES" envDefault:"2"`
	HTTPMaxBodyBytes int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`

	// Feedback
	ReviewPromptAfterLaunches int `env:"REVIEW_PROMPT_AFTER_LAUNCHES" envDefault:"5"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT: %s (must be positive)", c.HTTPTimeout)
	}
	if c.HTTPMaxRetries > 10 {
		return fmt.Errorf("invalid HTTP_MAX_RETRIES: %d (must be 0-10)", c.HTTPMaxRetries)
	}
	if c.HTTPMaxBodyBytes <= 0 {
		return fmt.Errorf("invalid HTTP_MAX_BODY_BYTES: %d (must be positive)", c.HTTPMaxBodyBytes)
	}
	if c.ReviewPromptAfterLaunches < 1 {
		return fmt.Errorf("invalid REVIEW_PROMPT_AFTER_LAUNCHES: %d (must be at least 1)", c.ReviewPromptAfterLaunches)
	}
	return nil
}

// ConfigureLogging applies the JSON formatter and the configured level
func (c *Config) ConfigureLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// MetadataHeaders returns the headers sent with global metadata requests
func (c *Config) MetadataHeaders() map[string]string {
	headers := map[string]string{"Accept": "application/json"}
	if c.MetadataAPIKey != "" {
		headers["X-Api-Key"] = c.MetadataAPIKey
	}
	return headers
}

// TwitchHeaders returns the headers sent with Twitch Helix requests
func (c *Config) TwitchHeaders() map[string]string {
	headers := map[string]string{"Accept": "application/json"}
	if c.TwitchClientID != "" {
		headers["Client-Id"] = c.TwitchClientID
	}
	if c.TwitchAccessToken != "" {
		headers["Authorization"] = "Bearer " + c.TwitchAccessToken
	}
	return headers
}
