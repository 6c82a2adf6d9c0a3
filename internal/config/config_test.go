package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./battlebuddy.db", cfg.DBPath)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, uint64(2), cfg.HTTPMaxRetries)
	assert.Equal(t, 5, cfg.ReviewPromptAfterLaunches)
	assert.Equal(t, []string{"http://localhost:*"}, cfg.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "250ms")
	t.Setenv("METADATA_API_KEY", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, map[string]string{"Accept": "application/json", "X-Api-Key": "secret"}, cfg.MetadataHeaders())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DBPath:                    "x.db",
			LogLevel:                  "debug",
			HTTPTimeout:               time.Second,
			HTTPMaxRetries:            1,
			HTTPMaxBodyBytes:          1024,
			ReviewPromptAfterLaunches: 3,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"too many retries", func(c *Config) { c.HTTPMaxRetries = 11 }},
		{"zero body limit", func(c *Config) { c.HTTPMaxBodyBytes = 0 }},
		{"zero review threshold", func(c *Config) { c.ReviewPromptAfterLaunches = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestTwitchHeaders(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, map[string]string{"Accept": "application/json"}, cfg.TwitchHeaders())

	cfg.TwitchClientID = "client"
	cfg.TwitchAccessToken = "token"
	assert.Equal(t, map[string]string{
		"Accept":        "application/json",
		"Client-Id":     "client",
		"Authorization": "Bearer token",
	}, cfg.TwitchHeaders())
}
