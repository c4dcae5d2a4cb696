package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, "ws://localhost:5000/ws", cfg.WSURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "@every 15m", cfg.StatsRefreshCron)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.greenbuddy.example")
	t.Setenv("WS_URL", "wss://api.greenbuddy.example/ws")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()
	assert.Equal(t, "https://api.greenbuddy.example", cfg.APIBaseURL)
	assert.Equal(t, "wss://api.greenbuddy.example/ws", cfg.WSURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigInvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")
	cfg := LoadConfig()
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}
