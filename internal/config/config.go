package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the client settings loaded from the environment.
type Config struct {
	APIBaseURL       string
	WSURL            string
	HTTPTimeout      time.Duration
	StatsRefreshCron string
	LogLevel         string
}

// LoadConfig loads configuration from a .env file if present, falling back to
// the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	return &Config{
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:5000"),
		WSURL:            getEnv("WS_URL", "ws://localhost:5000/ws"),
		HTTPTimeout:      getDurationEnv("HTTP_TIMEOUT_SECONDS", 30) * time.Second,
		StatsRefreshCron: getEnv("STATS_REFRESH_CRON", "@every 15m"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallback)
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warn("Invalid numeric value, using default")
		return time.Duration(fallback)
	}
	return time.Duration(parsed)
}
