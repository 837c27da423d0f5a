package config

import (
	"os"
	"strconv"
	"time"

	"github.com/scythe504/goroda-bot/internal"
)

// Config holds application configuration
type Config struct {
	ServerPort         string
	DatabaseURL        string
	CitiesPath         string
	JoinDuration       time.Duration
	ProgressInterval   time.Duration
	InactivityDuration time.Duration
	WinThreshold       int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CitiesPath:         getEnv("CITIES_PATH", "./data/cities.json"),
		JoinDuration:       getDuration("JOIN_DURATION", internal.DefaultJoinDuration),
		ProgressInterval:   getDuration("PROGRESS_INTERVAL", internal.DefaultProgressInterval),
		InactivityDuration: getDuration("INACTIVITY_DURATION", internal.DefaultInactivityDuration),
		WinThreshold:       getInt("WIN_THRESHOLD", internal.DefaultWinThreshold),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
