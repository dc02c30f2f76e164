package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Backend API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Session cache
	SessionFile string
	SessionTTL  time.Duration

	// Server (railbook serve)
	ServerPort string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:     getEnv("RAILBOOK_API_URL", "http://localhost:3000"),
		RequestTimeout: time.Duration(getEnvInt("RAILBOOK_TIMEOUT_SECONDS", 10)) * time.Second,

		SessionFile: getEnv("RAILBOOK_SESSION_FILE", defaultSessionFile()),
		// The browser frontend kept its role cookie for 7 days.
		SessionTTL: time.Duration(getEnvInt("RAILBOOK_SESSION_TTL_HOURS", 168)) * time.Hour,

		ServerPort: getEnv("SERVER_PORT", "3000"),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".railbook", "session.json")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
