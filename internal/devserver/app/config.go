package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer       string        // Optional: issuer claim for tokens (default: amani-devserver)
	JWTSecret    string        // Required outside dev: HS256 signing secret
	TokenTTL     time.Duration // Optional: access token lifetime (default: 24h)
	DatabaseFile string        // Optional: path to SQLite database file (default: ./amani.db)
	PepperFile   string        // Optional: path to password hashing pepper file (default: ./pepper)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:              getEnvOrDefault("AMANI_ISSUER", "amani-devserver"),
		JWTSecret:           getEnvOrDefault("AMANI_JWT_SECRET", "dev-secret-do-not-use-in-prod"),
		TokenTTL:            getEnvDurationOrDefault("AMANI_TOKEN_TTL", 24*time.Hour),
		DatabaseFile:        getEnvOrDefault("AMANI_DATABASE_FILE", "amani.db"),
		PepperFile:          getEnvOrDefault("AMANI_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
