package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	DefaultCurrency string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseType:    getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./kharchapal.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "INR"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
