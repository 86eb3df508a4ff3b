package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. The staged export
// directory layout defaults to what the staging scripts produce.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	ChatCurrentDir  string
	ChatBeforeDir   string
	VoiceCurrentDir string
	VoiceBeforeDir  string
	SalesCurrentDir string
	SalesBeforeDir  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		ChatCurrentDir:  getEnv("CHAT_CURRENT_DIR", "Filtered/SLA_Chat Hourly"),
		ChatBeforeDir:   getEnv("CHAT_BEFORE_DIR", "Filtered_before/SLA_Chat Hourly"),
		VoiceCurrentDir: getEnv("VOICE_CURRENT_DIR", "Filtered/SLA_VOICE HOURLY (New Pod Skills)"),
		VoiceBeforeDir:  getEnv("VOICE_BEFORE_DIR", "Filtered_before/SLA_VOICE HOURLY (New Pod Skills)"),
		SalesCurrentDir: getEnv("SALES_CURRENT_DIR", "Filtered/Voice_Sales_SLA"),
		SalesBeforeDir:  getEnv("SALES_BEFORE_DIR", "Filtered_before/SLA_PBI_VOICE HOURLY Inbound Sales"),
	}

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
