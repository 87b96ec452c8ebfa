package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port string

	// Telegram
	BotToken string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// OpenRouter
	OpenRouterAPIKey string
	OpenRouterModel  string

	// Report footer link (Google Sheets)
	SheetURL string

	// Export endpoint shared secret
	ExportPass string

	// Gin runtime mode (debug, release or test)
	GinMode string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		BotToken: getEnv("BOT_TOKEN", ""),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DB", "telegram_gastos"),

		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct"),

		SheetURL: getEnv("GOOGLE_SHEET_URL", ""),

		// Default kept for parity with existing deployments. Override it.
		ExportPass: getEnv("EXPORT_PASS", "0000"),

		GinMode: getEnv("GIN_MODE", "release"),
	}
}

// Validate fails fast on configuration the server cannot run without.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.BotToken == "" {
		errors = append(errors, "BOT_TOKEN is required")
	}
	if c.MongoURI == "" {
		errors = append(errors, "MONGO_URI is required")
	}
	if c.OpenRouterAPIKey == "" {
		errors = append(errors, "OPENROUTER_API_KEY is required")
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errors = append(errors, fmt.Sprintf("invalid GIN_MODE '%s': must be debug, release or test", c.GinMode))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
