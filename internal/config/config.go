// Package config loads application configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Defaults used when neither flags nor environment say otherwise.
const (
	DefaultKeywordMapPath = "KeyWordsToCategoryMap.json"
	DefaultWallet         = "Рокет карта"
	DefaultReportPath     = "report.csv"
)

// Config holds application configuration.
type Config struct {
	KeywordMapPath string
	Wallet         string
	LogLevel       string
	Port           string
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		KeywordMapPath: getEnv("KEYWORD_MAP_PATH", DefaultKeywordMapPath),
		Wallet:         getEnv("WALLET", DefaultWallet),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
