package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIKey    string
	Host      string
	Port      string
	DataDir   string
	QueueSize int
	LogLevel  string
}

func LoadConfig() *Config {
	// .env подхватывается, если лежит рядом; отсутствие файла не ошибка
	_ = godotenv.Load()

	return &Config{
		APIKey:    getEnv("TWITTER_API_KEY", ""),
		Host:      getEnv("HOST", "0.0.0.0"),
		Port:      getEnv("PORT", "5000"),
		DataDir:   getEnv("DATA_DIR", "."),
		QueueSize: getEnvAsInt("QUEUE_SIZE", 1000),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
