package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	// Search provider credentials. An empty key silently disables that
	// provider; the keyless fallback is always available.
	GoogleSearchAPIKey string
	GoogleSearchCX     string
	BraveSearchAPIKey  string
	SearchRateLimit    int // provider calls per minute
	FetchRateLimit     int // fetches per domain per minute

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	OllamaHost  string
	OllamaModel string
}

func LoadConfig() Config {
	// Absent .env is fine; system environment wins either way.
	_ = godotenv.Load()

	return Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", ""),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		GoogleSearchAPIKey: getEnv("GOOGLE_SEARCH_API_KEY", ""),
		GoogleSearchCX:     getEnv("GOOGLE_SEARCH_CX", ""),
		BraveSearchAPIKey:  getEnv("BRAVE_SEARCH_API_KEY", ""),
		SearchRateLimit:    getIntEnv("SEARCH_RATE_LIMIT", 10),
		FetchRateLimit:     getIntEnv("FETCH_RATE_LIMIT", 5),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "scout-cache"),

		OllamaHost:  getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "qwen2.5:7b"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
