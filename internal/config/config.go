package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI (primary). An empty API key removes the primary provider
	// from the cascade entirely.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Ollama (secondary, local)
	OllamaHost    string
	OllamaModel   string
	OllamaTimeout time.Duration

	// Session store
	RedisURL   string
	SessionTTL time.Duration

	// Rate limiting
	ChatRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Port:          getEnvOrDefault("PORT", "3001"),
		Env:           getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:  getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiTimeout: getEnvAsDurationOrDefault("GEMINI_TIMEOUT", 30*time.Second),
		OllamaHost:    getEnvOrDefault("OLLAMA_HOST", "http://127.0.0.1:11434"),
		OllamaModel:   getEnvOrDefault("OLLAMA_MODEL", "llama2:7b"),
		OllamaTimeout: getEnvAsDurationOrDefault("OLLAMA_TIMEOUT", 5*time.Second),
		RedisURL:      getEnvOrDefault("REDIS_URL", ""),
		SessionTTL:    getEnvAsDurationOrDefault("SESSION_TTL", 24*time.Hour),
		ChatRateLimit: getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 60),
	}
}

// HasGemini reports whether the primary provider is configured.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
