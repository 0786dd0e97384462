package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Scoring provider names accepted in SCORING_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Port        string
	Debug       bool
	DatabaseURL string
	RedisURL    string

	JWTSecret        string
	JWTExpireMinutes int

	// Base URL of the Telegram bot service used for member notifications.
	TGServiceURL string

	// Scoring backend selection and credentials. The provider is fixed at
	// startup; the orchestrator never branches on it.
	ScoringProvider       string
	ScoringTimeoutSeconds int
	OpenRouterBaseURL     string
	OpenRouterAPIKey      string
	OpenRouterModel       string
	GeminiAPIKey          string
	GeminiModel           string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production where the file is absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Debug:       getEnvBool("DEBUG", false),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 60*24*30),

		TGServiceURL: strings.TrimRight(getEnv("TG_SERVICE_URL", ""), "/"),

		ScoringProvider:       getEnv("SCORING_PROVIDER", ProviderOpenRouter),
		ScoringTimeoutSeconds: getEnvInt("SCORING_TIMEOUT_SECONDS", 120),
		OpenRouterBaseURL:     strings.TrimRight(getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"), "/"),
		OpenRouterAPIKey:      getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:       getEnv("OPENROUTER_MODEL", "openai/gpt-oss-120b:free"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Issued tokens will not survive restarts safely.")
	}
	if cfg.TGServiceURL == "" {
		log.Println("WARNING: TG_SERVICE_URL not configured. Member notifications will be skipped.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
