package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	Port          string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ExtractConcurrency int
	ExtractPauseAfter  int
	ExtractCooldown    time.Duration
	ExtractTimeout     time.Duration

	MaxUploadBytes   int64
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The Gemini API key has no default: extraction cannot
// run without it, so its absence halts startup.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ExtractConcurrency: getEnvInt("EXTRACT_CONCURRENCY", 2),
		ExtractPauseAfter:  getEnvInt("EXTRACT_PAUSE_AFTER", 8),
		ExtractCooldown:    time.Second * time.Duration(getEnvInt("EXTRACT_COOLDOWN_SECONDS", 70)),
		ExtractTimeout:     time.Second * time.Duration(getEnvInt("EXTRACT_TIMEOUT_SECONDS", 60)),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
		AllowedOrigins:     []string{getEnv("ALLOWED_ORIGIN", "http://localhost:8080")},
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.ExtractConcurrency <= 0 {
		return nil, fmt.Errorf("EXTRACT_CONCURRENCY must be positive")
	}

	if cfg.ExtractPauseAfter <= 0 {
		return nil, fmt.Errorf("EXTRACT_PAUSE_AFTER must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
