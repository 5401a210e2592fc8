package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	GeminiAPIKey      string
	GeminiImageModel  string
	GeminiEditModel   string
	GeminiPromptModel string
	PromptProvider    string
	AllowedOrigins    []string
	MaxUploadBytes    int64
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The Gemini API key has no default: startup fails
// without it instead of letting the first generation request discover the gap.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		GeminiEditModel:   getEnv("GEMINI_EDIT_MODEL", "gemini-2.5-flash-image"),
		GeminiPromptModel: getEnv("GEMINI_PROMPT_MODEL", "gemini-2.5-flash"),
		PromptProvider:    getEnv("PROMPT_PROVIDER", "gemini"),
		AllowedOrigins:    splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_MB", 12)) << 20,
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		// A generation cycle blocks its handler until the model renders, so
		// the write timeout has to cover the slowest cycle.
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	switch cfg.PromptProvider {
	case "gemini", "static":
	default:
		return nil, fmt.Errorf("PROMPT_PROVIDER must be gemini or static, got %q", cfg.PromptProvider)
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

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
