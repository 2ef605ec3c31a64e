package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	GeminiAPIKey string

	EventSheetURL        string
	AnnouncementSheetURL string
	SheetCacheTTL        time.Duration
	SheetRefreshInterval time.Duration

	RateLimitClubCreate time.Duration
	RateLimitJoinReq    time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		EventSheetURL:        os.Getenv("EVENT_SHEET_CSV_URL"),
		AnnouncementSheetURL: os.Getenv("ANNOUNCEMENT_SHEET_CSV_URL"),
	}

	var err error
	cfg.SheetCacheTTL, err = time.ParseDuration(getEnv("SHEET_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHEET_CACHE_TTL: %w", err)
	}
	cfg.SheetRefreshInterval, err = time.ParseDuration(getEnv("SHEET_REFRESH_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHEET_REFRESH_INTERVAL: %w", err)
	}
	cfg.RateLimitClubCreate, err = time.ParseDuration(getEnv("RATE_LIMIT_CLUB_CREATE", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CLUB_CREATE: %w", err)
	}
	cfg.RateLimitJoinReq, err = time.ParseDuration(getEnv("RATE_LIMIT_JOIN_REQUEST", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_JOIN_REQUEST: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
