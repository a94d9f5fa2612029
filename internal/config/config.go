package config

import (
	"log/slog"
	"os"
	"time"
)

const devSecret = "dev-only-secret-change-me-before-deploying"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string

	// JWTSecret signs both access and refresh tokens; rotating it
	// invalidates every previously issued token.
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration // 0 means refresh tokens carry no expiry claim

	OpenRouterAPIKey string
	OpenRouterURL    string
}

func Load() Config {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/personachat?parseTime=true"),
		JWTSecret:        getEnv("JWT_SECRET", devSecret),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  getDuration("REFRESH_TOKEN_TTL", 0),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterURL:    getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
	}

	if len(cfg.JWTSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 bytes")
		os.Exit(1)
	}
	if cfg.Env == "production" && cfg.JWTSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// SecureCookies reports whether auth cookies should carry the Secure flag.
func (c Config) SecureCookies() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using fallback", "key", key, "value", v)
		return fallback
	}
	return d
}
