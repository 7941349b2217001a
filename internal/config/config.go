// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port       int
	DBPath     string
	StaticPath string
	PublicURL  string

	JWTSecret      string
	SessionTTL     time.Duration
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	BcryptCost     int

	GoogleClientID string
	GoogleJWKSURL  string

	RedisURL string
	// RateLimit is a ulule/limiter formatted rate ("5-M") applied to the
	// unauthenticated auth endpoints.
	RateLimit string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return FromKoanf(k)
}

// FromKoanf builds a Config from already-loaded keys.
func FromKoanf(k *koanf.Koanf) (*Config, error) {
	port, err := parseInt(k.String("PORT"), 8080)
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	cost, err := parseInt(k.String("BCRYPT_COST"), 0)
	if err != nil {
		return nil, fmt.Errorf("BCRYPT_COST: %w", err)
	}

	cfg := &Config{
		Port:               port,
		DBPath:             valueOrDefault(k.String("DB_PATH"), "./data/splitzytip.db"),
		StaticPath:         valueOrDefault(k.String("STATIC_PATH"), "./static"),
		PublicURL:          strings.TrimSpace(k.String("PUBLIC_URL")),
		JWTSecret:          k.String("JWT_SECRET"),
		SessionTTL:         parseDuration(k.String("SESSION_TTL"), "24h"),
		VerifyTokenTTL:     parseDuration(k.String("VERIFY_TOKEN_TTL"), "72h"),
		ResetTokenTTL:      parseDuration(k.String("RESET_TOKEN_TTL"), "1h"),
		BcryptCost:         cost,
		GoogleClientID:     strings.TrimSpace(k.String("GOOGLE_CLIENT_ID")),
		GoogleJWKSURL:      strings.TrimSpace(k.String("GOOGLE_JWKS_URL")),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		RateLimit:          valueOrDefault(k.String("RATE_LIMIT"), "10-M"),
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, errors.New("JWT_SECRET must be at least 16 characters")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
