// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the API process reads from its environment.
// Token secrets are optional at startup: a missing secret surfaces as a 500
// on the operations that need it rather than preventing boot.
type Config struct {
	Port         string
	FrontendPort string
	DatabaseURL  string

	APISecretKey    string
	AdminAccessHash string

	AccessSecret    string
	RenewSecret     string
	AccessTokenTTL  time.Duration
	RenewTokenTTL   time.Duration

	RateLimitPerSec float64
	RateLimitBurst  int
}

// Load reads the environment, applying defaults where a variable is unset.
func Load() Config {
	return Config{
		Port:            envOr("API_PORT", "8080"),
		FrontendPort:    os.Getenv("FRONTEND_PORT"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		APISecretKey:    os.Getenv("API_SECRET_KEY"),
		AdminAccessHash: os.Getenv("ADMIN_HASHED_ACCESS_CODE"),
		AccessSecret:    os.Getenv("JWT_SECRET_ACCESS"),
		RenewSecret:     os.Getenv("JWT_SECRET_RENEW"),
		AccessTokenTTL:  envSeconds("ACCESS_TOKEN_LIFESPAN", 15*time.Minute),
		RenewTokenTTL:   envSeconds("RENEW_TOKEN_LIFESPAN", 7*24*time.Hour),
		RateLimitPerSec: envFloat("RATE_LIMIT_PER_SEC", 20),
		RateLimitBurst:  envInt("RATE_LIMIT_BURST", 40),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
