package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "ACCESS_TOKEN_LIFESPAN", "RENEW_TOKEN_LIFESPAN",
		"RATE_LIMIT_PER_SEC", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %s, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.RenewTokenTTL != 7*24*time.Hour {
		t.Errorf("RenewTokenTTL = %s, want 168h", cfg.RenewTokenTTL)
	}
	if cfg.RateLimitPerSec != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %v/%d, want 20/40", cfg.RateLimitPerSec, cfg.RateLimitBurst)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("ACCESS_TOKEN_LIFESPAN", "60")
	t.Setenv("JWT_SECRET_ACCESS", "access-secret")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.AccessTokenTTL != time.Minute {
		t.Errorf("AccessTokenTTL = %s, want 1m", cfg.AccessTokenTTL)
	}
	if cfg.AccessSecret != "access-secret" {
		t.Errorf("AccessSecret = %q", cfg.AccessSecret)
	}
}

func TestLoadRejectsGarbageNumbers(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_LIFESPAN", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "-5")

	cfg := Load()
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %s, want default on garbage", cfg.AccessTokenTTL)
	}
	if cfg.RateLimitBurst != 40 {
		t.Errorf("RateLimitBurst = %d, want default on negative", cfg.RateLimitBurst)
	}
}
