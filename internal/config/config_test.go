package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "DB_DSN", "DB_MAX_CONNS", "JWT_SECRET", "TOKEN_TTL_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.AppEnv != "development" || cfg.Production() {
		t.Fatalf("unexpected env: %+v", cfg)
	}
	if cfg.HTTPAddr != ":5000" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.DBMaxConns != 0 {
		t.Fatalf("max conns = %d, want 0 (pgx default)", cfg.DBMaxConns)
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("secret must have no default, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("ttl = %s, want 15m", cfg.TokenTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout = %s, want 10s", cfg.ShutdownTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_MAX_CONNS", "12")
	t.Setenv("TOKEN_TTL_SECONDS", "120")

	cfg := FromEnv()
	if !cfg.Production() {
		t.Fatalf("expected production mode, got %q", cfg.AppEnv)
	}
	if cfg.DBMaxConns != 12 {
		t.Fatalf("max conns = %d, want 12", cfg.DBMaxConns)
	}
	if cfg.TokenTTL != 2*time.Minute {
		t.Fatalf("ttl = %s, want 2m", cfg.TokenTTL)
	}
}

func TestFromEnvIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("TOKEN_TTL_SECONDS", "soon")

	cfg := FromEnv()
	if cfg.DBMaxConns != 0 {
		t.Fatalf("max conns = %d, want default 0", cfg.DBMaxConns)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("ttl = %s, want default 15m", cfg.TokenTTL)
	}
}
