package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected default driver %q, got %q", DriverPostgres, cfg.Database.Driver)
	}
	if cfg.Images.Root != "images/user_profile" {
		t.Errorf("unexpected image root %q", cfg.Images.Root)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Workers.PoolSize < 1 {
		t.Errorf("expected a positive worker pool size, got %d", cfg.Workers.PoolSize)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", DriverSQLite)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SESSION_CACHE_TTL", "30s")
	t.Setenv("PROFILE_IMAGE_MAX_DIMENSION", "512")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PROFILE_IMAGE_MAX_SOURCE_PIXELS", "1000000")

	cfg := Load()

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected driver %q, got %q", DriverSQLite, cfg.Database.Driver)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis to be disabled")
	}
	if cfg.Redis.SessionTTL != 30*time.Second {
		t.Errorf("expected session ttl 30s, got %s", cfg.Redis.SessionTTL)
	}
	if cfg.Images.MaxDimension != 512 {
		t.Errorf("expected max dimension 512, got %d", cfg.Images.MaxDimension)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Server.LogLevel)
	}
	if cfg.Images.MaxSourcePixels != 1000000 {
		t.Errorf("expected max source pixels 1000000, got %d", cfg.Images.MaxSourcePixels)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("REDIS_ENABLED", "maybe")
	t.Setenv("SESSION_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Server.Port)
	}
	if !cfg.Redis.Enabled {
		t.Error("expected fallback redis enabled")
	}
	if cfg.Redis.SessionTTL != 10*time.Minute {
		t.Errorf("expected fallback ttl 10m, got %s", cfg.Redis.SessionTTL)
	}
}
