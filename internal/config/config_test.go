package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if !cfg.SimulatorEnabled {
		t.Error("SimulatorEnabled should default to true")
	}
	if cfg.SimulatorInterval != 30*time.Second {
		t.Errorf("SimulatorInterval = %v, want 30s", cfg.SimulatorInterval)
	}
	if cfg.NearbyRadiusKM != 2.0 {
		t.Errorf("NearbyRadiusKM = %v, want 2.0", cfg.NearbyRadiusKM)
	}
	if cfg.RedisEnabled {
		t.Error("RedisEnabled should default to false")
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.RateLimitPerWindow != 120 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit defaults = %d/%v", cfg.RateLimitPerWindow, cfg.RateLimitWindow)
	}
	if cfg.RateLimitWhitelist != nil {
		t.Errorf("RateLimitWhitelist = %v, want nil", cfg.RateLimitWhitelist)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SIMULATOR_ENABLED", "false")
	t.Setenv("SIMULATOR_INTERVAL", "5s")
	t.Setenv("SIMULATOR_SEED", "42")
	t.Setenv("NEARBY_RADIUS_KM", "1.5")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_WHITELIST", "127.0.0.1, 10.0.0.1,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.SimulatorEnabled {
		t.Error("SimulatorEnabled should be false")
	}
	if cfg.SimulatorInterval != 5*time.Second {
		t.Errorf("SimulatorInterval = %v, want 5s", cfg.SimulatorInterval)
	}
	if cfg.SimulatorSeed != 42 {
		t.Errorf("SimulatorSeed = %d, want 42", cfg.SimulatorSeed)
	}
	if cfg.NearbyRadiusKM != 1.5 {
		t.Errorf("NearbyRadiusKM = %v, want 1.5", cfg.NearbyRadiusKM)
	}
	if !cfg.RedisEnabled || cfg.RedisAddr != "redis:6379" {
		t.Errorf("redis config = %v/%q", cfg.RedisEnabled, cfg.RedisAddr)
	}

	want := []string{"127.0.0.1", "10.0.0.1"}
	if len(cfg.RateLimitWhitelist) != len(want) {
		t.Fatalf("RateLimitWhitelist = %v, want %v", cfg.RateLimitWhitelist, want)
	}
	for i := range want {
		if cfg.RateLimitWhitelist[i] != want[i] {
			t.Errorf("RateLimitWhitelist[%d] = %q, want %q", i, cfg.RateLimitWhitelist[i], want[i])
		}
	}
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("SIMULATOR_INTERVAL", "soon")
	t.Setenv("SIMULATOR_SEED", "-1")
	t.Setenv("REDIS_DB", "two")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info fallback", cfg.LogLevel)
	}
	if cfg.SimulatorInterval != 30*time.Second {
		t.Errorf("SimulatorInterval = %v, want 30s fallback", cfg.SimulatorInterval)
	}
	if cfg.SimulatorSeed != 0 {
		t.Errorf("SimulatorSeed = %d, want 0 fallback", cfg.SimulatorSeed)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want 0 fallback", cfg.RedisDB)
	}
}
