package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.Addr != ":8080" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.Database.Port != 5432 || cfg.Database.SSLMode != "disable" {
		t.Fatalf("Database=%+v", cfg.Database)
	}
	if cfg.CacheDriver != "none" {
		t.Fatalf("CacheDriver=%q", cfg.CacheDriver)
	}
	if cfg.QueryTimeout != 15*time.Second {
		t.Fatalf("QueryTimeout=%v", cfg.QueryTimeout)
	}
	if cfg.Invalidation.Enabled {
		t.Fatalf("invalidation enabled by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("CACHE_DRIVER", "Redis")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("INVALIDATION_ENABLED", "yes")

	cfg := FromEnv()
	if cfg.Addr != ":9000" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.Database.Port != 5433 {
		t.Fatalf("DB port=%d", cfg.Database.Port)
	}
	if cfg.CacheDriver != "redis" {
		t.Fatalf("CacheDriver=%q want lowercased redis", cfg.CacheDriver)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("CacheTTL=%v", cfg.CacheTTL)
	}
	if !cfg.Invalidation.Enabled {
		t.Fatalf("invalidation should be enabled")
	}
}

func TestFromEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("QUERY_TIMEOUT", "soon")

	cfg := FromEnv()
	if cfg.Database.Port != 5432 {
		t.Fatalf("DB port=%d want default", cfg.Database.Port)
	}
	if cfg.QueryTimeout != 15*time.Second {
		t.Fatalf("QueryTimeout=%v want default", cfg.QueryTimeout)
	}
}
