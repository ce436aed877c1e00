package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.DBDriver != "sqlite" {
		t.Errorf("Expected default driver sqlite, got %s", cfg.DBDriver)
	}
	if cfg.CSVDelimiter != "," {
		t.Errorf("Expected default delimiter ',', got %q", cfg.CSVDelimiter)
	}
	if cfg.RedisEnabled() {
		t.Error("Expected redis disabled without REDIS_HOST")
	}
	if cfg.UploadMaxBytes() != 32<<20 {
		t.Errorf("Expected 32MB upload limit, got %d", cfg.UploadMaxBytes())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "db_driver: postgres\npg_host: db.internal\njoin_cache_ttl_seconds: 30\ncsv_delimiter: \";\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PG_HOST", "override.internal")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.DBDriver != "postgres" {
		t.Errorf("Expected driver from file, got %s", cfg.DBDriver)
	}
	if cfg.PGHost != "override.internal" {
		t.Errorf("Expected env override for PG_HOST, got %s", cfg.PGHost)
	}
	if cfg.JoinCacheTTL() != 30*time.Second {
		t.Errorf("Expected 30s cache ttl, got %s", cfg.JoinCacheTTL())
	}
	if cfg.CSVDelimiter != ";" {
		t.Errorf("Expected ';' delimiter, got %q", cfg.CSVDelimiter)
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RATE_LIMIT_BURST", "lots")

	if _, err := Load(); err == nil {
		t.Error("Expected error for non-numeric RATE_LIMIT_BURST")
	}
}
