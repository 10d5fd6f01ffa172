package config

import (
	"os"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_API_URL", "https://store.example.com/api")
	defer os.Unsetenv("TEST_API_URL")

	path := writeConfig(t, `
api:
  base_url: ${TEST_API_URL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://store.example.com/api" {
		t.Errorf("Expected URL https://store.example.com/api, got %s", cfg.API.BaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://store.example.com/api
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.API.Timeout.Std() != 10*time.Second {
		t.Errorf("Timeout = %v, want default 10s", cfg.API.Timeout)
	}
	if cfg.Cache.StaleTime.Std() != 5*time.Minute {
		t.Errorf("StaleTime = %v, want default 5m", cfg.Cache.StaleTime)
	}
	if cfg.Cache.RefreshInterval.Std() != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want default 30s", cfg.Cache.RefreshInterval)
	}
	if cfg.Auth.TokenFile == "" {
		t.Error("TokenFile default not applied")
	}
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded without api.base_url")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
api:
  base_url: https://store.example.com/api
  timeout: 5s
redis:
  url: redis://localhost:6379/0
cache:
  stale_time: 1m
  refresh_interval: 10s
auth:
  token_file: /tmp/storefront-token
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.API.Timeout.Std() != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("Redis URL = %q", cfg.Redis.URL)
	}
	if cfg.Cache.StaleTime.Std() != time.Minute {
		t.Errorf("StaleTime = %v, want 1m", cfg.Cache.StaleTime)
	}
	if cfg.Auth.TokenFile != "/tmp/storefront-token" {
		t.Errorf("TokenFile = %q", cfg.Auth.TokenFile)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}
