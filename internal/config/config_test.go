package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE", "")
	t.Setenv("TOKEN_STORE", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base url: got %s", cfg.API.BaseURL)
	}
	if cfg.Token.Store != "file" {
		t.Errorf("token store: got %s", cfg.Token.Store)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("timeout: got %v", cfg.API.Timeout)
	}
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("BOOKING_HOST", "api.example.test")
	t.Setenv("API_BASE", "")
	t.Setenv("TOKEN_STORE", "")
	p := writeConfig(t, `
api:
  base_url: https://${BOOKING_HOST}
  timeout: 3s
token:
  store: redis
redis:
  address: cache:6379
  db: 2
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.test" {
		t.Errorf("base url: got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("timeout: got %v", cfg.API.Timeout)
	}
	if cfg.Token.Store != "redis" || cfg.Redis.Address != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis config not applied: %+v %+v", cfg.Token, cfg.Redis)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "api:\n  base_url: http://from-file\n")
	t.Setenv("API_BASE", "http://from-env")
	t.Setenv("TOKEN_STORE", "")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://from-env" {
		t.Errorf("expected env to win, got %s", cfg.API.BaseURL)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"TOKEN_STORE": "sqlite"}},
		{"bad timeout", map[string]string{"API_TIMEOUT": "soon"}},
		{"bad redis db", map[string]string{"REDIS_DB": "two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_BASE", "")
			t.Setenv("TOKEN_STORE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Setenv("API_BASE", "")
	t.Setenv("TOKEN_STORE", "")
	p := writeConfig(t, "api: [unterminated")
	if _, err := Load(p); err == nil {
		t.Fatal("expected parse error")
	}
}
