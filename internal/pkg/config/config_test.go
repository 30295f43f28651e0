package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Backend != BackendFile || cfg.Session.Key != "admin-auth-storage" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Storage.Cipher != "xchacha" || cfg.Storage.AgeWorkFactor != 15 {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.API.Timeout != 0 {
		t.Fatalf("expected no client timeout by default, got %s", cfg.API.Timeout)
	}
	if !strings.HasSuffix(cfg.Session.File, "storage.json") {
		t.Fatalf("unexpected session file: %s", cfg.Session.File)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ADMIN_API_BASE_URL":   "https://api.example.com/api",
		"ADMIN_STORAGE_SECRET": "s3cret",
		"ADMIN_STORAGE_CIPHER": "age",
		"SESSION_BACKEND":      "redis",
		"REDIS_ADDR":           "localhost:6380",
		"HTTP_TIMEOUT":         "15s",
		"API_RATE_LIMIT":       "2.5",
		"AUDIT_ENABLED":        "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com/api" || cfg.API.Timeout != 15*time.Second || cfg.API.RateLimit != 2.5 {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Storage.Cipher != "age" || cfg.Storage.Secret != "s3cret" {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
	if !cfg.AuditEnabled || cfg.Redis.Addr != "localhost:6380" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown backend":     {"SESSION_BACKEND": "s3"},
		"unknown cipher":      {"ADMIN_STORAGE_CIPHER": "rot13"},
		"redis without addr":  {"SESSION_BACKEND": "redis"},
		"negative rate limit": {"API_RATE_LIMIT": "-1"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
