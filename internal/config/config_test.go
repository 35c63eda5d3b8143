package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "crisis_ai_alerts" {
		t.Errorf("expected key crisis_ai_alerts, got %s", cfg.Storage.Key)
	}
	if cfg.Oracle.APIKey != "" {
		t.Errorf("expected oracle to be disabled by default")
	}
	if cfg.Oracle.Timeout != 30*time.Second {
		t.Errorf("expected 30s oracle timeout, got %s", cfg.Oracle.Timeout)
	}
	if cfg.Sources.USGSEnabled || cfg.Sources.GDACSEnabled {
		t.Errorf("expected feed pollers to be disabled by default")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("USGS_ENABLED", "true")
	t.Setenv("USGS_POLL_INTERVAL", "2m")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendRedis || cfg.Storage.RedisAddr != "cache:6380" || cfg.Storage.RedisDB != 3 {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Oracle.APIKey != "secret" {
		t.Errorf("expected api key from env")
	}
	if !cfg.Sources.USGSEnabled || cfg.Sources.USGSPollInterval != 2*time.Minute {
		t.Errorf("unexpected sources config: %+v", cfg.Sources)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text log format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_UnparsableValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("ORACLE_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Oracle.Timeout != 30*time.Second {
		t.Errorf("expected fallback timeout, got %s", cfg.Oracle.Timeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"port out of range", "SERVER_PORT", "70000", "invalid server port"},
		{"unknown backend", "STORAGE_BACKEND", "postgres", "invalid storage backend"},
		{"unknown log level", "LOG_LEVEL", "trace", "invalid log level"},
		{"unknown log format", "LOG_FORMAT", "xml", "invalid log format"},
		{"usgs interval too short", "USGS_POLL_INTERVAL", "30s", "USGS poll interval"},
		{"gdacs interval too short", "GDACS_POLL_INTERVAL", "10s", "GDACS poll interval"},
		{"zero workers", "WORKER_COUNT", "0", "worker count"},
		{"zero rate limit", "RATE_LIMIT_RPS", "0", "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
