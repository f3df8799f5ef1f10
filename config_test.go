package charcountd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Application.Host != "127.0.0.1" {
		t.Errorf("host = %q", cfg.Application.Host)
	}
	if cfg.Application.Port != 8000 {
		t.Errorf("port = %d", cfg.Application.Port)
	}
	if cfg.Application.MaxBodyBytes != 4096 {
		t.Errorf("maxBodyBytes = %d", cfg.Application.MaxBodyBytes)
	}
	if cfg.Addr() != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.RateLimit.Rps != 0 {
		t.Errorf("rate limit should default to disabled, rps = %v", cfg.RateLimit.Rps)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("application:\n  host: 0.0.0.0\n  port: 9000\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFromPath(path)
	if cfg.Application.Host != "0.0.0.0" || cfg.Application.Port != 9000 {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Application.MaxBodyBytes != 4096 {
		t.Errorf("maxBodyBytes = %d", cfg.Application.MaxBodyBytes)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHARCOUNTD_HOST", "10.1.2.3")
	t.Setenv("CHARCOUNTD_PORT", "7070")
	t.Setenv("CHARCOUNTD_BASE_URL", "https://example.test")
	t.Setenv("CHARCOUNTD_LOG_LEVEL", "warn")

	cfg := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.Addr() != "10.1.2.3:7070" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.Application.BaseURL != "https://example.test" {
		t.Errorf("baseUrl = %q", cfg.Application.BaseURL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
}

func TestEnvOverridesIgnoreBadPort(t *testing.T) {
	t.Setenv("CHARCOUNTD_PORT", "not-a-port")
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.Application.Port != 8000 {
		t.Errorf("port = %d, want default", cfg.Application.Port)
	}
}
