package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("expected default addr 0.0.0.0:8000, got %s", cfg.Addr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment by default")
	}
	if cfg.STT.DefaultModel != "whisper-1" {
		t.Errorf("expected default model whisper-1, got %s", cfg.STT.DefaultModel)
	}
	if cfg.STT.Backend != "openai" {
		t.Errorf("expected openai backend, got %s", cfg.STT.Backend)
	}
	if cfg.Media.FFmpegPath != "ffmpeg" {
		t.Errorf("expected ffmpeg binary, got %s", cfg.Media.FFmpegPath)
	}
	if cfg.RateLimit.RPS != 0 {
		t.Errorf("expected rate limiting disabled, got %v rps", cfg.RateLimit.RPS)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected CORS origins [*], got %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STT_BACKEND", "local")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("expected 2.5 rps, got %v", cfg.RateLimit.RPS)
	}
	// local backend needs no credential
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SERVER_PORT")
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	t.Setenv("STT_BACKEND", "carrier-pigeon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
