package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("EXTRACT_CONCURRENCY", "")
	t.Setenv("EXTRACT_PAUSE_AFTER", "")
	t.Setenv("EXTRACT_COOLDOWN_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("GeminiModel mismatch: got %q", cfg.GeminiModel)
	}
	if cfg.ExtractConcurrency != 2 {
		t.Fatalf("ExtractConcurrency mismatch: got %d want 2", cfg.ExtractConcurrency)
	}
	if cfg.ExtractPauseAfter != 8 {
		t.Fatalf("ExtractPauseAfter mismatch: got %d want 8", cfg.ExtractPauseAfter)
	}
	if cfg.ExtractCooldown != 70*time.Second {
		t.Fatalf("ExtractCooldown mismatch: got %s want 70s", cfg.ExtractCooldown)
	}
}

func TestLoadConfigRequiresGeminiAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EXTRACT_CONCURRENCY", "4")
	t.Setenv("EXTRACT_PAUSE_AFTER", "12")
	t.Setenv("EXTRACT_COOLDOWN_SECONDS", "30")
	t.Setenv("EXTRACT_TIMEOUT_SECONDS", "15")
	t.Setenv("MAX_UPLOAD_MB", "2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ExtractConcurrency != 4 {
		t.Fatalf("ExtractConcurrency mismatch: got %d want 4", cfg.ExtractConcurrency)
	}
	if cfg.ExtractPauseAfter != 12 {
		t.Fatalf("ExtractPauseAfter mismatch: got %d want 12", cfg.ExtractPauseAfter)
	}
	if cfg.ExtractCooldown != 30*time.Second {
		t.Fatalf("ExtractCooldown mismatch: got %s want 30s", cfg.ExtractCooldown)
	}
	if cfg.ExtractTimeout != 15*time.Second {
		t.Fatalf("ExtractTimeout mismatch: got %s want 15s", cfg.ExtractTimeout)
	}
	if cfg.MaxUploadBytes != 2*1024*1024 {
		t.Fatalf("MaxUploadBytes mismatch: got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadConfigRejectsNonPositiveConcurrency(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EXTRACT_CONCURRENCY", "-1")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for non-positive EXTRACT_CONCURRENCY")
	}
}
