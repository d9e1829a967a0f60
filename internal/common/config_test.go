package common

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()
	if cfg.Vision.Provider != "openai" {
		t.Fatalf("provider default: got %q", cfg.Vision.Provider)
	}
	if cfg.Vision.APIKey != "sk-test" {
		t.Fatalf("api key fallback: got %q", cfg.Vision.APIKey)
	}
	if cfg.Vision.Model != "gpt-4o-mini" {
		t.Fatalf("model default: got %q", cfg.Vision.Model)
	}
	if cfg.Vision.Timeout != 45*time.Second {
		t.Fatalf("timeout default: got %v", cfg.Vision.Timeout)
	}
	if cfg.OCR.Tesseract != "tesseract" || cfg.OCR.Lang != "eng" {
		t.Fatalf("ocr defaults: %+v", cfg.OCR)
	}
	if cfg.History.DBPath == "" {
		t.Fatal("expected a default history db path")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_ProviderKeyFallback(t *testing.T) {
	t.Setenv("SNAPSORT_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "or-test")

	cfg := LoadConfig()
	if cfg.Vision.APIKey != "or-test" {
		t.Fatalf("expected openrouter key fallback, got %q", cfg.Vision.APIKey)
	}
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("SNAPSORT_API_KEY", "explicit")
	t.Setenv("OPENAI_API_KEY", "fallback")

	cfg := LoadConfig()
	if cfg.Vision.APIKey != "explicit" {
		t.Fatalf("expected SNAPSORT_API_KEY to win, got %q", cfg.Vision.APIKey)
	}
}

func TestValidate_Failures(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()
	cfg.Vision.Provider = "mystery"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = LoadConfig()
	cfg.Vision.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestRateLimiter(t *testing.T) {
	v := VisionConfig{RatePerSec: 2, Burst: 4}
	if v.RateLimiter() == nil {
		t.Fatal("expected limiter")
	}
	v = VisionConfig{RatePerSec: 0}
	if v.RateLimiter() != nil {
		t.Fatal("expected nil limiter when rate is disabled")
	}
	v = VisionConfig{RatePerSec: 1, Burst: 0}
	if lim := v.RateLimiter(); lim == nil || lim.Burst() != 1 {
		t.Fatal("expected burst floor of 1")
	}
}
