package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Provider != "cnbc" {
		t.Errorf("Expected provider 'cnbc', got '%s'", cfg.Provider)
	}
	if cfg.MaxItems != 3 {
		t.Errorf("Expected max items 3, got %d", cfg.MaxItems)
	}
	if cfg.Window != 24*time.Hour {
		t.Errorf("Expected 24h window, got %s", cfg.Window)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", cfg.Concurrency)
	}
	if cfg.RunTimeout != 300*time.Second {
		t.Errorf("Expected run timeout 300s, got %s", cfg.RunTimeout)
	}
	if cfg.OutputDir != "output" || cfg.OutputFormat != "json" {
		t.Errorf("Unexpected output defaults: %s/%s", cfg.OutputDir, cfg.OutputFormat)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected HTTP timeout 30s, got %s", cfg.HTTPTimeout)
	}
	if cfg.Serve || cfg.FailFast {
		t.Error("Expected serve and fail-fast to be off by default")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadFlagsAndEnv(t *testing.T) {
	t.Setenv("TOPIC", "earnings")
	t.Setenv("CONCURRENCY", "8")

	cfg, err := load([]string{"--provider", "wsj", "--max-items", "0", "--window-hours", "6", "--output-format", "rss", "--fail-fast"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Provider != "wsj" || cfg.Topic != "earnings" {
		t.Errorf("Unexpected provider/topic: %s/%s", cfg.Provider, cfg.Topic)
	}
	if cfg.MaxItems != 0 {
		t.Errorf("Expected max items 0, got %d", cfg.MaxItems)
	}
	if cfg.Window != 6*time.Hour {
		t.Errorf("Expected 6h window, got %s", cfg.Window)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Expected concurrency from env, got %d", cfg.Concurrency)
	}
	if cfg.OutputFormat != "rss" || !cfg.FailFast {
		t.Errorf("Unexpected output format/fail-fast: %s/%t", cfg.OutputFormat, cfg.FailFast)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	if _, err := load([]string{"--output-format", "csv"}); err == nil {
		t.Error("Expected unknown output format to fail")
	}
	if _, err := load([]string{"--window-hours", "0"}); err == nil {
		t.Error("Expected non-positive window to fail")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	settings, err := LoadSettings("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if settings.ExtractionBackend != "openai" {
		t.Errorf("Expected openai backend, got '%s'", settings.ExtractionBackend)
	}
	if settings.ExtractionTemperature != 0.0000001 {
		t.Errorf("Expected near-zero temperature, got %v", settings.ExtractionTemperature)
	}
	if settings.SentimentInput != "content" || settings.SummarySentences != 5 {
		t.Errorf("Unexpected defaults: %+v", settings)
	}
}

func TestLoadSettingsLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	content := `
extraction_backend: anthropic
extraction_model: claude-haiku-4-5
summary_sentences: 3
sentiment_input: title
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FINCOMB_SUMMARY_SENTENCES", "7")
	t.Setenv("FINCOMB_ANTHROPIC_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if settings.ExtractionBackend != "anthropic" || settings.ExtractionModel != "claude-haiku-4-5" {
		t.Errorf("Expected file values, got: %s/%s", settings.ExtractionBackend, settings.ExtractionModel)
	}
	if settings.SentimentInput != "title" {
		t.Errorf("Expected sentiment input from file, got '%s'", settings.SentimentInput)
	}
	if settings.SummarySentences != 7 {
		t.Errorf("Expected env to override file, got %d", settings.SummarySentences)
	}
	if settings.AnthropicKey != "sk-ant-test" {
		t.Errorf("Expected key fallback from ANTHROPIC_API_KEY, got '%s'", settings.AnthropicKey)
	}
	if settings.RetryMax != 2 {
		t.Errorf("Expected default retry max to survive, got %d", settings.RetryMax)
	}
}

func TestLoadSettingsValidation(t *testing.T) {
	t.Setenv("FINCOMB_SENTIMENT_INPUT", "body")
	if _, err := LoadSettings(""); err == nil {
		t.Error("Expected invalid sentiment input to fail")
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected missing settings file to fail")
	}
}
