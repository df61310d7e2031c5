package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FINCOMB_"

func DefaultSettings() *Settings {
	return &Settings{
		SentimentEndpoint:     "https://api-inference.huggingface.co/models",
		SentimentModel:        "mrm8488/distilroberta-finetuned-financial-news-sentiment-analysis",
		SentimentInput:        "content",
		ExtractionBackend:     "openai",
		ExtractionTemperature: 0.0000001,
		ExtractionMaxTokens:   1024,
		SummarySentences:      5,
		RetryMax:              2,
		RetryBaseDelayMS:      500,
	}
}

// LoadSettings layers defaults, the YAML file at path (if any) and
// FINCOMB_* environment variables, lowest to highest precedence.
// Well-known API key variables fill keys left empty.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load settings file %s: %w", path, err)
		}
	}

	// FINCOMB_OPENAI_KEY -> openai_key
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load settings from environment: %w", err)
	}

	settings := *DefaultSettings()
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	settings.OpenAIKey = cmp.Or(settings.OpenAIKey, os.Getenv("OPENAI_API_KEY"))
	settings.AnthropicKey = cmp.Or(settings.AnthropicKey, os.Getenv("ANTHROPIC_API_KEY"))
	settings.SentimentToken = cmp.Or(settings.SentimentToken, os.Getenv("HF_TOKEN"))

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (s *Settings) validate() error {
	switch s.SentimentInput {
	case "content", "title":
	default:
		return fmt.Errorf("sentiment_input must be content or title, got %q", s.SentimentInput)
	}

	switch s.ExtractionBackend {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("extraction_backend must be openai or anthropic, got %q", s.ExtractionBackend)
	}

	if s.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative, got %d", s.RetryMax)
	}

	return nil
}
