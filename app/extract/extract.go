package extract

import (
	"context"
	"fmt"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
)

type Config struct {
	Backend      string
	Model        string
	Temperature  float64
	MaxTokens    int
	OpenAIKey    string
	AnthropicKey string
	BaseURL      string
}

type Extractor interface {
	Extract(ctx context.Context, content string) (feed.Analysis, error)
}

var (
	_ Extractor = (*OpenAIExtractor)(nil)
	_ Extractor = (*AnthropicExtractor)(nil)
)

func New(cfg Config) (Extractor, error) {
	switch cfg.Backend {
	case BackendOpenAI, "":
		return NewOpenAIExtractor(cfg)
	case BackendAnthropic:
		return NewAnthropicExtractor(cfg)
	default:
		return nil, fmt.Errorf("unsupported extraction backend: %s", cfg.Backend)
	}
}
