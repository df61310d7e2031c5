package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lysyi3m/fin-comb/app/feed"
)

type AnthropicExtractor struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

func NewAnthropicExtractor(cfg Config) (*AnthropicExtractor, error) {
	if cfg.AnthropicKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = string(anthropic.ModelClaudeHaiku4_5)
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &AnthropicExtractor{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (e *AnthropicExtractor) Extract(ctx context.Context, content string) (feed.Analysis, error) {
	if strings.TrimSpace(content) == "" {
		return feed.Analysis{}, fmt.Errorf("empty content")
	}

	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(e.model),
		MaxTokens:   e.maxTokens,
		Temperature: anthropic.Float(e.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt + " Respond with a single JSON object and nothing else."},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(content))),
		},
	})
	if err != nil {
		return feed.Analysis{}, fmt.Errorf("messages API: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return feed.Analysis{}, fmt.Errorf("empty response from model")
	}

	var analysis feed.Analysis
	if err := json.Unmarshal([]byte(cleanJSONResponse(text.String())), &analysis); err != nil {
		return feed.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	return analysis, nil
}

// cleanJSONResponse strips markdown fences and any prose around the JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
		response = strings.TrimSpace(response)
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		response = response[start : end+1]
	}

	return response
}
