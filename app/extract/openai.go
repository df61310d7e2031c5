package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/lysyi3m/fin-comb/app/feed"
	"github.com/sashabaranov/go-openai"
)

type OpenAIExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIExtractor(cfg Config) (*OpenAIExtractor, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIExtractor{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (e *OpenAIExtractor) Extract(ctx context.Context, content string) (feed.Analysis, error) {
	if strings.TrimSpace(content) == "" {
		return feed.Analysis{}, fmt.Errorf("empty content")
	}

	schema := analysisSchema()

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(content)},
		},
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "article_analysis",
				Schema: schema,
				Strict: true,
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return feed.Analysis{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return feed.Analysis{}, fmt.Errorf("no choices in response")
	}

	var analysis feed.Analysis
	if err := schema.Unmarshal(cleanJSONResponse(resp.Choices[0].Message.Content), &analysis); err != nil {
		return feed.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	return analysis, nil
}
