package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const (
	DefaultEndpoint = "https://api-inference.huggingface.co/models"
	DefaultModel    = "mrm8488/distilroberta-finetuned-financial-news-sentiment-analysis"

	// The model accepts 512 tokens; longer inputs are cut on a word boundary.
	maxInputChars = 1500
)

type Client struct {
	endpoint string
	model    string
	token    string
	http     *http.Client
}

func NewClient(endpoint, model, token string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		token:    token,
		http:     &http.Client{Timeout: timeout},
	}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest scoring label for text.
func (c *Client) Classify(ctx context.Context, text string) (feed.Sentiment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return feed.Sentiment{}, fmt.Errorf("empty input text")
	}

	payload := map[string]any{
		"inputs":  truncate(text, maxInputChars),
		"options": map[string]any{"wait_for_model": true},
	}

	var raw json.RawMessage
	if err := c.post(ctx, "/"+c.model, payload, &raw); err != nil {
		return feed.Sentiment{}, err
	}

	scores, err := decodeScores(raw)
	if err != nil {
		return feed.Sentiment{}, err
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	return feed.Sentiment{
		Label: strings.ToLower(best.Label),
		Score: clamp(best.Score),
	}, nil
}

// decodeScores accepts both the batched [[...]] and the flat [...] response shapes.
func decodeScores(raw json.RawMessage) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) > 0 && len(nested[0]) > 0 {
			return nested[0], nil
		}
	}

	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	return nil, fmt.Errorf("unexpected sentiment response: %s", truncate(string(raw), 200))
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.ToValidUTF8(cut, "")
}

func clamp(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
