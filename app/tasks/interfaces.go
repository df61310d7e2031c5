package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, link string) (string, error)
}

type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (feed.Sentiment, error)
}

type SignalExtractor interface {
	Extract(ctx context.Context, content string) (feed.Analysis, error)
}

type Sink interface {
	Write(out *feed.RunOutput) (string, error)
}

// Collaborators are constructed once at startup and shared read-only by all runs.
type Collaborators struct {
	Fetcher    Fetcher
	Summarizer Summarizer
	Sentiment  SentimentClassifier
	Extractor  SignalExtractor
	Sink       Sink
}

type MetricsRecorder interface {
	ItemsParsed(provider string, n int)
	ItemsDropped(provider, reason string, n int)
	EnrichmentFailed(stage string)
	ArticlesEmitted(provider string, n int)
	RunFinished(provider, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ItemsParsed(string, int) {}
func (nopRecorder) ItemsDropped(string, string, int) {}
func (nopRecorder) EnrichmentFailed(string) {}
func (nopRecorder) ArticlesEmitted(string, int) {}
func (nopRecorder) RunFinished(string, string, time.Duration) {}
