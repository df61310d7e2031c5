package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const (
	SentimentInputContent = "content"
	SentimentInputTitle   = "title"
)

type EnricherOptions struct {
	SentimentInput string // "content" (title + summary) or "title"
	FailFast       bool
}

// Enricher turns one filtered item into a draft article by calling the
// summarizer, sentiment classifier and signal extractor exactly once each.
type Enricher struct {
	summarizer Summarizer
	sentiment  SentimentClassifier
	extractor  SignalExtractor
	metrics    MetricsRecorder
	opts       EnricherOptions
}

func NewEnricher(collab Collaborators, metrics MetricsRecorder, opts EnricherOptions) *Enricher {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if opts.SentimentInput == "" {
		opts.SentimentInput = SentimentInputContent
	}

	return &Enricher{
		summarizer: collab.Summarizer,
		sentiment:  collab.Sentiment,
		extractor:  collab.Extractor,
		metrics:    metrics,
		opts:       opts,
	}
}

// Run never fails in the default policy: a collaborator failure degrades the
// matching field and is reported as a warning. With FailFast the first
// failure is returned as *feed.EnrichmentFailure.
func (e *Enricher) Run(ctx context.Context, item feed.FilteredItem, topic string, profile *feed.Profile) (feed.Article, []feed.Warning, error) {
	article := feed.Article{
		Title:           item.Title,
		Link:            item.Link,
		PublicationDate: item.PubDate,
		PublishedAt:     item.PublishedAt,
		Topic:           topic,
		SourceID:        profile.SourceID(topic),
		MediaURL:        item.MediaURL,
		MediaCredit:     item.MediaCredit,
		Tickers:         []string{},
		InvestorTypes:   []string{},
	}

	var warnings []feed.Warning
	fail := func(stage feed.WarningStage, err error) error {
		failure := &feed.EnrichmentFailure{Stage: stage, Link: item.Link, Err: err}
		warnings = append(warnings, feed.Warning{Stage: stage, Link: item.Link, Title: item.Title, Message: err.Error()})
		article.Degraded = true
		e.metrics.EnrichmentFailed(string(stage))
		slog.Warn("Enrichment step failed", "stage", stage, "link", item.Link, "error", err)
		if e.opts.FailFast {
			return failure
		}
		return nil
	}

	summary, err := call(ctx, func(ctx context.Context) (string, error) {
		return e.summarizer.Summarize(ctx, item.Link)
	})
	if err != nil {
		if ferr := fail(feed.StageSummarize, err); ferr != nil {
			return article, warnings, ferr
		}
		summary = ""
	}
	article.Summary = summary

	content := strings.TrimSpace(item.Title + " " + summary)

	sentimentText := content
	if e.opts.SentimentInput == SentimentInputTitle {
		sentimentText = item.Title
	}

	sentiment, err := call(ctx, func(ctx context.Context) (feed.Sentiment, error) {
		return e.sentiment.Classify(ctx, sentimentText)
	})
	if err != nil {
		if ferr := fail(feed.StageSentiment, err); ferr != nil {
			return article, warnings, ferr
		}
		sentiment = feed.Sentiment{}
	}
	article.Sentiment = sentiment

	analysis, err := call(ctx, func(ctx context.Context) (feed.Analysis, error) {
		return e.extractor.Extract(ctx, content)
	})
	if err != nil {
		if ferr := fail(feed.StageExtract, err); ferr != nil {
			return article, warnings, ferr
		}
		return article, warnings, nil
	}

	analysis, validation := validateAnalysis(analysis)
	for _, msg := range validation {
		warnings = append(warnings, feed.Warning{Stage: feed.StageValidate, Link: item.Link, Title: item.Title, Message: msg})
	}

	article.Tickers = analysis.Symbols()
	article.MarketUpdate = analysis.MarketUpdate
	article.InvestorTypes = analysis.InvestorTypes

	return article, warnings, nil
}

// call skips the collaborator once the run has been cancelled.
func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, fmt.Errorf("cancelled: %w", err)
	}
	return fn(ctx)
}

// validateAnalysis maps the extraction result onto the closed vocabularies.
func validateAnalysis(a feed.Analysis) (feed.Analysis, []string) {
	var problems []string

	if !feed.IsMarketUpdateType(a.MarketUpdate) {
		problems = append(problems, fmt.Sprintf("unknown market update %q replaced with %q", a.MarketUpdate, feed.MarketUpdateOther))
		a.MarketUpdate = feed.MarketUpdateOther
	}

	investorTypes := make([]string, 0, len(a.InvestorTypes))
	for _, it := range a.InvestorTypes {
		it = strings.TrimSpace(it)
		if !feed.IsInvestorType(it) {
			problems = append(problems, fmt.Sprintf("unknown investor type %q dropped", it))
			continue
		}
		investorTypes = append(investorTypes, it)
	}

	a.InvestorTypes = investorTypes
	a = feed.NormalizeAnalysis(a)

	// The cap is only a prompt instruction; every valid type is kept.
	if len(a.InvestorTypes) > feed.MaxInvestorTypes {
		problems = append(problems, fmt.Sprintf("%d investor types returned, expected at most %d", len(a.InvestorTypes), feed.MaxInvestorTypes))
	}

	return a, problems
}
