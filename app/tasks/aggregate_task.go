package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const DefaultMaxItems = 3

type RunRequest struct {
	Provider string
	Topic    string
	MaxItems int           // <= 0 means no bound
	Window   time.Duration // <= 0 means feed.DefaultWindow
}

type AggregatorOptions struct {
	Concurrency    int
	RunTimeout     time.Duration
	FailFast       bool
	SentimentInput string
	Metrics        MetricsRecorder
	Now            func() time.Time
}

// Aggregator holds everything a run needs. It is safe for concurrent runs.
type Aggregator struct {
	catalog  *feed.Catalog
	parser   *feed.Parser
	filterer *feed.Filterer
	enricher *Enricher
	fetcher  Fetcher
	sink     Sink
	metrics  MetricsRecorder
	opts     AggregatorOptions
}

func NewAggregator(catalog *feed.Catalog, parser *feed.Parser, filterer *feed.Filterer, collab Collaborators, opts AggregatorOptions) *Aggregator {
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Aggregator{
		catalog:  catalog,
		parser:   parser,
		filterer: filterer,
		enricher: NewEnricher(collab, opts.Metrics, EnricherOptions{SentimentInput: opts.SentimentInput, FailFast: opts.FailFast}),
		fetcher:  collab.Fetcher,
		sink:     collab.Sink,
		metrics:  opts.Metrics,
		opts:     opts,
	}
}

// Run executes one aggregation and returns the written output with its artifact path.
func (a *Aggregator) Run(ctx context.Context, req RunRequest) (*feed.RunOutput, string, error) {
	task := NewAggregateTask(req, a)
	task.Start()

	err := task.Execute(ctx)

	a.metrics.RunFinished(req.Provider, outcome(err), task.GetDuration())
	if err != nil {
		slog.Error("Task failed", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceID(), "error", err)
		return nil, "", err
	}

	slog.Info("Task completed", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceID(), "articles", len(task.Output().Articles), "warnings", len(task.Output().Warnings), "path", task.Path(), "duration", task.GetDuration())

	return task.Output(), task.Path(), nil
}

type AggregateTask struct {
	Task
	Request    RunRequest
	aggregator *Aggregator
	output     *feed.RunOutput
	path       string
}

func NewAggregateTask(req RunRequest, aggregator *Aggregator) *AggregateTask {
	return &AggregateTask{
		Task:       NewTask(TaskTypeAggregateFeed, req.Provider+"/"+req.Topic),
		Request:    req,
		aggregator: aggregator,
	}
}

// Output is nil unless Execute succeeded.
func (t *AggregateTask) Output() *feed.RunOutput {
	return t.output
}

func (t *AggregateTask) Path() string {
	return t.path
}

func (t *AggregateTask) Execute(ctx context.Context) error {
	a := t.aggregator
	req := t.Request

	profile, url, err := a.catalog.Resolve(req.Provider, req.Topic)
	if err != nil {
		return err
	}
	t.SourceID = profile.SourceID(req.Topic)

	if a.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RunTimeout)
		defer cancel()
	}

	data, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	items, err := a.parser.Run(data, profile)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	a.metrics.ItemsParsed(profile.ID, len(items))

	window := req.Window
	if window <= 0 {
		window = feed.DefaultWindow
	}

	now := a.opts.Now().UTC()
	filtered, report := a.filterer.Run(items, window, now)
	a.metrics.ItemsDropped(profile.ID, "stale", report.Stale)
	a.metrics.ItemsDropped(profile.ID, "unparseable", report.Unparseable)

	if req.MaxItems > 0 && len(filtered) > req.MaxItems {
		a.metrics.ItemsDropped(profile.ID, "bound", len(filtered)-req.MaxItems)
		filtered = filtered[:req.MaxItems]
	}

	slog.Debug("Feed filtered", "source", t.SourceID, "parsed", report.Total, "in_window", report.Kept, "stale", report.Stale, "unparseable", report.Unparseable, "selected", len(filtered))

	enrichTasks := make([]*EnrichItemTask, len(filtered))
	poolTasks := make([]TaskInterface, len(filtered))
	for i, item := range filtered {
		enrichTasks[i] = NewEnrichItemTask(i, item, req.Topic, profile, a.enricher)
		poolTasks[i] = enrichTasks[i]
	}

	if err := NewPool(a.opts.Concurrency, a.opts.FailFast).Run(ctx, poolTasks); err != nil {
		return fmt.Errorf("failed to enrich items: %w", err)
	}

	warnings := append([]feed.Warning{}, report.Warnings...)
	articles := make([]feed.Article, 0, len(enrichTasks))
	degraded := 0
	for _, et := range enrichTasks {
		article := feed.Normalize(et.Article)
		if article.Degraded {
			degraded++
		}
		articles = append(articles, article)
		warnings = append(warnings, et.Warnings...)
	}

	out := &feed.RunOutput{
		RunID:     t.ID,
		Provider:  profile.ID,
		Topic:     req.Topic,
		SourceID:  t.SourceID,
		CreatedAt: now,
		Window:    window,
		MaxItems:  req.MaxItems,
		Articles:  articles,
		Warnings:  warnings,
		Stats: feed.RunStats{
			Parsed:      report.Total,
			InWindow:    report.Kept,
			Stale:       report.Stale,
			Unparseable: report.Unparseable,
			Enriched:    len(articles) - degraded,
			Degraded:    degraded,
		},
	}

	path, err := a.sink.Write(out)
	if err != nil {
		return err
	}
	a.metrics.ArticlesEmitted(profile.ID, len(articles))

	t.output = out
	t.path = path

	return nil
}

func outcome(err error) string {
	var (
		lookupErr    *feed.CatalogLookupError
		transportErr *feed.TransportError
		parseErr     *feed.ParseError
		enrichErr    *feed.EnrichmentFailure
		sinkErr      *feed.SinkWriteError
	)

	switch {
	case err == nil:
		return "success"
	case errors.As(err, &lookupErr):
		return "catalog_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &enrichErr):
		return "enrichment_error"
	case errors.As(err, &sinkErr):
		return "sink_error"
	default:
		return "error"
	}
}
