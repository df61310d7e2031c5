package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lysyi3m/fin-comb/app/api"
	"github.com/lysyi3m/fin-comb/app/cfg"
	"github.com/lysyi3m/fin-comb/app/extract"
	"github.com/lysyi3m/fin-comb/app/feed"
	"github.com/lysyi3m/fin-comb/app/fetch"
	"github.com/lysyi3m/fin-comb/app/logging"
	"github.com/lysyi3m/fin-comb/app/metrics"
	"github.com/lysyi3m/fin-comb/app/output"
	"github.com/lysyi3m/fin-comb/app/sentiment"
	"github.com/lysyi3m/fin-comb/app/summarize"
	"github.com/lysyi3m/fin-comb/app/tasks"
)

func main() {
	godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if appCfg == nil {
		return
	}

	logger, err := logging.New(appCfg.LogFormat, appCfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	settings, err := cfg.LoadSettings(appCfg.SettingsFile)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(2)
	}

	catalog := feed.NewCatalog(appCfg.ProvidersDir)
	if err := catalog.Run(); err != nil {
		slog.Error("Failed to load provider catalog", "dir", appCfg.ProvidersDir, "error", err)
		os.Exit(2)
	}
	slog.Info("Provider catalog loaded", "providers", catalog.GetProfileCount())

	collector, err := metrics.NewCollector()
	if err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(2)
	}

	collab, err := buildCollaborators(appCfg, settings)
	if err != nil {
		slog.Error("Failed to initialize collaborators", "error", err)
		os.Exit(2)
	}

	aggregator := tasks.NewAggregator(catalog, feed.NewParser(), feed.NewFilterer(), collab, tasks.AggregatorOptions{
		Concurrency:    appCfg.Concurrency,
		RunTimeout:     appCfg.RunTimeout,
		FailFast:       appCfg.FailFast,
		SentimentInput: settings.SentimentInput,
		Metrics:        collector,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.Serve {
		if err := serve(ctx, appCfg, catalog, aggregator, collector); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
		return
	}

	_, path, err := aggregator.Run(ctx, tasks.RunRequest{
		Provider: appCfg.Provider,
		Topic:    appCfg.Topic,
		MaxItems: appCfg.MaxItems,
		Window:   appCfg.Window,
	})
	if err != nil {
		slog.Error("Aggregation run failed", "provider", appCfg.Provider, "topic", appCfg.Topic, "error", err)
		os.Exit(1)
	}

	fmt.Println(path)
}

func buildCollaborators(appCfg *cfg.Cfg, settings *cfg.Settings) (tasks.Collaborators, error) {
	retry := fetch.DefaultRetryPolicy()
	retry.MaxRetries = settings.RetryMax
	retry.InitialBackoff = time.Duration(settings.RetryBaseDelayMS) * time.Millisecond

	fetcher := fetch.NewFetcher(&http.Client{}, appCfg.UserAgent, appCfg.HTTPTimeout, retry)

	extractor, err := extract.New(extract.Config{
		Backend:      settings.ExtractionBackend,
		Model:        settings.ExtractionModel,
		Temperature:  settings.ExtractionTemperature,
		MaxTokens:    settings.ExtractionMaxTokens,
		OpenAIKey:    settings.OpenAIKey,
		AnthropicKey: settings.AnthropicKey,
		BaseURL:      settings.ExtractionBaseURL,
	})
	if err != nil {
		return tasks.Collaborators{}, fmt.Errorf("failed to create extractor: %w", err)
	}

	sink, err := output.NewFileSink(appCfg.OutputDir, appCfg.OutputFormat, appCfg.Version)
	if err != nil {
		return tasks.Collaborators{}, fmt.Errorf("failed to create output sink: %w", err)
	}

	return tasks.Collaborators{
		Fetcher:    fetcher,
		Summarizer: summarize.NewSummarizer(fetcher, settings.SummarySentences),
		Sentiment:  sentiment.NewClient(settings.SentimentEndpoint, settings.SentimentModel, settings.SentimentToken, appCfg.HTTPTimeout),
		Extractor:  extractor,
		Sink:       sink,
	}, nil
}

func serve(ctx context.Context, appCfg *cfg.Cfg, catalog *feed.Catalog, aggregator *tasks.Aggregator, collector *metrics.Collector) error {
	handler := api.NewHandler(catalog, aggregator, api.RunDefaults{MaxItems: appCfg.MaxItems, Window: appCfg.Window}, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, collector, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.RunTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")

	return nil
}
