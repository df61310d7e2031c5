package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testItem struct {
	title   string
	link    string
	pubDate string
}

func ago(d time.Duration) string {
	return testNow.Add(-d).Format(time.RFC1123Z)
}

func rssFixture(items ...testItem) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/"><channel><title>Test</title>`)
	for _, it := range items {
		fmt.Fprintf(&b, "<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>", it.title, it.link, it.pubDate)
	}
	b.WriteString("</channel></rss>")
	return []byte(b.String())
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
	url   string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	f.url = url
	return f.data, f.err
}

type fakeSummarizer struct {
	fn    func(ctx context.Context, link string) (string, error)
	calls atomic.Int32
}

func (f *fakeSummarizer) Summarize(ctx context.Context, link string) (string, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(ctx, link)
	}
	return "Summary of " + link + ".", nil
}

type fakeSentiment struct {
	err   error
	calls atomic.Int32

	mu    sync.Mutex
	texts []string
}

func (f *fakeSentiment) Classify(ctx context.Context, text string) (feed.Sentiment, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return feed.Sentiment{}, f.err
	}
	return feed.Sentiment{Label: "positive", Score: 0.9}, nil
}

type fakeExtractor struct {
	fn    func(ctx context.Context, content string) (feed.Analysis, error)
	calls atomic.Int32
}

func (f *fakeExtractor) Extract(ctx context.Context, content string) (feed.Analysis, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(ctx, content)
	}
	return feed.Analysis{
		Stocks:        []feed.Ticker{{Symbol: "NVDA"}, {Symbol: "AAPL"}},
		MarketUpdate:  "Earnings Reports",
		InvestorTypes: []string{"Growth Investor"},
	}, nil
}

type fakeSink struct {
	err     error
	mu      sync.Mutex
	written []*feed.RunOutput
}

func (f *fakeSink) Write(out *feed.RunOutput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.written = append(f.written, out)
	return "output/" + out.Provider + "_" + out.Topic + ".json", nil
}

type fakes struct {
	fetcher    *fakeFetcher
	summarizer *fakeSummarizer
	sentiment  *fakeSentiment
	extractor  *fakeExtractor
	sink       *fakeSink
}

func newFakes(data []byte) *fakes {
	return &fakes{
		fetcher:    &fakeFetcher{data: data},
		summarizer: &fakeSummarizer{},
		sentiment:  &fakeSentiment{},
		extractor:  &fakeExtractor{},
		sink:       &fakeSink{},
	}
}

func (f *fakes) collaborators() Collaborators {
	return Collaborators{
		Fetcher:    f.fetcher,
		Summarizer: f.summarizer,
		Sentiment:  f.sentiment,
		Extractor:  f.extractor,
		Sink:       f.sink,
	}
}

var testProfile = &feed.Profile{
	ID:       "cnbc",
	Name:     "CNBC",
	Format:   feed.FormatRSS,
	FeedKind: feed.DefaultFeedKind,
	Topics:   map[string]string{"technology": "19854910"},
}
