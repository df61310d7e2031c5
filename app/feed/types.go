package feed

import (
	"time"
)

// Feed processing types

type RawItem struct {
	Title       string
	Link        string
	PubDate     string // as found in the feed, parsed later by the Filterer
	Description string
	Source      string
	GUID        string
	MediaURL    string
	MediaCredit string
}

type FilteredItem struct {
	RawItem
	PublishedAt time.Time // UTC
}

type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Ticker struct {
	Symbol string `json:"ticker"`
}

// Analysis is the raw extraction result, before normalization.
type Analysis struct {
	Stocks        []Ticker `json:"stocks"`
	MarketUpdate  string   `json:"market_update"`
	InvestorTypes []string `json:"investor_types"`
}

type Article struct {
	Title           string    `json:"title"`
	Link            string    `json:"link"`
	PublicationDate string    `json:"publication_date"`
	PublishedAt     time.Time `json:"published_at"`
	Topic           string    `json:"topic"`
	SourceID        string    `json:"source_id"`
	Summary         string    `json:"summary"`
	Sentiment       Sentiment `json:"sentiment"`
	Tickers         []string  `json:"tickers"`
	MarketUpdate    string    `json:"market_update"`
	InvestorTypes   []string  `json:"investor_types"`
	MediaURL        string    `json:"media_url,omitempty"`
	MediaCredit     string    `json:"media_credit,omitempty"`
	Degraded        bool      `json:"degraded"`
}

type WarningStage string

const (
	StageTimestamp WarningStage = "timestamp"
	StageSummarize WarningStage = "summarize"
	StageSentiment WarningStage = "sentiment"
	StageExtract   WarningStage = "extract"
	StageValidate  WarningStage = "validate"
)

type Warning struct {
	Stage   WarningStage `json:"stage"`
	Link    string       `json:"link,omitempty"`
	Title   string       `json:"title,omitempty"`
	Message string       `json:"message"`
}

type RunStats struct {
	Parsed      int `json:"parsed"`
	InWindow    int `json:"in_window"`
	Stale       int `json:"stale"`
	Unparseable int `json:"unparseable"`
	Enriched    int `json:"enriched"`
	Degraded    int `json:"degraded"`
}

type RunOutput struct {
	RunID     string        `json:"run_id"`
	Provider  string        `json:"provider"`
	Topic     string        `json:"topic"`
	SourceID  string        `json:"source_id"`
	CreatedAt time.Time     `json:"created_at"`
	Window    time.Duration `json:"-"`
	MaxItems  int           `json:"max_items"`
	Articles  []Article     `json:"articles"`
	Warnings  []Warning     `json:"warnings"`
	Stats     RunStats      `json:"stats"`
}

// Provider profile types

type Format string

const (
	FormatRSS  Format = "rss"
	FormatAtom Format = "atom"
)

const DefaultFeedKind = "investing_feeds"

type Profile struct {
	ID          string            // Derived from filename (without .yml extension)
	Name        string            `yaml:"name"`
	Format      Format            `yaml:"format"`
	URLTemplate string            `yaml:"url_template"`
	ItemPath    string            `yaml:"item_path"`
	Namespaces  []string          `yaml:"namespaces"`
	FeedKind    string            `yaml:"feed_kind"`
	Topics      map[string]string `yaml:"topics"`
}

// SourceID identifies the origin of an article, e.g. "CNBC.investing_feeds.technology".
func (p *Profile) SourceID(topic string) string {
	return p.Name + "." + p.FeedKind + "." + topic
}
