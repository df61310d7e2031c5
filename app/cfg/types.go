package cfg

import "time"

type Cfg struct {
	// Run configuration
	Provider     string
	Topic        string
	MaxItems     int
	Window       time.Duration
	Concurrency  int
	RunTimeout   time.Duration
	FailFast     bool
	OutputDir    string
	OutputFormat string
	ProvidersDir string
	SettingsFile string

	// Server configuration
	Serve        bool
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent   string
	HTTPTimeout time.Duration
	Timezone    string
	Debug       bool
	LogFormat   string
	Version     string
}

// Settings tune the enrichment collaborators. They are layered from
// defaults, an optional YAML file and FINCOMB_* environment variables.
type Settings struct {
	SentimentEndpoint string `koanf:"sentiment_endpoint"`
	SentimentModel    string `koanf:"sentiment_model"`
	SentimentToken    string `koanf:"sentiment_token"`
	SentimentInput    string `koanf:"sentiment_input"`

	ExtractionBackend     string  `koanf:"extraction_backend"`
	ExtractionModel       string  `koanf:"extraction_model"`
	ExtractionTemperature float64 `koanf:"extraction_temperature"`
	ExtractionMaxTokens   int     `koanf:"extraction_max_tokens"`
	ExtractionBaseURL     string  `koanf:"extraction_base_url"`
	OpenAIKey             string  `koanf:"openai_key"`
	AnthropicKey          string  `koanf:"anthropic_key"`

	SummarySentences int `koanf:"summary_sentences"`

	RetryMax         int `koanf:"retry_max"`
	RetryBaseDelayMS int `koanf:"retry_base_delay_ms"`
}
