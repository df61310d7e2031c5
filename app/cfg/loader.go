package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Run configuration
	Provider     string `long:"provider" env:"PROVIDER" default:"cnbc" description:"Provider id from the catalog"`
	Topic        string `long:"topic" env:"TOPIC" default:"technology" description:"Provider topic to aggregate"`
	MaxItems     int    `long:"max-items" env:"MAX_ITEMS" default:"3" description:"Maximum number of items to enrich (0 for no limit)"`
	WindowHours  int    `long:"window-hours" env:"WINDOW_HOURS" default:"24" description:"Recency window in hours"`
	Concurrency  int    `long:"concurrency" env:"CONCURRENCY" default:"4" description:"Number of items enriched in parallel"`
	RunTimeout   int    `long:"run-timeout" env:"RUN_TIMEOUT" default:"300" description:"Run timeout in seconds"`
	FailFast     bool   `long:"fail-fast" env:"FAIL_FAST" description:"Abort the run on the first enrichment failure"`
	OutputDir    string `long:"output-dir" env:"OUTPUT_DIR" default:"output" description:"Directory for run artifacts"`
	OutputFormat string `long:"output-format" env:"OUTPUT_FORMAT" default:"json" choice:"json" choice:"rss" description:"Artifact format"`
	ProvidersDir string `long:"providers-dir" env:"PROVIDERS_DIR" description:"Directory with provider profiles (embedded catalog if empty)"`
	SettingsFile string `long:"settings" env:"SETTINGS_FILE" description:"YAML file with collaborator settings"`

	// Server configuration
	Serve        bool   `long:"serve" env:"SERVE" description:"Start the HTTP API instead of a single run"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3" description:"User agent string for HTTP requests"`
	HTTPTimeout int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"Per-request HTTP timeout in seconds"`
	Timezone    string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug       bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogFormat   string `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.WindowHours <= 0 {
		return nil, fmt.Errorf("window hours must be positive, got %d", raw.WindowHours)
	}

	cfg := &Cfg{
		Provider:     raw.Provider,
		Topic:        raw.Topic,
		MaxItems:     raw.MaxItems,
		Window:       time.Duration(raw.WindowHours) * time.Hour,
		Concurrency:  raw.Concurrency,
		RunTimeout:   time.Duration(raw.RunTimeout) * time.Second,
		FailFast:     raw.FailFast,
		OutputDir:    raw.OutputDir,
		OutputFormat: raw.OutputFormat,
		ProvidersDir: raw.ProvidersDir,
		SettingsFile: raw.SettingsFile,
		Serve:        raw.Serve,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		HTTPTimeout:  time.Duration(raw.HTTPTimeout) * time.Second,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		LogFormat:    raw.LogFormat,
		Version:      GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
