package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data source kinds.
const (
	SourceCSV   = "csv"
	SourceYahoo = "yahoo"
	SourceREST  = "rest"
)

// Config holds all application configuration.
type Config struct {
	Inputs struct {
		PriceDir string `yaml:"price_dir"`
		NewsPath string `yaml:"news_path"`
	} `yaml:"inputs"`
	Outputs struct {
		Dir string `yaml:"dir"`
	} `yaml:"outputs"`
	DataSource struct {
		Kind    string   `yaml:"kind"`
		Symbols []string `yaml:"symbols"`
		Days    int      `yaml:"days"`
		BaseURL string   `yaml:"base_url"`
		APIKey  string   `yaml:"api_key"`
	} `yaml:"data_source"`
	Indicators struct {
		Backend string `yaml:"backend"`
	} `yaml:"indicators"`
	Sentiment struct {
		Strategy string `yaml:"strategy"`
	} `yaml:"sentiment"`
	Pipeline struct {
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Notify struct {
		Telegram struct {
			BotToken string `yaml:"bot_token"`
			ChatID   string `yaml:"chat_id"`
		} `yaml:"telegram"`
	} `yaml:"notify"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PRICE_DIR"); v != "" {
		cfg.Inputs.PriceDir = v
	}
	if v := os.Getenv("NEWS_PATH"); v != "" {
		cfg.Inputs.NewsPath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Outputs.Dir = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Kind = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("INDICATOR_BACKEND"); v != "" {
		cfg.Indicators.Backend = v
	}
	if v := os.Getenv("SENTIMENT_STRATEGY"); v != "" {
		cfg.Sentiment.Strategy = v
	}
	if v := os.Getenv("PIPELINE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Workers = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PIPELINE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Outputs.Dir == "" {
		cfg.Outputs.Dir = "output"
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = SourceCSV
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 365
	}
	if cfg.Indicators.Backend == "" {
		cfg.Indicators.Backend = "auto"
	}
	if cfg.Sentiment.Strategy == "" {
		cfg.Sentiment.Strategy = "auto"
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return cfg, nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// TelegramEnabled reports whether run reports are sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Notify.Telegram.BotToken != "" && c.Notify.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case SourceCSV:
		if c.Inputs.PriceDir == "" {
			return fmt.Errorf("inputs.price_dir is required for the csv data source")
		}
	case SourceYahoo, SourceREST:
		if len(c.DataSource.Symbols) == 0 {
			return fmt.Errorf("data_source.symbols is required for the %s data source", c.DataSource.Kind)
		}
		if c.DataSource.Kind == SourceREST && c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest data source")
		}
	default:
		return fmt.Errorf("data_source.kind must be csv, yahoo or rest, got %q", c.DataSource.Kind)
	}
	if c.Inputs.NewsPath == "" {
		return fmt.Errorf("inputs.news_path is required")
	}
	if c.DataSource.Days <= 0 {
		return fmt.Errorf("data_source.days must be positive")
	}
	if !oneOf(c.Indicators.Backend, "auto", "native", "reference") {
		return fmt.Errorf("indicators.backend must be auto, native or reference, got %q", c.Indicators.Backend)
	}
	if !oneOf(c.Sentiment.Strategy, "auto", "vader", "lexicon") {
		return fmt.Errorf("sentiment.strategy must be auto, vader or lexicon, got %q", c.Sentiment.Strategy)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1")
	}
	if (c.Notify.Telegram.BotToken == "") != (c.Notify.Telegram.ChatID == "") {
		return fmt.Errorf("notify.telegram needs both bot_token and chat_id")
	}
	if !oneOf(c.Log.Format, "text", "json") {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
