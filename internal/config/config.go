package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"MarketSignal/internal/calculator"
	"MarketSignal/internal/collector"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo | fmp | file | mock
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Symbol   string `yaml:"symbol"`
		Interval string `yaml:"interval"`
		Limit    int    `yaml:"limit"`
		Path     string `yaml:"path"`
	} `yaml:"data_source"`
	Indicators calculator.Params `yaml:"indicators"`
	Schedule   struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Output struct {
		ChartPath string `yaml:"chart_path"`
		BarsPath  string `yaml:"bars_path"` // .csv, .json or .parquet
	} `yaml:"output"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads a .env file if present, then the YAML file, then applies
// environment variable overrides and defaults. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Indicators: calculator.DefaultParams()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.DataSource.Path = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("CHART_PATH"); v != "" {
		cfg.Output.ChartPath = v
	}
	if v := os.Getenv("BARS_PATH"); v != "" {
		cfg.Output.BarsPath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "AAPL"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "day"
	}
	if cfg.DataSource.Limit == 0 {
		cfg.DataSource.Limit = 250
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that required fields are set and every indicator period is positive.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "fmp":
		if c.DataSource.APIKey == "" {
			return errors.New("data_source.api_key is required for the fmp provider")
		}
	case "file":
		if c.DataSource.Path == "" {
			return errors.New("data_source.path is required for the file provider")
		}
	default:
		return errors.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if !collector.ValidInterval(c.DataSource.Interval) {
		return errors.Errorf("data_source.interval %q is not one of %v", c.DataSource.Interval, collector.Intervals)
	}
	if c.DataSource.Provider == "yahoo" && !collector.YahooSupports(c.DataSource.Interval) {
		return errors.Errorf("data_source.interval %q is not available from yahoo", c.DataSource.Interval)
	}
	if c.DataSource.Limit < 0 {
		return errors.New("data_source.limit must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required when telegram.bot_token is set")
	}
	if err := c.Indicators.Validate(); err != nil {
		return errors.Wrap(err, "indicators")
	}
	return nil
}
