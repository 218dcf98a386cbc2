package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string   `yaml:"bot_token"`
		ChatIDs  []string `yaml:"chat_ids"`
	} `yaml:"telegram"`
	FMP struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"fmp"`
	Portfolio struct {
		LedgerFile string   `yaml:"ledger_file"`
		Tickers    []string `yaml:"tickers"`
		StartDate  string   `yaml:"start_date"`
	} `yaml:"portfolio"`
	Cache struct {
		File string `yaml:"file"`
	} `yaml:"cache"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_IDS"); v != "" {
		cfg.Telegram.ChatIDs = splitList(v)
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.FMP.APIKey = v
	}
	if v := os.Getenv("FMP_BASE_URL"); v != "" {
		cfg.FMP.BaseURL = v
	}
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.LedgerFile = v
	}
	if v := os.Getenv("PORTFOLIO_TICKERS"); v != "" {
		cfg.Portfolio.Tickers = splitList(v)
	}
	if v := os.Getenv("CACHE_FILE"); v != "" {
		cfg.Cache.File = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Portfolio.StartDate == "" {
		cfg.Portfolio.StartDate = "2021-01-01"
	}
	if len(cfg.Portfolio.Tickers) == 0 {
		cfg.Portfolio.Tickers = []string{"9988", "0388", "0823", "3690", "0728", "3329"}
	}
	if cfg.Portfolio.LedgerFile == "" {
		cfg.Portfolio.LedgerFile = "data/portfolio.csv"
	}
	if cfg.Cache.File == "" {
		cfg.Cache.File = "data/stock_prices_cache.json"
	}
	if cfg.Schedule.DailyCron == "" {
		// Mon-Fri after the HK close, with settlement slack
		cfg.Schedule.DailyCron = "0 30 17 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/portfolio_pulse.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if len(c.Telegram.ChatIDs) == 0 {
		return fmt.Errorf("telegram.chat_ids is required")
	}
	if c.FMP.APIKey == "" {
		return fmt.Errorf("fmp.api_key is required")
	}
	if len(c.Portfolio.Tickers) == 0 {
		return fmt.Errorf("portfolio.tickers is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
