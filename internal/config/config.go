package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockWise/internal/cache"
	"StockWise/internal/catalog"
	"StockWise/internal/forecast"
	"StockWise/internal/logging"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

const startDateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr       string `yaml:"addr"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	DataSource struct {
		Provider  string        `yaml:"provider"`
		StartDate string        `yaml:"start_date"`
		Timezone  string        `yaml:"timezone"`
		Timeout   time.Duration `yaml:"timeout"`
		Alpaca    struct {
			APIKey    string `yaml:"api_key"`
			APISecret string `yaml:"api_secret"`
			DataURL   string `yaml:"data_url"`
			Feed      string `yaml:"feed"`
		} `yaml:"alpaca"`
	} `yaml:"data_source"`
	Symbols  []catalog.Symbol `yaml:"symbols"`
	Forecast forecast.Options `yaml:"forecast"`
	Cache    struct {
		Policy string `yaml:"policy"`
	} `yaml:"cache"`
	Schedule struct {
		SweepCron     string `yaml:"sweep_cron"`
		WarmupCron    string `yaml:"warmup_cron"`
		WarmupOnStart bool   `yaml:"warmup_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging logging.Config `yaml:"logging"`
	Proxy   string         `yaml:"proxy"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads .env, then the YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	// Seeded so keys absent from the file keep their defaults while explicit
	// zeros such as n_changepoints: 0 survive.
	cfg := &Config{Forecast: forecast.DefaultOptions()}
	cfg.Logging = logging.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		c.DataSource.StartDate = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		c.DataSource.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		c.DataSource.Alpaca.APISecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CACHE_POLICY"); v != "" {
		c.Cache.Policy = v
	}
	if v := os.Getenv("WARMUP_ON_START"); v != "" {
		c.Schedule.WarmupOnStart = v == "true" || v == "1"
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.StartDate == "" {
		c.DataSource.StartDate = "2016-01-01"
	}
	if c.DataSource.Timezone == "" {
		c.DataSource.Timezone = "America/New_York"
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.Alpaca.Feed == "" {
		c.DataSource.Alpaca.Feed = "iex"
	}
	if len(c.Symbols) == 0 {
		c.Symbols = append([]catalog.Symbol(nil), catalog.DefaultSymbols...)
	}
	c.Forecast = c.Forecast.WithDefaults()
	if c.Cache.Policy == "" {
		c.Cache.Policy = "daily"
	}
	if c.Schedule.SweepCron == "" {
		c.Schedule.SweepCron = "0 0 0 * * *"
	}
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	var errs []error
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if c.DataSource.Alpaca.APIKey == "" || c.DataSource.Alpaca.APISecret == "" {
			errs = append(errs, errors.New("data_source.alpaca.api_key and api_secret are required for the alpaca provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("data_source.provider %q is not one of yahoo, alpaca, mock", c.DataSource.Provider))
	}
	if _, err := c.StartDate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.DataSource.Timeout < 0 {
		errs = append(errs, errors.New("data_source.timeout must not be negative"))
	}
	if _, err := catalog.New(c.Symbols); err != nil {
		errs = append(errs, fmt.Errorf("symbols: %w", err))
	}
	if err := c.Forecast.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("forecast: %w", err))
	}
	if _, err := cache.PolicyByName(c.Cache.Policy, time.UTC); err != nil {
		errs = append(errs, fmt.Errorf("cache.policy: %w", err))
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = append(errs, errors.New("telegram.bot_token and telegram.chat_id must be set together"))
	}
	return errors.Join(errs...)
}

// StartDate parses data_source.start_date as midnight UTC.
func (c *Config) StartDate() (time.Time, error) {
	t, err := time.Parse(startDateLayout, strings.TrimSpace(c.DataSource.StartDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("data_source.start_date: %w", err)
	}
	return t, nil
}

// Location loads the exchange timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DataSource.Timezone)
	if err != nil {
		return nil, fmt.Errorf("data_source.timezone: %w", err)
	}
	return loc, nil
}

// TelegramEnabled reports whether the bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
