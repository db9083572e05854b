package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.DataSource.Provider != "yahoo" || cfg.Cache.Policy != "daily" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.DataSource.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.DataSource.Timeout)
	}
	if len(cfg.Symbols) != 4 || cfg.Symbols[0].Ticker != "GOOG" {
		t.Errorf("symbols = %+v", cfg.Symbols)
	}
	if cfg.Forecast.NChangepoints != 25 || cfg.Forecast.IntervalWidth != 0.8 {
		t.Errorf("forecast defaults = %+v", cfg.Forecast)
	}
	start, err := cfg.StartDate()
	if err != nil || !start.Equal(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v, %v", start, err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
data_source:
  provider: mock
  start_date: "2018-06-01"
  timeout: 5s
symbols:
  - {label: Netflix, ticker: NFLX}
forecast:
  interval_width: 0.95
  weekly_seasonality: "off"
schedule:
  warmup_cron: "0 30 16 * * 1-5"
`)
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_POLICY", "never")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("PORT override ignored: %s", cfg.Server.Addr)
	}
	if cfg.DataSource.Provider != "mock" || cfg.DataSource.Timeout != 5*time.Second {
		t.Errorf("data source = %+v", cfg.DataSource)
	}
	if len(cfg.Symbols) != 1 || cfg.Symbols[0].Ticker != "NFLX" {
		t.Errorf("symbols = %+v", cfg.Symbols)
	}
	if cfg.Forecast.IntervalWidth != 0.95 || cfg.Forecast.WeeklySeasonality != "off" || cfg.Forecast.YearlyOrder != 10 {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if cfg.Logging.Level != "debug" || cfg.Cache.Policy != "never" {
		t.Errorf("env overrides ignored: %+v %+v", cfg.Logging, cfg.Cache)
	}
	if cfg.Schedule.SweepCron != "0 0 0 * * *" || cfg.Schedule.WarmupCron == "" {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_ZeroChangepointsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "forecast:\n  n_changepoints: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Forecast.NChangepoints != 0 {
		t.Errorf("n_changepoints = %d, want 0", cfg.Forecast.NChangepoints)
	}
	if cfg.Forecast.ChangepointRange != 0.8 || cfg.Forecast.WeeklyOrder != 3 {
		t.Errorf("absent keys lost their defaults: %+v", cfg.Forecast)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "data_source.provider"},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = "alpaca" }, "api_key"},
		{"bad start date", func(c *Config) { c.DataSource.StartDate = "01/01/2016" }, "start_date"},
		{"bad timezone", func(c *Config) { c.DataSource.Timezone = "Mars/Olympus" }, "timezone"},
		{"duplicate symbols", func(c *Config) {
			c.Symbols = append(c.Symbols, c.Symbols[0])
		}, "duplicate"},
		{"bad cache policy", func(c *Config) { c.Cache.Policy = "hourly" }, "cache.policy"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }, "telegram"},
		{"bad forecast", func(c *Config) { c.Forecast.IntervalWidth = 2 }, "interval_width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := cfg.Location(); err != nil && tt.wantErr == "" {
				t.Skip("tzdata unavailable")
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if Path() != DefaultPath {
		t.Errorf("Path() = %s", Path())
	}
	t.Setenv("CONFIG_PATH", "/etc/stockwise.yaml")
	if Path() != "/etc/stockwise.yaml" {
		t.Errorf("Path() = %s", Path())
	}
}
