package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"StockWise/internal/cache"
	"StockWise/internal/catalog"
	"StockWise/internal/collector"
	"StockWise/internal/config"
	"StockWise/internal/dashboard"
	"StockWise/internal/forecast"
	"StockWise/internal/model"
	"StockWise/internal/recorder"
)

// App holds the wired application components.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Clock    dashboard.Clock
	Loader   *collector.Loader
	Pipeline *dashboard.Pipeline
	Recorder recorder.Recorder
}

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(cfg.Proxy, ds.Timeout), nil
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.Alpaca.APIKey, ds.Alpaca.APISecret, ds.Alpaca.DataURL, ds.Alpaca.Feed, ds.Timeout), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	}
	return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
}

// build wires every component from the config. withRecorder opens the
// SQLite history when a path is configured.
func (a *App) build(withRecorder bool) error {
	if a.Pipeline != nil {
		return nil
	}
	cfg := a.Config
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	start, err := cfg.StartDate()
	if err != nil {
		return err
	}
	cat, err := catalog.New(cfg.Symbols)
	if err != nil {
		return err
	}
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	policy, err := cache.PolicyByName(cfg.Cache.Policy, loc)
	if err != nil {
		return err
	}
	c := cache.New[collector.Key, *model.PriceSeries](policy)
	a.Logger.Info().Str("provider", fetcher.Name()).Str("cache_policy", c.Policy().Name()).Msg("data source")
	a.Loader = collector.NewLoader(fetcher, c, a.Logger)

	a.Recorder = recorder.NewNoopRecorder()
	if withRecorder && cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, a.Logger)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			a.Recorder = sr
		}
	}

	if a.Clock == nil {
		a.Clock = dashboard.SystemClock{}
	}
	a.Pipeline = dashboard.NewPipeline(cat, a.Loader, forecast.NewForecaster(cfg.Forecast), a.Recorder, a.Clock,
		dashboard.Settings{Start: start, Location: loc}, a.Logger)
	return nil
}

// Close releases the recorder.
func (a *App) Close() error {
	if a.Recorder == nil {
		return nil
	}
	return a.Recorder.Close()
}
