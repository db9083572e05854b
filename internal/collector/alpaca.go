package collector

import (
	"context"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockWise/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market-data API.
type AlpacaFetcher struct {
	client *marketdata.Client
	feed   marketdata.Feed
	loc    *time.Location
}

// NewAlpacaFetcher creates a fetcher for daily bars. An empty feed uses
// "iex", which free accounts can query. timeout bounds each HTTP request;
// zero disables the deadline.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL, feed string, timeout time.Duration) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		HTTPClient: &http.Client{Timeout: timeout},
		// Negative turns off the client's own 429/500 retry loop; failures
		// surface as transient errors like every other provider.
		RetryLimit: -1,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if feed == "" {
		feed = "iex"
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &AlpacaFetcher{
		client: marketdata.NewClient(opts),
		feed:   marketdata.Feed(feed),
		loc:    loc,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Alpaca treats End as inclusive; the Loader trims to [start, end).
	alpacaBars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      f.feed,
	})
	if err != nil {
		return nil, transient(f.Name(), symbol, err)
	}

	bars := make([]model.OHLCV, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, model.OHLCV{
			Date:   ab.Timestamp.In(f.loc),
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: float64(ab.Volume),
		})
	}
	return bars, nil
}
