package collector

import (
	"context"
	"time"

	"StockWise/internal/model"
)

// Fetcher retrieves daily bars for a symbol over [start, end) from a market
// data provider. Bar dates carry the exchange's location; the Loader
// normalizes them to day granularity.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
