package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"StockWise/internal/model"
)

// rawBarsGen produces unordered bars with arbitrary intraday timestamps and
// frequent duplicate days.
func rawBarsGen() gopter.Gen {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return gen.SliceOf(gen.IntRange(0, 60*24*60)).Map(func(mins []int) []model.OHLCV {
		bars := make([]model.OHLCV, len(mins))
		for i, m := range mins {
			bars[i] = model.OHLCV{Date: base.Add(time.Duration(m) * time.Minute), Close: float64(i)}
		}
		return bars
	})
}

// Property: whatever the provider returns, the loaded series is strictly
// ascending, unique and truncated to midnight.
func TestLoaderProperty_AscendingUniqueDayGranular(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 61)

	properties.Property("loaded bars ascending, unique, midnight", prop.ForAll(
		func(raw []model.OHLCV) bool {
			l := NewLoader(&MockFetcher{Bars: raw}, nil, zerolog.Nop())
			s, err := l.Load(context.Background(), "GOOG", start, end)
			if len(raw) == 0 {
				return errors.Is(err, ErrDataUnavailable)
			}
			if err != nil {
				return false
			}
			for i, b := range s.Bars {
				if !b.Date.Equal(b.Date.Truncate(24 * time.Hour)) {
					return false
				}
				if b.Date.Before(start) || !b.Date.Before(end) {
					return false
				}
				if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
					return false
				}
			}
			return true
		},
		rawBarsGen(),
	))

	properties.TestingRun(t)
}

// Property: a second identical Load never triggers another fetch.
func TestLoaderProperty_Idempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeat load is a cache hit", prop.ForAll(
		func(offset, span int) bool {
			start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
			end := start.AddDate(0, 0, span)
			mf := &MockFetcher{Price: 50}
			l := NewLoader(mf, nil, zerolog.Nop())
			a, errA := l.Load(context.Background(), "AAPL", start, end)
			b, errB := l.Load(context.Background(), "AAPL", start, end)
			if errA != nil || errB != nil {
				return false
			}
			if mf.Calls() != 1 || a.Len() != b.Len() {
				return false
			}
			for i := range a.Bars {
				if a.Bars[i] != b.Bars[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 2000),
		gen.IntRange(7, 400),
	))

	properties.TestingRun(t)
}
