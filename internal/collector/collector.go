package collector

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"StockWise/internal/model"
)

// MockFetcher returns controllable data for development and testing.
// With Bars unset it synthesizes one bar per weekday in the range.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
	Delay time.Duration

	mu    sync.Mutex
	calls atomic.Int64
	last  []string
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDaily was invoked.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

// Symbols returns the symbols requested so far, in call order.
func (m *MockFetcher) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.last))
	copy(out, m.last)
	return out
}

func (m *MockFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.last = append(m.last, symbol)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		out := make([]model.OHLCV, len(m.Bars))
		copy(out, m.Bars)
		return out, nil
	}
	base := m.Price
	if base == 0 {
		base = 100
	}
	return generateMockBars(base, start, end), nil
}

// generateMockBars builds weekday bars with a gentle upward drift and a
// yearly cycle, stamped at 20:00 UTC.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	day := model.TruncateDay(start, start.Location())
	last := model.TruncateDay(end, end.Location())
	for i := 0; day.Before(last); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		doy := float64(day.YearDay())
		p := basePrice * (1 + 0.0004*float64(i) + 0.05*math.Sin(2*math.Pi*doy/365.25))
		bars = append(bars, model.OHLCV{
			Date:   day.Add(20 * time.Hour),
			Open:   p * 0.998,
			High:   p * 1.01,
			Low:    p * 0.99,
			Close:  p,
			Volume: 1_000_000,
		})
		i++
	}
	return bars
}
