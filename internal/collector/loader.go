package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"StockWise/internal/cache"
	"StockWise/internal/logging"
	"StockWise/internal/model"
)

const keyDateLayout = "2006-01-02"

// Key identifies one cached load. Equality is exact: no symbol
// normalization and no merging of overlapping ranges.
type Key struct {
	Symbol string
	Start  string
	End    string
}

func newKey(symbol string, start, end time.Time) Key {
	return Key{Symbol: symbol, Start: start.Format(keyDateLayout), End: end.Format(keyDateLayout)}
}

func (k Key) String() string { return k.Symbol + "|" + k.Start + "|" + k.End }

// SeriesCache is the cache type the Loader stores series in.
type SeriesCache = cache.Cache[Key, *model.PriceSeries]

// Loader fetches daily series from a Fetcher and memoizes them by Key.
type Loader struct {
	fetcher Fetcher
	cache   *SeriesCache
	group   singleflight.Group
	log     zerolog.Logger
	now     func() time.Time
}

// NewLoader wires a loader. A nil cache gets a NeverEvict cache.
func NewLoader(f Fetcher, c *SeriesCache, log zerolog.Logger) *Loader {
	if c == nil {
		c = cache.New[Key, *model.PriceSeries](cache.NeverEvict{})
	}
	return &Loader{
		fetcher: f,
		cache:   c,
		log:     log.With().Str("component", "loader").Str("provider", f.Name()).Logger(),
		now:     time.Now,
	}
}

// Cache exposes the underlying cache, e.g. for scheduled sweeps.
func (l *Loader) Cache() *SeriesCache { return l.cache }

// Load returns the daily series for symbol over [start, end).
func (l *Loader) Load(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	s, _, err := l.LoadTracked(ctx, symbol, start, end)
	return s, err
}

// LoadTracked is Load that also reports whether the cache served the call.
// The returned series is a private copy.
func (l *Loader) LoadTracked(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, bool, error) {
	if start.After(end) {
		return nil, false, fmt.Errorf("%w: start %s after end %s", ErrInvalidRange,
			start.Format(keyDateLayout), end.Format(keyDateLayout))
	}
	key := newKey(symbol, start, end)
	if s, ok := l.cache.Get(key); ok {
		l.log.Debug().Str("key", key.String()).Msg("cache hit")
		return s.Clone(), true, nil
	}

	// The shared fetch is detached from the caller that started it, so one
	// caller giving up does not fail the others waiting on the same key. The
	// fetcher's HTTP client timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key.String(), func() (any, error) {
		return l.fetch(fetchCtx, key, symbol, start, end)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*model.PriceSeries).Clone(), false, nil
	}
}

// fetch runs one provider call for key and caches a non-empty result.
func (l *Loader) fetch(ctx context.Context, key Key, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if s, ok := l.cache.Get(key); ok {
		return s, nil
	}
	log := logging.WithOperation(l.log, "fetch")
	log = logging.WithSymbol(log, symbol)
	began := time.Now()
	raw, err := l.fetcher.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("fetch failed")
		return nil, err
	}
	bars := normalize(raw, start, end)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s between %s and %s", ErrDataUnavailable, symbol, key.Start, key.End)
	}
	s := &model.PriceSeries{
		Symbol:    symbol,
		Source:    l.fetcher.Name(),
		Bars:      bars,
		FetchedAt: l.now(),
	}
	l.cache.Put(key, s)
	log.Info().
		Str("key", key.String()).
		Int("bars", len(bars)).
		Dur("took", time.Since(began)).
		Msg("series loaded")
	return s, nil
}

// normalize truncates bar dates to day granularity, keeps bars inside
// [start, end), sorts ascending and keeps the last bar seen for each date.
func normalize(raw []model.OHLCV, start, end time.Time) []model.OHLCV {
	lo := model.TruncateDay(start, start.Location())
	hi := model.TruncateDay(end, end.Location())

	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		b.Date = model.TruncateDay(b.Date, b.Date.Location())
		if b.Date.Before(lo) || !b.Date.Before(hi) {
			continue
		}
		bars = append(bars, b)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
