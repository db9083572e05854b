package model

import "time"

// OHLCV represents a single daily bar. Date is always midnight UTC of the
// exchange-local trading day.
type OHLCV struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the daily history of one symbol, ascending by date with
// no duplicate dates.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Source    string    `json:"source"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Len returns the number of bars.
func (p *PriceSeries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Bars)
}

// Tail returns up to n most recent bars.
func (p *PriceSeries) Tail(n int) []OHLCV {
	if p == nil || n <= 0 {
		return []OHLCV{}
	}
	if n > len(p.Bars) {
		n = len(p.Bars)
	}
	out := make([]OHLCV, n)
	copy(out, p.Bars[len(p.Bars)-n:])
	return out
}

// Clone returns a deep copy so cached series cannot be mutated by callers.
func (p *PriceSeries) Clone() *PriceSeries {
	if p == nil {
		return nil
	}
	c := *p
	c.Bars = make([]OHLCV, len(p.Bars))
	copy(c.Bars, p.Bars)
	return &c
}

// DateRange is a half-open [Start, End) interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// TruncateDay returns midnight UTC of t's calendar day in loc.
func TruncateDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
