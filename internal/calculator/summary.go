package calculator

import (
	"errors"
	"math"

	"StockWise/internal/model"
)

// Trading days in a 52-week window.
const tradingYear = 252

// Summary holds headline statistics of a loaded series.
type Summary struct {
	LastDate  string  `json:"last_date"`
	LastClose float64 `json:"last_close"`
	High52w   float64 `json:"high_52w"`
	Low52w    float64 `json:"low_52w"`
	// SMA200 is zero when fewer than 200 bars are available.
	SMA200 float64 `json:"sma_200"`
}

// SMA computes the simple moving average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// Range52Week scans the most recent 252 bars and returns the high and low.
func Range52Week(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	start := max(len(bars)-tradingYear, 0)
	high, low = math.Inf(-1), math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// Summarize derives a Summary from a non-empty series.
func Summarize(series *model.PriceSeries) (Summary, error) {
	if series == nil || len(series.Bars) == 0 {
		return Summary{}, errors.New("empty series")
	}
	last := series.Bars[len(series.Bars)-1]
	high, low, err := Range52Week(series.Bars)
	if err != nil {
		return Summary{}, err
	}
	closes := make([]float64, len(series.Bars))
	for i, b := range series.Bars {
		closes[i] = b.Close
	}
	sma, err := SMA(closes, 200)
	if err != nil {
		sma = 0
	}
	return Summary{
		LastDate:  last.Date.Format("2006-01-02"),
		LastClose: last.Close,
		High52w:   high,
		Low52w:    low,
		SMA200:    sma,
	}, nil
}
