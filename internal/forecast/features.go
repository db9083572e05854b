package forecast

import (
	"math"
	"time"
)

const (
	secondsPerDay = 86400.0

	yearlyPeriod = 365.25
	weeklyPeriod = 7.0

	// Minimum history span before auto mode turns a component on.
	yearlyAutoSpan = 2 * 365.0
	weeklyAutoSpan = 2 * 7.0
)

type seasonality struct {
	name   string
	period float64
	order  int
}

func (s seasonality) width() int { return 2 * s.order }

// epochDays is the absolute time axis used by the Fourier terms, so a
// seasonal phase does not depend on where the history starts.
func epochDays(t time.Time) float64 {
	return float64(t.Unix()) / secondsPerDay
}

// fourier appends sin/cos pairs k=1..order for period to dst.
func fourier(dst []float64, days, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		x := 2 * math.Pi * float64(k) * days / period
		dst = append(dst, math.Sin(x), math.Cos(x))
	}
	return dst
}

// enabled resolves a mode against the history span in days.
func enabled(mode SeasonalityMode, spanDays, autoSpan float64) bool {
	switch mode {
	case SeasonalityOn:
		return true
	case SeasonalityOff:
		return false
	}
	return spanDays >= autoSpan
}

// placeChangepoints returns changepoint locations on the scaled time axis,
// evenly spaced over the first rangeFrac of the rows. The count shrinks to
// floor(rangeFrac*n)-1 when the history is short.
func placeChangepoints(ts []float64, count int, rangeFrac float64) []float64 {
	histSize := int(math.Floor(rangeFrac * float64(len(ts))))
	count = min(count, histSize-1)
	if count <= 0 {
		return nil
	}
	cps := make([]float64, 0, count)
	step := float64(histSize-1) / float64(count)
	for i := 1; i <= count; i++ {
		idx := int(math.Round(step * float64(i)))
		cps = append(cps, ts[idx])
	}
	return cps
}

// hinges appends max(0, t-c) for every changepoint c.
func hinges(dst []float64, t float64, cps []float64) []float64 {
	for _, c := range cps {
		dst = append(dst, math.Max(0, t-c))
	}
	return dst
}
