// Package forecast fits an additive trend plus seasonality model to a daily
// series and projects it forward with an uncertainty band.
//
// The trend is piecewise linear with hinge changepoints, seasonalities are
// Fourier series, and all coefficients are estimated jointly by ridge
// regularized least squares, the MAP estimate under Gaussian priors.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"StockWise/internal/model"
)

// ErrInsufficientData is returned when the history cannot support a fit.
var ErrInsufficientData = errors.New("insufficient data to fit forecast model")

const (
	// Observation noise scale in max-scaled units; sets the ridge strength.
	sigma0 = 0.05
	// Prior scale for intercept and base slope.
	trendPriorScale = 5.0
)

// Model is a fitted forecast model.
type Model struct {
	opts Options

	start    time.Time
	last     time.Time
	spanDays float64
	yScale   float64

	changepoints  []float64
	seasonalities []seasonality
	beta          []float64
	sigma         float64
	z             float64

	history []model.TrainingRow
}

// Fit estimates a model from rows. Rows need not be sorted.
func Fit(rows []model.TrainingRow, opts Options) (*Model, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("forecast options: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrInsufficientData, len(rows))
	}
	hist := make([]model.TrainingRow, len(rows))
	copy(hist, rows)
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].DS.Before(hist[j].DS) })

	m := &Model{
		opts:    opts,
		start:   hist[0].DS,
		last:    hist[len(hist)-1].DS,
		history: hist,
	}
	m.spanDays = m.last.Sub(m.start).Hours() / 24
	if m.spanDays <= 0 {
		return nil, fmt.Errorf("%w: history spans zero time", ErrInsufficientData)
	}
	for _, r := range hist {
		if math.IsNaN(r.Y) || math.IsInf(r.Y, 0) {
			return nil, fmt.Errorf("forecast: non-finite value at %s", r.DS.Format("2006-01-02"))
		}
		m.yScale = math.Max(m.yScale, math.Abs(r.Y))
	}
	if m.yScale == 0 {
		m.yScale = 1
	}

	ts := make([]float64, len(hist))
	for i, r := range hist {
		ts[i] = m.scaleTime(r.DS)
	}
	m.changepoints = placeChangepoints(ts, opts.NChangepoints, opts.ChangepointRange)

	if enabled(opts.YearlySeasonality, m.spanDays, yearlyAutoSpan) {
		m.seasonalities = append(m.seasonalities, seasonality{"yearly", yearlyPeriod, opts.YearlyOrder})
	}
	if enabled(opts.WeeklySeasonality, m.spanDays, weeklyAutoSpan) {
		m.seasonalities = append(m.seasonalities, seasonality{"weekly", weeklyPeriod, opts.WeeklyOrder})
	}

	if err := m.solve(ts); err != nil {
		return nil, err
	}
	m.z = distuv.UnitNormal.Quantile(0.5 + opts.IntervalWidth/2)
	return m, nil
}

func (m *Model) scaleTime(t time.Time) float64 {
	return t.Sub(m.start).Hours() / 24 / m.spanDays
}

// priorScales returns the per-column prior scale in design order.
func (m *Model) priorScales() []float64 {
	out := []float64{trendPriorScale, trendPriorScale}
	for range m.changepoints {
		out = append(out, m.opts.ChangepointPriorScale)
	}
	for _, s := range m.seasonalities {
		for i := 0; i < s.width(); i++ {
			out = append(out, m.opts.SeasonalityPriorScale)
		}
	}
	return out
}

// features builds one design row for time t.
func (m *Model) features(dst []float64, ds time.Time, t float64) []float64 {
	dst = append(dst[:0], 1, t)
	dst = hinges(dst, t, m.changepoints)
	days := epochDays(ds)
	for _, s := range m.seasonalities {
		dst = fourier(dst, days, s.period, s.order)
	}
	return dst
}

// solve stacks the scaled design matrix over a diagonal penalty block and
// solves the least squares system by QR.
func (m *Model) solve(ts []float64) error {
	scales := m.priorScales()
	n, p := len(ts), len(scales)

	a := mat.NewDense(n+p, p, nil)
	b := mat.NewVecDense(n+p, nil)
	row := make([]float64, 0, p)
	for i, r := range m.history {
		row = m.features(row, r.DS, ts[i])
		a.SetRow(i, row)
		b.SetVec(i, r.Y/m.yScale)
	}
	for j, tau := range scales {
		a.Set(n+j, j, sigma0/tau)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return fmt.Errorf("forecast: solve: %w", err)
	}
	m.beta = make([]float64, p)
	for j := range m.beta {
		m.beta[j] = beta.AtVec(j)
	}

	var sse float64
	for i, r := range m.history {
		row = m.features(row, r.DS, ts[i])
		resid := r.Y/m.yScale - dot(row, m.beta)
		sse += resid * resid
	}
	m.sigma = math.Sqrt(sse / float64(n))
	return nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// MakeFuture returns the history dates followed by periods consecutive
// calendar days after the last history date.
func MakeFuture(history []model.TrainingRow, periods int) []time.Time {
	out := make([]time.Time, 0, len(history)+max(periods, 0))
	var last time.Time
	for _, r := range history {
		out = append(out, r.DS)
		if r.DS.After(last) {
			last = r.DS
		}
	}
	if len(history) == 0 {
		return out
	}
	for i := 1; i <= periods; i++ {
		out = append(out, last.AddDate(0, 0, i))
	}
	return out
}

// Predict evaluates the model at each date.
func (m *Model) Predict(dates []time.Time) []model.ForecastRow {
	out := make([]model.ForecastRow, len(dates))
	row := make([]float64, 0, len(m.beta))
	trendCols := 2 + len(m.changepoints)
	for i, ds := range dates {
		row = m.features(row, ds, m.scaleTime(ds))
		fr := model.ForecastRow{DS: ds, IsForecast: ds.After(m.last)}
		fr.Trend = dot(row[:trendCols], m.beta[:trendCols]) * m.yScale
		col := trendCols
		for _, s := range m.seasonalities {
			v := dot(row[col:col+s.width()], m.beta[col:col+s.width()]) * m.yScale
			switch s.name {
			case "yearly":
				fr.Yearly = v
			case "weekly":
				fr.Weekly = v
			}
			col += s.width()
		}
		fr.YHat = fr.Trend + fr.Yearly + fr.Weekly
		half := m.halfWidth(ds)
		fr.YHatLower = fr.YHat - half
		fr.YHatUpper = fr.YHat + half
		out[i] = fr
	}
	return out
}

// halfWidth grows with distance past the last observation.
func (m *Model) halfWidth(ds time.Time) float64 {
	h := math.Max(0, ds.Sub(m.last).Hours()/24)
	return m.z * m.sigma * m.yScale * math.Sqrt(1+h/m.spanDays)
}

// Forecast predicts the history plus periods future days.
func (m *Model) Forecast(periods int) *model.ForecastResult {
	return &model.ForecastResult{
		Rows:          m.Predict(MakeFuture(m.history, periods)),
		HistoryLen:    len(m.history),
		HorizonDays:   periods,
		IntervalWidth: m.opts.IntervalWidth,
		Seasonalities: m.Profiles(),
	}
}

var weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Reference dates for sampling seasonal profiles. 2017-01-02 is a Monday.
var (
	profileWeekStart = time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	profileYearStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Profiles samples every fitted seasonality over one period.
func (m *Model) Profiles() []model.SeasonalProfile {
	var out []model.SeasonalProfile
	col := 2 + len(m.changepoints)
	for _, s := range m.seasonalities {
		beta := m.beta[col : col+s.width()]
		col += s.width()

		p := model.SeasonalProfile{Name: s.name}
		var dates []time.Time
		switch s.name {
		case "weekly":
			p.Labels = weekdayLabels
			for i := range weekdayLabels {
				dates = append(dates, profileWeekStart.AddDate(0, 0, i))
			}
		case "yearly":
			for i := 0; i < 365; i++ {
				d := profileYearStart.AddDate(0, 0, i)
				dates = append(dates, d)
				p.Labels = append(p.Labels, d.Format("Jan 02"))
			}
		}
		terms := make([]float64, 0, s.width())
		for _, d := range dates {
			terms = fourier(terms[:0], epochDays(d), s.period, s.order)
			p.Values = append(p.Values, dot(terms, beta)*m.yScale)
		}
		out = append(out, p)
	}
	return out
}

// Changepoints returns changepoint dates.
func (m *Model) Changepoints() []time.Time {
	out := make([]time.Time, len(m.changepoints))
	for i, c := range m.changepoints {
		out[i] = m.start.Add(time.Duration(c * m.spanDays * 24 * float64(time.Hour)))
	}
	return out
}

// Forecaster fits a fresh model per call.
type Forecaster struct {
	Options Options
}

// NewForecaster returns a Forecaster with opts.
func NewForecaster(opts Options) *Forecaster {
	return &Forecaster{Options: opts}
}

// Forecast fits rows and predicts periods days ahead.
func (f *Forecaster) Forecast(rows []model.TrainingRow, periods int) (*model.ForecastResult, error) {
	m, err := Fit(rows, f.Options)
	if err != nil {
		return nil, err
	}
	return m.Forecast(periods), nil
}
