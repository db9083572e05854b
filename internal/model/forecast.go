package model

import "time"

// TrainingRow is one (timestamp, target) observation in the role names the
// forecasting model expects.
type TrainingRow struct {
	DS time.Time `json:"ds"`
	Y  float64   `json:"y"`
}

// ForecastRow is a single predicted point.
type ForecastRow struct {
	DS         time.Time `json:"ds"`
	YHat       float64   `json:"yhat"`
	YHatLower  float64   `json:"yhat_lower"`
	YHatUpper  float64   `json:"yhat_upper"`
	Trend      float64   `json:"trend"`
	Weekly     float64   `json:"weekly"`
	Yearly     float64   `json:"yearly"`
	IsForecast bool      `json:"is_forecast"`
}

// SeasonalProfile is one seasonal component sampled over its period.
type SeasonalProfile struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ForecastResult is the model output: history plus future rows, and the
// seasonal breakdown for the components chart.
type ForecastResult struct {
	Rows          []ForecastRow     `json:"rows"`
	HistoryLen    int               `json:"history_len"`
	HorizonDays   int               `json:"horizon_days"`
	IntervalWidth float64           `json:"interval_width"`
	Seasonalities []SeasonalProfile `json:"seasonalities"`
}

// Tail returns up to n final rows.
func (r *ForecastResult) Tail(n int) []ForecastRow {
	if r == nil || n <= 0 {
		return []ForecastRow{}
	}
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	out := make([]ForecastRow, n)
	copy(out, r.Rows[len(r.Rows)-n:])
	return out
}

// Last returns the final row and whether one exists.
func (r *ForecastResult) Last() (ForecastRow, bool) {
	if r == nil || len(r.Rows) == 0 {
		return ForecastRow{}, false
	}
	return r.Rows[len(r.Rows)-1], true
}
