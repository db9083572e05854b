package dashboard

import (
	"fmt"

	"StockWise/internal/model"
)

// Figure is a Plotly figure; it marshals to the JSON Plotly.newPlot expects.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type       string    `json:"type"`
	Mode       string    `json:"mode,omitempty"`
	Name       string    `json:"name"`
	X          []string  `json:"x"`
	Y          []float64 `json:"y"`
	Fill       string    `json:"fill,omitempty"`
	FillColor  string    `json:"fillcolor,omitempty"`
	Line       *Line     `json:"line,omitempty"`
	Marker     *Marker   `json:"marker,omitempty"`
	ShowLegend *bool     `json:"showlegend,omitempty"`
	XAxis      string    `json:"xaxis,omitempty"`
	YAxis      string    `json:"yaxis,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width"`
}

type Marker struct {
	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

type Axis struct {
	Title       *Title       `json:"title,omitempty"`
	Type        string       `json:"type,omitempty"`
	RangeSlider *RangeSlider `json:"rangeslider,omitempty"`
}

type Grid struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Pattern string `json:"pattern"`
}

type Layout struct {
	Title      Title `json:"title"`
	XAxis      *Axis `json:"xaxis,omitempty"`
	YAxis      *Axis `json:"yaxis,omitempty"`
	XAxis2     *Axis `json:"xaxis2,omitempty"`
	YAxis2     *Axis `json:"yaxis2,omitempty"`
	XAxis3     *Axis `json:"xaxis3,omitempty"`
	YAxis3     *Axis `json:"yaxis3,omitempty"`
	Grid       *Grid `json:"grid,omitempty"`
	Height     int   `json:"height,omitempty"`
	ShowLegend bool  `json:"showlegend"`
}

const (
	HistoryTitle = "Time Series data with Rangeslider"

	colorActual = "#222222"
	colorYHat   = "#0072B2"
	colorBand   = "rgba(0, 114, 178, 0.2)"
)

func dates(bars []model.OHLCV) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Date.Format(dateLayout)
	}
	return out
}

func hidden() *bool { f := false; return &f }

// HistoryChart plots open and close over the full history with a range slider.
func HistoryChart(series *model.PriceSeries) Figure {
	x := dates(series.Bars)
	open := make([]float64, len(series.Bars))
	closes := make([]float64, len(series.Bars))
	for i, b := range series.Bars {
		open[i], closes[i] = b.Open, b.Close
	}
	return Figure{
		Data: []Trace{
			{Type: "scatter", Mode: "lines", Name: "stock_open", X: x, Y: open},
			{Type: "scatter", Mode: "lines", Name: "stock_close", X: x, Y: closes},
		},
		Layout: Layout{
			Title:      Title{Text: HistoryTitle},
			XAxis:      &Axis{Type: "date", RangeSlider: &RangeSlider{Visible: true}},
			ShowLegend: true,
		},
	}
}

// ForecastTitle is the heading of the forecast chart.
func ForecastTitle(years int) string {
	return fmt.Sprintf("Forecast plot for %d years", years)
}

// ForecastChart overlays actual closes, the predicted line and its band.
func ForecastChart(series *model.PriceSeries, res *model.ForecastResult, years int) Figure {
	n := len(res.Rows)
	x := make([]string, n)
	yhat := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i, r := range res.Rows {
		x[i] = r.DS.Format(dateLayout)
		yhat[i], lower[i], upper[i] = r.YHat, r.YHatLower, r.YHatUpper
	}
	actual := make([]float64, len(series.Bars))
	for i, b := range series.Bars {
		actual[i] = b.Close
	}
	return Figure{
		Data: []Trace{
			{Type: "scatter", Mode: "markers", Name: "Actual", X: dates(series.Bars), Y: actual,
				Marker: &Marker{Color: colorActual, Size: 3}},
			{Type: "scatter", Mode: "lines", Name: "yhat_upper", X: x, Y: upper,
				Line: &Line{Width: 0}, ShowLegend: hidden()},
			{Type: "scatter", Mode: "lines", Name: "yhat_lower", X: x, Y: lower,
				Line: &Line{Width: 0}, Fill: "tonexty", FillColor: colorBand, ShowLegend: hidden()},
			{Type: "scatter", Mode: "lines", Name: "Predicted", X: x, Y: yhat,
				Line: &Line{Color: colorYHat, Width: 2}},
		},
		Layout: Layout{
			Title:      Title{Text: ForecastTitle(years)},
			XAxis:      &Axis{Type: "date", RangeSlider: &RangeSlider{Visible: true}},
			YAxis:      &Axis{Title: &Title{Text: "y"}},
			ShowLegend: true,
		},
	}
}

// ComponentsChart stacks the trend and each seasonal profile as subplots.
func ComponentsChart(res *model.ForecastResult) Figure {
	x := make([]string, len(res.Rows))
	trend := make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		x[i] = r.DS.Format(dateLayout)
		trend[i] = r.Trend
	}
	fig := Figure{
		Data: []Trace{{Type: "scatter", Mode: "lines", Name: "trend", X: x, Y: trend,
			Line: &Line{Color: colorYHat, Width: 2}}},
		Layout: Layout{
			Title: Title{Text: "Forecast components"},
			XAxis: &Axis{Type: "date"},
			YAxis: &Axis{Title: &Title{Text: "trend"}},
		},
	}
	for i, s := range res.Seasonalities {
		if i >= 2 {
			break
		}
		axis := fmt.Sprintf("%d", i+2)
		fig.Data = append(fig.Data, Trace{
			Type: "scatter", Mode: "lines", Name: s.Name, X: s.Labels, Y: s.Values,
			Line: &Line{Color: colorYHat, Width: 2}, XAxis: "x" + axis, YAxis: "y" + axis,
		})
		xa, ya := &Axis{Type: "category"}, &Axis{Title: &Title{Text: s.Name}}
		if i == 0 {
			fig.Layout.XAxis2, fig.Layout.YAxis2 = xa, ya
		} else {
			fig.Layout.XAxis3, fig.Layout.YAxis3 = xa, ya
		}
	}
	rows := len(fig.Data)
	fig.Layout.Grid = &Grid{Rows: rows, Columns: 1, Pattern: "independent"}
	fig.Layout.Height = 300 * rows
	return fig
}
