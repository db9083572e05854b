package dashboard

import (
	"strconv"

	"StockWise/internal/model"
)

const dateLayout = "2006-01-02"

// Table is a rendered preview grid.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// RawTable renders daily bars.
func RawTable(bars []model.OHLCV) Table {
	t := Table{
		Columns: []string{"Date", "Open", "High", "Low", "Close", "Volume"},
		Rows:    make([][]string, 0, len(bars)),
	}
	for _, b := range bars {
		t.Rows = append(t.Rows, []string{
			b.Date.Format(dateLayout),
			num(b.Open), num(b.High), num(b.Low), num(b.Close),
			strconv.FormatFloat(b.Volume, 'f', 0, 64),
		})
	}
	return t
}

// ForecastTable renders model output rows.
func ForecastTable(rows []model.ForecastRow) Table {
	t := Table{
		Columns: []string{"ds", "yhat", "yhat_lower", "yhat_upper", "trend", "weekly", "yearly"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.DS.Format(dateLayout),
			num(r.YHat), num(r.YHatLower), num(r.YHatUpper),
			num(r.Trend), num(r.Weekly), num(r.Yearly),
		})
	}
	return t
}
