package dashboard

import (
	"testing"
	"time"

	"StockWise/internal/model"
)

func TestTables(t *testing.T) {
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	raw := RawTable([]model.OHLCV{{Date: d, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1234}})
	want := []string{"2024-01-02", "1.00", "2.00", "0.50", "1.50", "1234"}
	for i, v := range want {
		if raw.Rows[0][i] != v {
			t.Errorf("raw col %s = %s, want %s", raw.Columns[i], raw.Rows[0][i], v)
		}
	}

	fc := ForecastTable([]model.ForecastRow{{DS: d, YHat: 10, YHatLower: 9, YHatUpper: 11}})
	if fc.Columns[0] != "ds" || fc.Columns[1] != "yhat" || fc.Rows[0][2] != "9.00" {
		t.Errorf("forecast table = %+v", fc)
	}

	empty := RawTable(nil)
	if empty.Rows == nil || len(empty.Rows) != 0 {
		t.Error("empty table should have non-nil rows")
	}
}

func TestComponentsChart_WithoutSeasonality(t *testing.T) {
	res := &model.ForecastResult{Rows: []model.ForecastRow{{Trend: 1}, {Trend: 2}}}
	fig := ComponentsChart(res)
	if len(fig.Data) != 1 || fig.Layout.Grid.Rows != 1 || fig.Layout.XAxis2 != nil {
		t.Errorf("unexpected figure: %+v", fig.Layout)
	}
}

func TestToday(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 02:00 UTC on the 4th is still the 3rd in New York.
	c := FixedClock{T: time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC)}
	if got := Today(c, ny); !got.Equal(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Today = %s", got)
	}
}
