package calculator

import "StockWise/internal/model"

// Shape maps a price series onto the model's training columns: ds is the
// bar date, y the close. Order and length are preserved.
func Shape(series *model.PriceSeries) []model.TrainingRow {
	if series == nil {
		return []model.TrainingRow{}
	}
	rows := make([]model.TrainingRow, len(series.Bars))
	for i, b := range series.Bars {
		rows[i] = model.TrainingRow{DS: b.Date, Y: b.Close}
	}
	return rows
}
