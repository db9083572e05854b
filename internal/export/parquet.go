// Package export writes model tables to Parquet for offline analysis.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"StockWise/internal/model"
)

// TrainingRecord is the Parquet schema for shaped training rows.
type TrainingRecord struct {
	DS int64   `parquet:"ds,timestamp(millisecond)"` // Unix ms
	Y  float64 `parquet:"y"`
}

// ForecastRecord is the Parquet schema for model output rows.
type ForecastRecord struct {
	DS         int64   `parquet:"ds,timestamp(millisecond)"`
	YHat       float64 `parquet:"yhat"`
	YHatLower  float64 `parquet:"yhat_lower"`
	YHatUpper  float64 `parquet:"yhat_upper"`
	Trend      float64 `parquet:"trend"`
	Weekly     float64 `parquet:"weekly"`
	Yearly     float64 `parquet:"yearly"`
	IsForecast bool    `parquet:"is_forecast"`
}

// WriteTraining writes rows to path, creating parent directories.
func WriteTraining(path string, rows []model.TrainingRow) error {
	records := make([]TrainingRecord, len(rows))
	for i, r := range rows {
		records[i] = TrainingRecord{DS: r.DS.UnixMilli(), Y: r.Y}
	}
	return writeParquetFile(path, records)
}

// ReadTraining reads a file written by WriteTraining.
func ReadTraining(path string) ([]model.TrainingRow, error) {
	records, err := parquet.ReadFile[TrainingRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rows := make([]model.TrainingRow, len(records))
	for i, r := range records {
		rows[i] = model.TrainingRow{DS: time.UnixMilli(r.DS).UTC(), Y: r.Y}
	}
	return rows, nil
}

// WriteForecast writes model output rows to path.
func WriteForecast(path string, rows []model.ForecastRow) error {
	records := make([]ForecastRecord, len(rows))
	for i, r := range rows {
		records[i] = ForecastRecord{
			DS:         r.DS.UnixMilli(),
			YHat:       r.YHat,
			YHatLower:  r.YHatLower,
			YHatUpper:  r.YHatUpper,
			Trend:      r.Trend,
			Weekly:     r.Weekly,
			Yearly:     r.Yearly,
			IsForecast: r.IsForecast,
		}
	}
	return writeParquetFile(path, records)
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
