package recorder

import (
	"context"
	"time"
)

// ForecastRun is one completed dashboard run.
type ForecastRun struct {
	Timestamp   time.Time `json:"timestamp"`
	Symbol      string    `json:"symbol"`
	Years       int       `json:"years"`
	HorizonDays int       `json:"horizon_days"`
	Rows        int       `json:"rows"`
	FirstDate   string    `json:"first_date"`
	LastDate    string    `json:"last_date"`
	LastClose   float64   `json:"last_close"`
	FinalYHat   float64   `json:"final_yhat"`
	FinalLower  float64   `json:"final_lower"`
	FinalUpper  float64   `json:"final_upper"`
	CacheHit    bool      `json:"cache_hit"`
	DurationMS  int64     `json:"duration_ms"`
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(ctx context.Context, run *ForecastRun) error
	// ListRuns returns up to limit runs, newest first. Symbol filters when non-empty.
	ListRuns(ctx context.Context, symbol string, limit int) ([]ForecastRun, error)
	Close() error
}
