package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while runs are being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			years        INTEGER,
			horizon_days INTEGER,
			row_count    INTEGER,
			first_date   TEXT,
			last_date    TEXT,
			last_close   REAL,
			final_yhat   REAL,
			final_lower  REAL,
			final_upper  REAL,
			cache_hit    INTEGER,
			duration_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON forecast_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON forecast_runs(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *ForecastRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO forecast_runs
		(timestamp, symbol, years, horizon_days, row_count, first_date, last_date,
		 last_close, final_yhat, final_lower, final_upper, cache_hit, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), run.Symbol, run.Years, run.HorizonDays, run.Rows,
		run.FirstDate, run.LastDate, run.LastClose,
		run.FinalYHat, run.FinalLower, run.FinalUpper,
		run.CacheHit, run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert forecast run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) ListRuns(ctx context.Context, symbol string, limit int) ([]ForecastRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	q := `SELECT timestamp, symbol, years, horizon_days, row_count, first_date, last_date,
		last_close, final_yhat, final_lower, final_upper, cache_hit, duration_ms
		FROM forecast_runs`
	args := []any{}
	if symbol != "" {
		q += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	q += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query forecast runs: %w", err)
	}
	defer rows.Close()

	runs := []ForecastRun{}
	for rows.Next() {
		var (
			run ForecastRun
			ts  int64
		)
		if err := rows.Scan(&ts, &run.Symbol, &run.Years, &run.HorizonDays, &run.Rows,
			&run.FirstDate, &run.LastDate, &run.LastClose,
			&run.FinalYHat, &run.FinalLower, &run.FinalUpper,
			&run.CacheHit, &run.DurationMS); err != nil {
			return nil, fmt.Errorf("scan forecast run: %w", err)
		}
		run.Timestamp = time.UnixMilli(ts).UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
