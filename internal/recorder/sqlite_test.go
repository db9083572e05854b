package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestRecorder(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	runs := []ForecastRun{
		{Timestamp: base, Symbol: "GOOG", Years: 1, HorizonDays: 365, Rows: 2100,
			FirstDate: "2016-01-04", LastDate: "2024-05-31", LastClose: 173.9,
			FinalYHat: 190.2, FinalLower: 170.1, FinalUpper: 210.3, DurationMS: 420},
		{Timestamp: base.Add(time.Minute), Symbol: "AAPL", Years: 2, HorizonDays: 730, CacheHit: true},
		{Timestamp: base.Add(2 * time.Minute), Symbol: "GOOG", Years: 4, HorizonDays: 1460, CacheHit: true},
	}
	for i := range runs {
		if err := r.RecordRun(ctx, &runs[i]); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	all, err := r.ListRuns(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d runs, want 3", len(all))
	}
	if all[0].Symbol != "GOOG" || all[0].Years != 4 || !all[0].CacheHit {
		t.Errorf("newest run wrong: %+v", all[0])
	}
	got := all[2]
	if !got.Timestamp.Equal(runs[0].Timestamp) {
		t.Errorf("timestamp = %s, want %s", got.Timestamp, runs[0].Timestamp)
	}
	got.Timestamp = runs[0].Timestamp
	if got != runs[0] {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, runs[0])
	}

	goog, err := r.ListRuns(ctx, "GOOG", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(goog) != 1 || goog[0].HorizonDays != 1460 {
		t.Errorf("filtered list wrong: %+v", goog)
	}
}

func TestSQLiteRecorder_EmptyList(t *testing.T) {
	r := openTestRecorder(t)
	runs, err := r.ListRuns(context.Background(), "MSFT", 0)
	if err != nil {
		t.Fatal(err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", runs)
	}
}

func TestSQLiteRecorder_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordRun(context.Background(), &ForecastRun{Symbol: "GME", Years: 3}); err != nil {
		t.Fatal(err)
	}
	r.Close()

	r2, err := NewSQLiteRecorder(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()
	runs, err := r2.ListRuns(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Symbol != "GME" {
		t.Errorf("unexpected runs after reopen: %+v", runs)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordRun(context.Background(), &ForecastRun{}); err != nil {
		t.Fatal(err)
	}
	runs, err := r.ListRuns(context.Background(), "", 5)
	if err != nil || len(runs) != 0 {
		t.Errorf("noop list = %v, %v", runs, err)
	}
}
