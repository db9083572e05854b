package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"StockWise/internal/config"
	"StockWise/internal/dashboard"
	"StockWise/internal/export"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.DataSource.Provider = "mock"
	cfg.DataSource.StartDate = "2023-01-01"
	cfg.DataSource.Timezone = "UTC"
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "runs.db")
	return &App{
		Config: cfg,
		Logger: zerolog.Nop(),
		Clock:  dashboard.FixedClock{T: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSymbolsCmd(t *testing.T) {
	out, err := execute(t, testApp(t), "symbols")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"LABEL", "Google", "GME"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestForecastCmd(t *testing.T) {
	out, err := execute(t, testApp(t), "forecast", "--symbol", "MSFT", "--years", "2")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{dashboard.StatusLoading, dashboard.StatusLoaded, "Forecast plot for 2 years", "yhat_lower"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestForecastCmd_JSON(t *testing.T) {
	app := testApp(t)
	out, err := execute(t, app, "forecast", "-s", "GOOG", "-y", "1", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, out)
	}
	if payload["symbol"] != "GOOG" {
		t.Errorf("symbol = %v", payload["symbol"])
	}
}

func TestForecastCmd_Rejects(t *testing.T) {
	if _, err := execute(t, testApp(t), "forecast", "--symbol", "TSLA"); err == nil {
		t.Error("expected unsupported symbol error")
	}
	if _, err := execute(t, testApp(t), "forecast", "--years", "9"); err == nil {
		t.Error("expected unsupported horizon error")
	}
}

func TestExportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goog.parquet")
	out, err := execute(t, testApp(t), "export", "--symbol", "GOOG", "--out", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wrote") {
		t.Errorf("output = %q", out)
	}
	rows, err := export.ReadTraining(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 || rows[0].DS.Before(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected rows: %d", len(rows))
	}

	if _, err := execute(t, testApp(t), "export"); err == nil {
		t.Error("expected error without --out")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, testApp(t), "version")
	if err != nil || !strings.Contains(out, Version) {
		t.Errorf("version = %q, %v", out, err)
	}
}
