package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"StockWise/internal/catalog"
	"StockWise/internal/collector"
	"StockWise/internal/dashboard"
	"StockWise/internal/forecast"
)

type sent struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func newTestNotifier(t *testing.T, h http.Handler) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "100", "", zerolog.Nop())
	n.BaseURL = srv.URL
	return n
}

func TestSend(t *testing.T) {
	var got sent
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if got.ChatID != "100" || got.Text != "hello" {
		t.Errorf("sent %+v", got)
	}
}

func TestSend_APIError(t *testing.T) {
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	if err := n.Send(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSendWithRetry_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	err := n.SendWithRetry(context.Background(), "x", 3)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected APIError 400, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("client errors are not retried, got %d attempts", calls.Load())
	}
}

func TestSendWithRetry_StopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := n.SendWithRetry(ctx, "x", 3)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one attempt before the backoff was cut short, got %d", calls.Load())
	}
}

func newCommands(t *testing.T) *Commands {
	t.Helper()
	loader := collector.NewLoader(&collector.MockFetcher{Price: 80}, nil, zerolog.Nop())
	p := dashboard.NewPipeline(catalog.Default(), loader, forecast.NewForecaster(forecast.DefaultOptions()), nil,
		dashboard.FixedClock{T: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		dashboard.Settings{Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}, zerolog.Nop())
	return &Commands{Pipeline: p}
}

func TestCommands_Handle(t *testing.T) {
	c := newCommands(t)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"forecast", "/forecast GOOG 1", "Forecast plot for 1 years"},
		{"forecast by label", "/forecast@StockWiseBot Microsoft 2", "Microsoft (MSFT)"},
		{"symbols", "/symbols", "GameStop (GME)"},
		{"unknown symbol", "/forecast TSLA 1", "Unsupported symbol"},
		{"bad horizon", "/forecast GOOG 9", "Unsupported horizon"},
		{"bad usage", "/forecast GOOG", "Usage"},
		{"non-numeric years", "/forecast GOOG one", "Usage"},
		{"help", "hello", "/forecast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Handle(context.Background(), tt.in)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Handle(%q) = %q, want substring %q", tt.in, got, tt.want)
			}
		})
	}
	if got := c.Handle(context.Background(), "   "); got != "" {
		t.Errorf("blank message should be ignored, got %q", got)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", collector.ErrDataUnavailable), "No price data"},
		{forecast.ErrInsufficientData, "Not enough history"},
		{&collector.TransientFetchError{Provider: "yahoo", Symbol: "GOOG", Err: errors.New("timeout")}, "provider unavailable"},
		{errors.New("<boom>"), "&lt;boom&gt;"},
	}
	for _, tt := range tests {
		if got := FormatError(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("FormatError(%v) = %q", tt.err, got)
		}
	}
}

func TestStartPolling_RepliesToSenderChat(t *testing.T) {
	var polls atomic.Int32
	replies := make(chan sent, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) == 1 {
			fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":" /symbols ","chat":{"id":42}}}]}`)
			return
		}
		if r.URL.Query().Get("offset") != "8" {
			t.Errorf("offset = %s, want 8", r.URL.Query().Get("offset"))
		}
		time.Sleep(10 * time.Millisecond)
		fmt.Fprint(w, `{"ok":true,"result":[]}`)
	})
	mux.HandleFunc("/botTOKEN/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var s sent
		json.NewDecoder(r.Body).Decode(&s)
		select {
		case replies <- s:
		default:
		}
		fmt.Fprint(w, `{"ok":true}`)
	})
	n := newTestNotifier(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string { return "got " + cmd })
		close(done)
	}()

	select {
	case s := <-replies:
		if s.ChatID != "42" || s.Text != "got /symbols" {
			t.Errorf("reply = %+v", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}
}
