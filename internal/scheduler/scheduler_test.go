package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"StockWise/internal/cache"
)

type fakeWarmer struct {
	n     int
	err   error
	calls int
}

func (f *fakeWarmer) Warm(context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

type fakeAlerter struct{ msgs []string }

func (f *fakeAlerter) SendWithRetry(_ context.Context, text string, _ int) error {
	f.msgs = append(f.msgs, text)
	return nil
}

func TestRegisterAll(t *testing.T) {
	tests := []struct {
		name     string
		sweep    string
		warmup   string
		warmer   Warmer
		wantJobs int
		wantErr  bool
	}{
		{"sweep only", "0 0 0 * * *", "", &fakeWarmer{}, 1, false},
		{"sweep and warmup", "0 0 0 * * *", "0 30 16 * * 1-5", &fakeWarmer{}, 2, false},
		{"warmup without warmer", "0 0 0 * * *", "0 30 16 * * 1-5", nil, 1, false},
		{"bad sweep cron", "nonsense", "", nil, 0, true},
		{"bad warmup cron", "0 0 0 * * *", "61 * * * * *", &fakeWarmer{}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cache.New[string, int](cache.NeverEvict{})
			s := NewScheduler(context.Background(), time.UTC, c, tt.warmer, nil, zerolog.Nop())
			err := s.RegisterAll(tt.sweep, tt.warmup)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RegisterAll error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := len(s.Cron.Entries()); got != tt.wantJobs {
				t.Errorf("jobs = %d, want %d", got, tt.wantJobs)
			}
		})
	}
}

func TestSweepTask(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	c := cache.New[string, int](cache.DayBoundary{Location: time.UTC}, cache.WithClock(func() time.Time { return now }))
	c.Put("a", 1)
	c.Put("b", 2)
	now = now.Add(24 * time.Hour)

	s := NewScheduler(context.Background(), time.UTC, c, nil, nil, zerolog.Nop())
	s.sweepTask()
	if c.Len() != 0 {
		t.Errorf("expected expired entries swept, %d left", c.Len())
	}
}

func TestWarmupTask(t *testing.T) {
	c := cache.New[string, int](cache.NeverEvict{})

	ok := &fakeWarmer{n: 4}
	alerts := &fakeAlerter{}
	s := NewScheduler(context.Background(), time.UTC, c, ok, alerts, zerolog.Nop())
	s.RunWarmupNow()
	if ok.calls != 1 || len(alerts.msgs) != 0 {
		t.Errorf("successful warmup: calls=%d alerts=%d", ok.calls, len(alerts.msgs))
	}

	bad := &fakeWarmer{n: 3, err: errors.New("GME: provider down")}
	s = NewScheduler(context.Background(), time.UTC, c, bad, alerts, zerolog.Nop())
	s.RunWarmupNow()
	if len(alerts.msgs) != 1 || !strings.Contains(alerts.msgs[0], "GME: provider down") {
		t.Errorf("expected failure alert, got %v", alerts.msgs)
	}
}
