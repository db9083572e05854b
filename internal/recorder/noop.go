package recorder

import "context"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(context.Context, *ForecastRun) error { return nil }
func (n *NoopRecorder) ListRuns(context.Context, string, int) ([]ForecastRun, error) {
	return []ForecastRun{}, nil
}
func (n *NoopRecorder) Close() error { return nil }
