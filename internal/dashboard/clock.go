package dashboard

import (
	"time"

	"StockWise/internal/model"
)

// Clock supplies the current time so "today" is explicit and testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// Today is the current calendar day in loc, as midnight UTC.
func Today(c Clock, loc *time.Location) time.Time {
	return model.TruncateDay(c.Now(), loc)
}
