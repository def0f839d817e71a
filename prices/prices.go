package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotPublished is returned by a Provider when the market has not
// yet published prices for the requested delivery date.
var ErrNotPublished = errors.New("prices not yet published for requested date")

// Interval is one market time unit (15 minutes) with a single price.
type Interval struct {
	Start time.Time       // inclusive, UTC
	End   time.Time       // exclusive, UTC
	Price decimal.Decimal // price per MWh in the configured currency
}

// Contains reports whether t falls within the half-open range
// [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Day is the price series for one delivery day, sorted by start time.
type Day []Interval

// Validate checks that the series is non-empty, sorted by start time,
// and that the intervals are contiguous and non-overlapping.
func (d Day) Validate() error {
	if len(d) == 0 {
		return errors.New("empty price series")
	}
	for i, iv := range d {
		if !iv.Start.Before(iv.End) {
			return fmt.Errorf("interval %d has start %s not before end %s", i, iv.Start, iv.End)
		}
		if i > 0 && !d[i-1].End.Equal(iv.Start) {
			return fmt.Errorf("interval %d starting %s is not contiguous with previous ending %s",
				i, iv.Start, d[i-1].End)
		}
	}
	return nil
}

// ActiveAt returns the interval whose half-open range contains t.
// The second return value is false when t falls outside the series.
func (d Day) ActiveAt(t time.Time) (Interval, bool) {
	for _, iv := range d {
		if iv.Contains(t) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Provider fetches the day-ahead price series for one delivery date.
type Provider interface {
	Name() string
	DayAhead(ctx context.Context, date time.Time) (Day, error)
}
