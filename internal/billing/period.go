package billing

import (
	"errors"
	"fmt"
	"time"
)

// Period kinds accepted by report generation.
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodCustom  = "custom"
)

// ErrInvalidPeriod means an unknown period kind was requested.
var ErrInvalidPeriod = errors.New("period must be month, quarter, year or custom")

// Window is a half-open [Start, End) reporting range with a display label.
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolvePeriod turns a period kind into a concrete window relative to now.
// PeriodCustom is resolved by CustomWindow instead since it needs explicit dates.
func ResolvePeriod(kind string, now time.Time) (Window, error) {
	switch kind {
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{
			Start: start,
			End:   start.AddDate(0, 1, 0),
			Label: start.Format("January 2006"),
		}, nil
	case PeriodQuarter:
		quarter := (int(now.Month()) - 1) / 3
		start := time.Date(now.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, now.Location())
		return Window{
			Start: start,
			End:   start.AddDate(0, 3, 0),
			Label: fmt.Sprintf("Q%d %d", quarter+1, now.Year()),
		}, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Window{
			Start: start,
			End:   start.AddDate(1, 0, 0),
			Label: fmt.Sprintf("Year %d", now.Year()),
		}, nil
	default:
		return Window{}, ErrInvalidPeriod
	}
}

// CustomWindow builds an explicit [start, end) window. The end date is
// inclusive as given by the caller and extended to the start of the next day.
func CustomWindow(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, ErrInvalidPeriod
	}
	exclusiveEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	return Window{
		Start: start,
		End:   exclusiveEnd,
		Label: fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
	}, nil
}
