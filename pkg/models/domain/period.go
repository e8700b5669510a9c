package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire form for calendar dates exchanged with the
// analytics service.
const DateLayout = "2006-01-02"

// Period is an inclusive calendar date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod returns the period spanning start to end.
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("invalid period: start date (%s) must not be after end date (%s)",
			start.Format(DateLayout), end.Format(DateLayout))
	}
	return Period{Start: start, End: end}, nil
}

// LastDays returns the period covering the n days up to and including today.
func LastDays(n int, today time.Time) Period {
	return Period{Start: today.AddDate(0, 0, -n), End: today}
}

// Format renders both bounds as yyyy-MM-dd strings.
func (p Period) Format() (startDate, endDate string) {
	return p.Start.Format(DateLayout), p.End.Format(DateLayout)
}

// Days reports the number of days the period spans.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours() / 24)
}
