package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period is a named relative time window.
type Period string

const (
	PeriodMonth     Period = "month"
	PeriodLastMonth Period = "last-month"
	PeriodYear      Period = "year"
	PeriodAll       Period = "all"
)

// DefaultPeriod is used when no period is requested.
const DefaultPeriod = PeriodMonth

// ErrUnknownPeriod is returned by ParsePeriod for unrecognized values.
var ErrUnknownPeriod = errors.New("unknown period")

// ParsePeriod validates a period name. An empty value yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPeriod, nil
	case PeriodMonth, PeriodLastMonth, PeriodYear, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Range is an inclusive time window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ResolvePeriod maps a period to a concrete range relative to now, in now's
// location. bounded is false for PeriodAll.
func ResolvePeriod(p Period, now time.Time) (r Range, bounded bool) {
	y, m, _ := now.Date()
	loc := now.Location()

	switch p {
	case PeriodMonth, "":
		return Range{
			Start: time.Date(y, m, 1, 0, 0, 0, 0, loc),
			End:   endOfDay(time.Date(y, m+1, 0, 0, 0, 0, 0, loc)),
		}, true
	case PeriodLastMonth:
		return Range{
			Start: time.Date(y, m-1, 1, 0, 0, 0, 0, loc),
			End:   endOfDay(time.Date(y, m, 0, 0, 0, 0, 0, loc)),
		}, true
	case PeriodYear:
		return Range{
			Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
			End:   endOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc)),
		}, true
	default:
		return Range{}, false
	}
}

// endOfDay returns 23:59:59.999 of t's day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
