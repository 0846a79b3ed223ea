package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted for custom ranges.
const (
	// DateLayout is the date-only layout (YYYY-MM-DD).
	DateLayout = "2006-01-02"

	// DateTimeLayout is the date and time-of-day layout (YYYY-MM-DD HH:MM).
	DateTimeLayout = "2006-01-02 15:04"
)

// DateRange is a concrete pair of instants in local time.
// Both bounds are inclusive; Start <= End for a valid range.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Validate returns ErrInvalidRange if Start is after End.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			r.Start.Format(DateTimeLayout), r.End.Format(DateTimeLayout))
	}
	return nil
}

// Encloses reports whether [start, end] lies entirely inside the range,
// i.e. start >= r.Start and end <= r.End.
func (r DateRange) Encloses(start, end time.Time) bool {
	return !start.Before(r.Start) && !end.After(r.End)
}

// Duration returns End - Start.
func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// String formats the range as "YYYY-MM-DD HH:MM to YYYY-MM-DD HH:MM".
func (r DateRange) String() string {
	return r.Start.Format(DateTimeLayout) + " to " + r.End.Format(DateTimeLayout)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfSpan returns one second before start advanced by the given calendar span.
func endOfSpan(start time.Time, years, months, days int) time.Time {
	return start.AddDate(years, months, days).Add(-time.Second)
}

// RangeForPeriod computes the range for a named period relative to now.
// Calendar arithmetic uses AddDate so that days stay aligned to local
// midnight across DST changes.
func RangeForPeriod(p Period, now time.Time) (DateRange, error) {
	today := StartOfDay(now)

	switch p {
	case PeriodToday:
		return DateRange{Start: today, End: endOfSpan(today, 0, 0, 1)}, nil

	case PeriodTomorrow:
		start := today.AddDate(0, 0, 1)
		return DateRange{Start: start, End: endOfSpan(start, 0, 0, 1)}, nil

	case PeriodWeek:
		// Go weeks start on Sunday; shift so Monday is day 0.
		offset := (int(now.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return DateRange{Start: start, End: endOfSpan(start, 0, 0, 7)}, nil

	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfSpan(start, 0, 1, 0)}, nil

	case PeriodFromNow:
		return DateRange{Start: today, End: endOfSpan(today, 0, 0, 365)}, nil

	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
}

// ParseDateTime parses "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in loc.
// When the time of day is omitted, defaultHour:defaultMinute is used.
func ParseDateTime(value string, defaultHour, defaultMinute int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)

	if t, err := time.ParseInLocation(DateTimeLayout, value, loc); err == nil {
		return t, nil
	}

	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)",
			ErrInvalidDateFormat, value)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), defaultHour, defaultMinute, 0, 0, loc), nil
}

// ParseCustomRange parses explicit start and end strings.
// A start without a time defaults to 00:00, an end without one to 23:59.
// The returned range is not validated; callers reject start > end.
func ParseCustomRange(start, end string, loc *time.Location) (DateRange, error) {
	s, err := ParseDateTime(start, 0, 0, loc)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDateTime(end, 23, 59, loc)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}
