package domain

import (
	"fmt"
	"strings"
)

// Period is a named shorthand for a calendar date range.
type Period string

// Available periods.
const (
	// PeriodToday covers the current day.
	PeriodToday Period = "today"

	// PeriodTomorrow covers the next day.
	PeriodTomorrow Period = "tomorrow"

	// PeriodWeek covers the current ISO week, Monday to Sunday.
	PeriodWeek Period = "week"

	// PeriodMonth covers the current calendar month.
	PeriodMonth Period = "month"

	// PeriodFromNow covers today plus the following 364 days.
	PeriodFromNow Period = "fromnow"

	// PeriodCustom marks a range given as explicit start and end strings.
	PeriodCustom Period = "custom"
)

// NamedPeriods returns the periods that resolve without extra input,
// in display order.
func NamedPeriods() []Period {
	return []Period{PeriodToday, PeriodTomorrow, PeriodWeek, PeriodMonth, PeriodFromNow}
}

// ParsePeriod converts a token into a Period. Matching is case-insensitive.
// PeriodCustom is not accepted here since it needs explicit bounds.
func ParsePeriod(token string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(token)))
	if !p.IsNamed() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, token)
	}
	return p, nil
}

// IsValid returns true if the period is recognised.
func (p Period) IsValid() bool {
	return p.IsNamed() || p == PeriodCustom
}

// IsNamed returns true for periods that need no explicit bounds.
func (p Period) IsNamed() bool {
	switch p {
	case PeriodToday, PeriodTomorrow, PeriodWeek, PeriodMonth, PeriodFromNow:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Period) String() string {
	return string(p)
}

// Description returns a human-readable description of the period.
func (p Period) Description() string {
	switch p {
	case PeriodToday:
		return "Today"
	case PeriodTomorrow:
		return "Tomorrow"
	case PeriodWeek:
		return "This week"
	case PeriodMonth:
		return "This month"
	case PeriodFromNow:
		return "Next 365 days"
	case PeriodCustom:
		return "Custom range"
	default:
		return "Unknown"
	}
}
