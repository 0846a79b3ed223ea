package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// DateRangeResolver maps period tokens or custom bounds to concrete ranges.
type DateRangeResolver struct {
	now           Clock
	loc           *time.Location
	defaultPeriod domain.Period
}

// NewDateRangeResolver creates a resolver using the local clock and zone.
func NewDateRangeResolver() *DateRangeResolver {
	return &DateRangeResolver{
		now:           time.Now,
		loc:           time.Local,
		defaultPeriod: domain.PeriodFromNow,
	}
}

// WithClock sets the clock used for named periods.
func (r *DateRangeResolver) WithClock(now Clock) *DateRangeResolver {
	r.now = now
	return r
}

// WithLocation sets the zone used to parse custom bounds.
func (r *DateRangeResolver) WithLocation(loc *time.Location) *DateRangeResolver {
	r.loc = loc
	return r
}

// WithDefaultPeriod sets the period used when a request names none.
func (r *DateRangeResolver) WithDefaultPeriod(p domain.Period) *DateRangeResolver {
	if p.IsNamed() {
		r.defaultPeriod = p
	}
	return r
}

// Resolve computes the range for a named period token.
func (r *DateRangeResolver) Resolve(period string) (domain.DateRange, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.RangeForPeriod(p, r.now().In(r.loc))
}

// ResolveCustom parses explicit bounds and rejects start > end.
func (r *DateRangeResolver) ResolveCustom(start, end string) (domain.DateRange, error) {
	dr, err := domain.ParseCustomRange(start, end, r.loc)
	if err != nil {
		return domain.DateRange{}, err
	}
	if err := dr.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return dr, nil
}

// ResolveRequest resolves either a period or custom bounds.
// Supplying both is rejected; supplying neither selects the default period.
func (r *DateRangeResolver) ResolveRequest(req domain.RangeRequest) (domain.DateRange, error) {
	switch {
	case req.IsCustom() && req.Period != "":
		return domain.DateRange{}, fmt.Errorf("%w: period and custom range are mutually exclusive",
			domain.ErrInvalidInput)
	case req.IsCustom():
		if req.CustomStart == "" || req.CustomEnd == "" {
			return domain.DateRange{}, fmt.Errorf("%w: custom range needs both START and END",
				domain.ErrInvalidInput)
		}
		return r.ResolveCustom(req.CustomStart, req.CustomEnd)
	case req.Period != "":
		return r.Resolve(req.Period)
	default:
		return r.Resolve(r.defaultPeriod.String())
	}
}
