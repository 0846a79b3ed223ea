package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

var fixedNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestResolver() *DateRangeResolver {
	return NewDateRangeResolver().WithClock(fixedClock).WithLocation(time.UTC)
}

func TestResolver_Resolve(t *testing.T) {
	r, err := newTestResolver().Resolve("today")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, r.Start.AddDate(0, 0, 1).Add(-time.Second), r.End)
}

func TestResolver_ResolveUnknownPeriod(t *testing.T) {
	_, err := newTestResolver().Resolve("fortnight")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPeriod))
}

func TestResolver_ResolveIdempotent(t *testing.T) {
	res := newTestResolver()
	for _, p := range domain.NamedPeriods() {
		a, err := res.Resolve(p.String())
		require.NoError(t, err)
		b, err := res.Resolve(p.String())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestResolver_ResolveCustom(t *testing.T) {
	r, err := newTestResolver().ResolveCustom("2024-01-01", "2024-01-02 18:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, time.January, 2, 18, 0, 0, 0, time.UTC), r.End)
}

func TestResolver_ResolveCustomStartAfterEnd(t *testing.T) {
	_, err := newTestResolver().ResolveCustom("2024-02-01", "2024-01-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
}

func TestResolver_ResolveCustomBadFormat(t *testing.T) {
	_, err := newTestResolver().ResolveCustom("2024/01/01", "2024-01-02")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidDateFormat))
}

func TestResolver_ResolveRequest(t *testing.T) {
	res := newTestResolver()

	tests := []struct {
		name    string
		req     domain.RangeRequest
		want    time.Time
		wantErr error
	}{
		{"default is fromnow", domain.RangeRequest{}, time.Date(2025, time.March, 12, 23, 59, 59, 0, time.UTC), nil},
		{"named", domain.RangeRequest{Period: "tomorrow"}, time.Date(2024, time.March, 14, 23, 59, 59, 0, time.UTC), nil},
		{"custom", domain.RangeRequest{CustomStart: "2024-05-01", CustomEnd: "2024-05-02"}, time.Date(2024, time.May, 2, 23, 59, 0, 0, time.UTC), nil},
		{"both", domain.RangeRequest{Period: "week", CustomStart: "2024-05-01", CustomEnd: "2024-05-02"}, time.Time{}, domain.ErrInvalidInput},
		{"half custom", domain.RangeRequest{CustomStart: "2024-05-01"}, time.Time{}, domain.ErrInvalidInput},
		{"bad period", domain.RangeRequest{Period: "yesterday"}, time.Time{}, domain.ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := res.ResolveRequest(tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.End)
		})
	}
}

func TestResolver_WithDefaultPeriod(t *testing.T) {
	res := newTestResolver().WithDefaultPeriod(domain.PeriodWeek)
	r, err := res.ResolveRequest(domain.RangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, time.Monday, r.Start.Weekday())

	// Custom is not a default candidate and is ignored.
	res = newTestResolver().WithDefaultPeriod(domain.PeriodCustom)
	r, err = res.ResolveRequest(domain.RangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 365*24*time.Hour-time.Second, r.Duration())
}
