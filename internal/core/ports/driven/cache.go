package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// MeetingCache stores materialised appointments per provider and range.
type MeetingCache interface {
	// Get returns cached meetings for the provider and range if an entry
	// younger than maxAge exists.
	Get(ctx context.Context, provider string, r domain.DateRange, maxAge time.Duration) ([]domain.Meeting, bool, error)

	// Put stores meetings for the provider and range, replacing any entry.
	Put(ctx context.Context, provider string, r domain.DateRange, meetings []domain.Meeting) error

	// Purge removes all entries and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}
