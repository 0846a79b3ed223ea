package driving

import (
	"context"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// AgendaService resolves date ranges and queries meetings.
type AgendaService interface {
	// ResolveRange turns a period or custom bounds into a validated range.
	ResolveRange(req domain.RangeRequest) (domain.DateRange, error)

	// Query returns meetings matching the options, ordered by start time.
	Query(ctx context.Context, opts domain.QueryOptions) ([]domain.Meeting, error)

	// CheckProvider connects to the provider and releases it again,
	// reporting whether the backend is reachable.
	CheckProvider(ctx context.Context) error

	// ProviderName returns the configured provider's name.
	ProviderName() string
}

// ChangeNotifier reports changes in the underlying calendar.
// Only some providers support it (e.g. a watched iCalendar file).
type ChangeNotifier interface {
	// Changes returns a channel that receives a value after each change.
	// The channel is closed when ctx is done.
	Changes(ctx context.Context) (<-chan struct{}, error)
}
