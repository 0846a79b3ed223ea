package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// Ensure AgendaService implements the interface.
var _ driving.AgendaService = (*AgendaService)(nil)

// AgendaService queries a calendar provider and post-filters the results.
type AgendaService struct {
	provider driven.CalendarProvider
	resolver *DateRangeResolver
	now      Clock
}

// NewAgendaService creates a new agenda service.
// A nil resolver defaults to NewDateRangeResolver().
func NewAgendaService(provider driven.CalendarProvider, resolver *DateRangeResolver) *AgendaService {
	if resolver == nil {
		resolver = NewDateRangeResolver()
	}
	return &AgendaService{
		provider: provider,
		resolver: resolver,
		now:      time.Now,
	}
}

// WithClock sets the clock used for past-meeting filtering.
func (s *AgendaService) WithClock(now Clock) *AgendaService {
	s.now = now
	return s
}

// ProviderName returns the configured provider's name.
func (s *AgendaService) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// ResolveRange turns a period or custom bounds into a validated range.
func (s *AgendaService) ResolveRange(req domain.RangeRequest) (domain.DateRange, error) {
	return s.resolver.ResolveRequest(req)
}

// CheckProvider connects to the provider and releases the connection.
func (s *AgendaService) CheckProvider(ctx context.Context) error {
	if s.provider == nil {
		return domain.ErrNotConfigured
	}
	conn, err := s.provider.Connect(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Query returns meetings inside opts.Range that pass every supplied filter.
// Records whose fields cannot be read are logged and skipped.
func (s *AgendaService) Query(ctx context.Context, opts domain.QueryOptions) (_ []domain.Meeting, err error) {
	logger.Section("Meeting Query")

	if err := opts.Range.Validate(); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, domain.ErrNotConfigured
	}

	logger.Debug("Provider: %s", s.provider.Name())
	logger.Debug("Range: %s", opts.Range)
	logger.Debug("Filters: subject=%q organizer=%q attendee=%q include_past=%t",
		opts.Filters.Subject, opts.Filters.Organizer, opts.Filters.Attendee, opts.IncludePast)

	conn, err := s.provider.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Warn("closing %s connection: %v", s.provider.Name(), cerr)
		}
	}()

	items, err := conn.Appointments(ctx, opts.Range)
	if err != nil {
		return nil, s.providerError("query appointments", err)
	}
	logger.Debug("Provider returned %d appointments", len(items))

	now := s.now()
	meetings := make([]domain.Meeting, 0, len(items))
	skipped := 0

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, keep, err := s.evaluate(item, opts.Filters)
		if err != nil {
			skipped++
			logger.Error("Error processing meeting %d: %v", i+1, err)
			continue
		}
		if !keep {
			continue
		}
		if !opts.IncludePast && m.IsPast(now) {
			continue
		}
		meetings = append(meetings, m)
	}

	// Providers sort already; a stable sort keeps their order for ties.
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Start.Before(meetings[j].Start)
	})

	logger.Info("Matched %d meetings (%d skipped)", len(meetings), skipped)
	return meetings, nil
}

// evaluate applies filters in order subject, organizer, attendee, reading
// each field only when needed, then reads the remaining fields of a kept record.
func (s *AgendaService) evaluate(item driven.Appointment, f domain.FilterSet) (domain.Meeting, bool, error) {
	var m domain.Meeting
	var err error

	if m.Subject, err = item.Text(domain.FieldSubject); err != nil {
		return m, false, err
	}
	if !f.MatchSubject(m.Subject) {
		return m, false, nil
	}

	if m.Organizer, err = item.Text(domain.FieldOrganizer); err != nil {
		return m, false, err
	}
	if !f.MatchOrganizer(m.Organizer) {
		return m, false, nil
	}

	if m.RequiredAttendees, err = item.Text(domain.FieldRequiredAttendees); err != nil {
		return m, false, err
	}
	if !f.MatchAttendee(m.RequiredAttendees) {
		return m, false, nil
	}

	if m.Start, err = item.Time(domain.FieldStart); err != nil {
		return m, false, err
	}
	if m.End, err = item.Time(domain.FieldEnd); err != nil {
		return m, false, err
	}
	if m.Location, err = item.Text(domain.FieldLocation); err != nil {
		return m, false, err
	}
	if m.Body, err = item.Text(domain.FieldBody); err != nil {
		return m, false, err
	}
	if m.IsRecurring, err = item.Bool(domain.FieldIsRecurring); err != nil {
		return m, false, err
	}
	return m, true, nil
}

// providerError keeps typed provider errors and wraps anything else.
func (s *AgendaService) providerError(op string, err error) error {
	if errors.Is(err, domain.ErrProviderUnavailable) ||
		errors.Is(err, domain.ErrProviderNotInstalled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.NewProviderError(s.provider.Name(), op, err)
}
