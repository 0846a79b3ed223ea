// Package cached decorates a calendar provider with a meeting cache so
// repeated queries for the same range skip the backend until the entry
// expires.
package cached

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// Ensure Provider implements the interfaces.
var (
	_ driven.CalendarProvider = (*Provider)(nil)
	_ driving.ChangeNotifier  = (*Provider)(nil)
)

// Provider serves cached results and falls through to the wrapped provider
// on a miss. The wrapped provider is only connected on a miss.
type Provider struct {
	inner driven.CalendarProvider
	cache driven.MeetingCache
	ttl   time.Duration

	// stale forces the next query to bypass the cache.
	stale atomic.Bool
}

// New wraps inner with cache. Entries older than ttl are ignored.
func New(inner driven.CalendarProvider, cache driven.MeetingCache, ttl time.Duration) *Provider {
	return &Provider{inner: inner, cache: cache, ttl: ttl}
}

// Name returns the wrapped provider's name.
func (p *Provider) Name() string {
	return p.inner.Name()
}

// Invalidate makes the next query bypass the cache.
func (p *Provider) Invalidate() {
	p.stale.Store(true)
}

// Connect returns a lazy connection.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &connection{provider: p}, nil
}

// Changes forwards change notifications of the wrapped provider and
// invalidates the cache on each one.
func (p *Provider) Changes(ctx context.Context) (<-chan struct{}, error) {
	notifier, ok := p.inner.(driving.ChangeNotifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not report changes", domain.ErrInvalidInput, p.inner.Name())
	}
	in, err := notifier.Changes(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range in {
			p.Invalidate()
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, nil
}

type connection struct {
	provider *Provider
	inner    driven.Connection
}

// Appointments implements driven.Connection.
func (c *connection) Appointments(ctx context.Context, r domain.DateRange) ([]driven.Appointment, error) {
	p := c.provider
	name := p.inner.Name()

	if !p.stale.Load() {
		meetings, ok, err := p.cache.Get(ctx, name, r, p.ttl)
		switch {
		case err != nil:
			logger.Warn("Reading meeting cache: %v", err)
		case ok:
			logger.Debug("Meeting cache hit for %s %s", name, r)
			return driven.StaticAppointments(meetings), nil
		}
	}

	if c.inner == nil {
		conn, err := p.inner.Connect(ctx)
		if err != nil {
			return nil, err
		}
		c.inner = conn
	}

	items, err := c.inner.Appointments(ctx, r)
	if err != nil {
		return nil, err
	}

	// Unreadable records stay in the result so the caller reports them.
	// A result containing any is not cached, so every query reports them.
	meetings := make([]domain.Meeting, 0, len(items))
	var failed []driven.Appointment
	for _, item := range items {
		m, err := driven.Materialize(item)
		if err != nil {
			failed = append(failed, driven.FailedAppointment{Err: err})
			continue
		}
		meetings = append(meetings, m)
	}

	if len(failed) > 0 {
		logger.Debug("Not caching %s %s: %d unreadable records", name, r, len(failed))
	} else if err := p.cache.Put(ctx, name, r, meetings); err != nil {
		logger.Warn("Writing meeting cache: %v", err)
	} else {
		p.stale.Store(false)
	}
	return append(driven.StaticAppointments(meetings), failed...), nil
}

// Close implements driven.Connection.
func (c *connection) Close() error {
	if c.inner == nil {
		return nil
	}
	err := c.inner.Close()
	c.inner = nil
	return err
}
