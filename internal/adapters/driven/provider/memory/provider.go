// Package memory provides an in-process calendar provider.
// It backs the "memory" provider kind and is the fake used by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.CalendarProvider = (*Provider)(nil)

// Provider serves appointments from memory.
type Provider struct {
	mu sync.Mutex

	name        string
	meetings    []domain.Meeting
	fieldErrors map[int]map[domain.Field]error

	connectErr error
	queryErr   error

	connects int
	closes   int
}

// New creates a provider holding the given meetings.
func New(meetings ...domain.Meeting) *Provider {
	return &Provider{
		name:        "memory",
		meetings:    append([]domain.Meeting(nil), meetings...),
		fieldErrors: make(map[int]map[domain.Field]error),
	}
}

// WithName overrides the provider name.
func (p *Provider) WithName(name string) *Provider {
	p.name = name
	return p
}

// Add appends a meeting and returns its index.
func (p *Provider) Add(m domain.Meeting) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.meetings = append(p.meetings, m)
	return len(p.meetings) - 1
}

// FailField makes reads of field on the meeting at index fail with err.
func (p *Provider) FailField(index int, field domain.Field, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fieldErrors[index] == nil {
		p.fieldErrors[index] = make(map[domain.Field]error)
	}
	p.fieldErrors[index][field] = err
}

// FailConnect makes Connect return err.
func (p *Provider) FailConnect(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connectErr = err
}

// FailQuery makes Appointments return err.
func (p *Provider) FailQuery(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queryErr = err
}

// Stats returns how many connections were opened and closed.
func (p *Provider) Stats() (connects, closes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects, p.closes
}

// Name implements driven.CalendarProvider.
func (p *Provider) Name() string {
	return p.name
}

// Connect implements driven.CalendarProvider.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connectErr != nil {
		return nil, p.connectErr
	}
	p.connects++
	return &connection{provider: p}, nil
}

type connection struct {
	provider *Provider
	closed   bool
}

// Appointments returns meetings enclosed by r, sorted by start.
func (c *connection) Appointments(ctx context.Context, r domain.DateRange) ([]driven.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := c.provider
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.closed {
		return nil, domain.NewProviderError(p.name, "query appointments", errConnectionClosed)
	}
	if p.queryErr != nil {
		return nil, p.queryErr
	}

	type indexed struct {
		index int
		m     domain.Meeting
	}
	var matched []indexed
	for i, m := range p.meetings {
		if r.Encloses(m.Start, m.End) {
			matched = append(matched, indexed{index: i, m: m})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].m.Start.Before(matched[j].m.Start)
	})

	out := make([]driven.Appointment, len(matched))
	for i, im := range matched {
		out[i] = &appointment{
			StaticAppointment: driven.StaticAppointment{Meeting: im.m},
			errs:              p.fieldErrors[im.index],
		}
	}
	return out, nil
}

// Close releases the connection.
func (c *connection) Close() error {
	p := c.provider
	p.mu.Lock()
	defer p.mu.Unlock()

	if !c.closed {
		c.closed = true
		p.closes++
	}
	return nil
}

// appointment is a static appointment with injectable field failures.
type appointment struct {
	driven.StaticAppointment
	errs map[domain.Field]error
}

func (a *appointment) fail(f domain.Field) error {
	if err, ok := a.errs[f]; ok {
		return driven.FieldError(f, err)
	}
	return nil
}

func (a *appointment) Text(f domain.Field) (string, error) {
	if err := a.fail(f); err != nil {
		return "", err
	}
	return a.StaticAppointment.Text(f)
}

func (a *appointment) Time(f domain.Field) (time.Time, error) {
	if err := a.fail(f); err != nil {
		return time.Time{}, err
	}
	return a.StaticAppointment.Time(f)
}

func (a *appointment) Bool(f domain.Field) (bool, error) {
	if err := a.fail(f); err != nil {
		return false, err
	}
	return a.StaticAppointment.Bool(f)
}
