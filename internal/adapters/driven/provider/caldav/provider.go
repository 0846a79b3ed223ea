// Package caldav reads meetings from a CalDAV server such as iCloud,
// Nextcloud or Fastmail.
package caldav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/vevent"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// Name is the provider name used in logs and errors.
const Name = "caldav"

// DefaultiCloudURL is the Apple iCloud CalDAV endpoint.
const DefaultiCloudURL = "https://caldav.icloud.com"

// Ensure Provider implements the interface.
var _ driven.CalendarProvider = (*Provider)(nil)

// Provider queries one calendar collection on a CalDAV server.
type Provider struct {
	settings  domain.CalDAVSettings
	transport http.RoundTripper
	loc       *time.Location
}

// New creates a CalDAV provider. An empty URL defaults to iCloud.
func New(settings domain.CalDAVSettings) *Provider {
	if settings.URL == "" {
		settings.URL = DefaultiCloudURL
	}
	return &Provider{
		settings:  settings,
		transport: http.DefaultTransport,
		loc:       time.Local,
	}
}

// WithTransport sets the underlying HTTP transport.
func (p *Provider) WithTransport(rt http.RoundTripper) *Provider {
	p.transport = rt
	return p
}

// WithLocation sets the zone meetings are reported in.
func (p *Provider) WithLocation(loc *time.Location) *Provider {
	p.loc = loc
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// Connect discovers the configured calendar collection.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if p.settings.Username == "" || p.settings.Password == "" {
		return nil, fmt.Errorf("%w: caldav.username and caldav.password are required", domain.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: p.settings.Username,
			password: p.settings.Password,
			base:     p.transport,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, p.settings.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	path, err := p.discover(ctx, client)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using CalDAV calendar %s", path)
	return &connection{client: client, path: path, loc: p.loc}, nil
}

func (p *Provider) discover(ctx context.Context, client *caldav.Client) (string, error) {
	if strings.HasPrefix(p.settings.Calendar, "/") {
		return p.settings.Calendar, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", domain.NewProviderError(Name, "find principal", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", domain.NewProviderError(Name, "find home set", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", domain.NewProviderError(Name, "find calendars", err)
	}
	return selectCalendar(cals, p.settings.Calendar)
}

// selectCalendar picks a calendar by path or display name. An empty
// name selects the first calendar that supports events.
func selectCalendar(cals []caldav.Calendar, name string) (string, error) {
	for _, c := range cals {
		if name == "" {
			if supportsEvents(c) {
				return c.Path, nil
			}
			continue
		}
		if c.Path == name || strings.EqualFold(c.Name, name) {
			return c.Path, nil
		}
	}
	if name == "" {
		return "", domain.NewProviderError(Name, "find calendars", fmt.Errorf("no event calendars found"))
	}
	return "", fmt.Errorf("%w: calendar %q not found", domain.ErrNotConfigured, name)
}

func supportsEvents(c caldav.Calendar) bool {
	if len(c.SupportedComponentSet) == 0 {
		return true
	}
	for _, comp := range c.SupportedComponentSet {
		if comp == ical.CompEvent {
			return true
		}
	}
	return false
}

// connection runs calendar-query REPORTs against one collection.
type connection struct {
	client *caldav.Client
	path   string
	loc    *time.Location
}

// Appointments implements driven.Connection.
func (c *connection) Appointments(ctx context.Context, r domain.DateRange) ([]driven.Appointment, error) {
	objects, err := c.client.QueryCalendar(ctx, c.path, rangeQuery(r))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewProviderError(Name, "query calendar", err)
	}

	cals := make([]*ical.Calendar, 0, len(objects))
	for i := range objects {
		if objects[i].Data != nil {
			cals = append(cals, objects[i].Data)
		}
	}
	return driven.StaticAppointments(vevent.Expand(cals, r, c.loc)), nil
}

// Close implements driven.Connection.
func (c *connection) Close() error {
	return nil
}

// rangeQuery selects full VEVENT data overlapping r. Recurring series are
// returned whole and expanded locally.
func rangeQuery(r domain.DateRange) *caldav.CalendarQuery {
	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{
				{
					Name:  ical.CompEvent,
					Start: r.Start.UTC(),
					End:   r.End.UTC(),
				},
			},
		},
	}
}

// basicAuthTransport adds Basic Auth to HTTP requests.
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}
