// Package google reads meetings from Google Calendar using an OAuth
// refresh token.
package google

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// Name is the provider name used in logs and errors.
const Name = "google"

// pageSize is the events.list page size.
const pageSize = 250

// Ensure Provider implements the interface.
var _ driven.CalendarProvider = (*Provider)(nil)

// Provider lists events of one Google calendar.
type Provider struct {
	settings domain.GoogleSettings
	limiter  *RateLimiter
	loc      *time.Location
	options  []option.ClientOption
}

// New creates a Google Calendar provider.
func New(settings domain.GoogleSettings) *Provider {
	if settings.CalendarID == "" {
		settings.CalendarID = "primary"
	}
	return &Provider{
		settings: settings,
		limiter:  NewRateLimiter(DefaultRateLimit),
		loc:      time.Local,
	}
}

// WithClientOptions replaces the OAuth token source with the given options.
// Used to point the client at another endpoint or HTTP client.
func (p *Provider) WithClientOptions(opts ...option.ClientOption) *Provider {
	p.options = opts
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

// TokenSource returns a refreshing token source for the configured
// OAuth client and refresh token.
func (p *Provider) TokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     p.settings.ClientID,
		ClientSecret: p.settings.ClientSecret,
		Endpoint:     endpoints.Google,
		Scopes:       []string{calendar.CalendarReadonlyScope},
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: p.settings.RefreshToken})
}

// Connect creates the Calendar API service.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := p.options
	if len(opts) == 0 {
		if p.settings.ClientID == "" || p.settings.ClientSecret == "" || p.settings.RefreshToken == "" {
			return nil, fmt.Errorf("%w: google.client_id, google.client_secret and google.refresh_token are required",
				domain.ErrNotConfigured)
		}
		opts = []option.ClientOption{option.WithTokenSource(p.TokenSource(ctx))}
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, domain.NewProviderError(Name, "create calendar service", err)
	}
	return &connection{
		svc:        svc,
		calendarID: p.settings.CalendarID,
		limiter:    p.limiter,
		loc:        p.loc,
	}, nil
}

// connection pages through events.list for one query.
type connection struct {
	svc        *calendar.Service
	calendarID string
	limiter    *RateLimiter
	loc        *time.Location
}

// Appointments implements driven.Connection.
// Recurring series are expanded server side (singleEvents).
func (c *connection) Appointments(ctx context.Context, r domain.DateRange) ([]driven.Appointment, error) {
	var (
		meetings []domain.Meeting
		failed   []driven.Appointment
		token    string
	)

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.Events.List(c.calendarID).
			Context(ctx).
			TimeMin(r.Start.Format(time.RFC3339)).
			TimeMax(r.End.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			ShowDeleted(false).
			MaxResults(pageSize)
		if token != "" {
			call = call.PageToken(token)
		}

		resp, err := call.Do()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if IsRateLimited(err) {
				c.limiter.RecordRateLimitError(retryAfter(err))
			}
			return nil, providerError("list events", err)
		}

		for _, event := range resp.Items {
			if event == nil || event.Status == "cancelled" {
				continue
			}
			m, err := EventToMeeting(event, c.loc)
			if err != nil {
				failed = append(failed, driven.FailedAppointment{Err: err})
				continue
			}
			// timeMin/timeMax select overlapping events; keep contained ones.
			if r.Encloses(m.Start, m.End) {
				meetings = append(meetings, m)
			}
		}

		token = resp.NextPageToken
		if token == "" {
			break
		}
	}

	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Start.Before(meetings[j].Start)
	})
	logger.Debug("Google Calendar returned %d events (%d unreadable)", len(meetings), len(failed))
	return append(driven.StaticAppointments(meetings), failed...), nil
}

// Close implements driven.Connection.
func (c *connection) Close() error {
	return nil
}

// retryAfter reads the Retry-After header of a 429 response.
func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}
