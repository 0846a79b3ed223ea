// Package ics reads meetings from an iCalendar file on disk or from an
// http(s) subscription URL.
package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/vevent"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// Name is the provider name used in logs and errors.
const Name = "ics"

// maxBodySize limits remote calendar downloads. Tests lower it.
var maxBodySize int64 = 32 << 20

// Ensure Provider implements the interface.
var _ driven.CalendarProvider = (*Provider)(nil)

// Provider loads a calendar on every Connect.
type Provider struct {
	source   string
	client   *http.Client
	loc      *time.Location
	debounce time.Duration
}

// New creates a provider for a file path or http(s)/webcal URL.
func New(source string) *Provider {
	return &Provider{
		source:   strings.TrimSpace(source),
		client:   &http.Client{Timeout: 15 * time.Second},
		loc:      time.Local,
		debounce: 250 * time.Millisecond,
	}
}

// WithHTTPClient sets the client used for remote calendars.
func (p *Provider) WithHTTPClient(c *http.Client) *Provider {
	p.client = c
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

// IsRemote reports whether the source is fetched over HTTP.
func (p *Provider) IsRemote() bool {
	lower := strings.ToLower(p.source)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "webcal://")
}

// Connect loads and decodes the calendar.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if p.source == "" {
		return nil, fmt.Errorf("%w: ics.path is empty", domain.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body []byte
	var err error
	if p.IsRemote() {
		body, err = p.fetch(ctx)
	} else {
		body, err = p.readFile()
	}
	if err != nil {
		return nil, err
	}

	cals, err := vevent.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewProviderError(Name, "parse calendar", err)
	}
	logger.Debug("Loaded %d calendar object(s) from %s", len(cals), p.source)
	return &connection{cals: cals, loc: p.loc}, nil
}

func (p *Provider) readFile() ([]byte, error) {
	body, err := os.ReadFile(p.source)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", domain.ErrProviderNotInstalled, p.source)
	}
	if err != nil {
		return nil, domain.NewProviderError(Name, "read calendar", err)
	}
	return body, nil
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	url := p.source
	if strings.HasPrefix(strings.ToLower(url), "webcal://") {
		url = "https://" + url[len("webcal://"):]
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewProviderError(Name, "fetch calendar", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewProviderError(Name, "fetch calendar", errors.New(resp.Status))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, domain.NewProviderError(Name, "fetch calendar", err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, domain.NewProviderError(Name, "fetch calendar",
			fmt.Errorf("calendar exceeds %d MiB", maxBodySize>>20))
	}
	return body, nil
}

// connection serves queries from a decoded snapshot.
type connection struct {
	cals []*ical.Calendar
	loc  *time.Location
}

// Appointments implements driven.Connection.
func (c *connection) Appointments(ctx context.Context, r domain.DateRange) ([]driven.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return driven.StaticAppointments(vevent.Expand(c.cals, r, c.loc)), nil
}

// Close implements driven.Connection.
func (c *connection) Close() error {
	c.cals = nil
	return nil
}

// absPath returns the cleaned absolute path of a local source.
func (p *Provider) absPath() string {
	abs, err := filepath.Abs(p.source)
	if err != nil {
		return filepath.Clean(p.source)
	}
	return abs
}
