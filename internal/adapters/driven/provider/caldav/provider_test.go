package caldav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

func TestNew_DefaultsToICloud(t *testing.T) {
	p := New(domain.CalDAVSettings{})

	assert.Equal(t, DefaultiCloudURL, p.settings.URL)
	assert.Equal(t, "caldav", p.Name())
}

func TestConnect_RequiresCredentials(t *testing.T) {
	_, err := New(domain.CalDAVSettings{Username: "me"}).Connect(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestConnect_ExplicitPathSkipsDiscovery(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New(domain.CalDAVSettings{
		URL:      srv.URL,
		Username: "me",
		Password: "secret",
		Calendar: "/calendars/me/work/",
	})

	conn, err := p.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/calendars/me/work/", conn.(*connection).path)
	assert.Zero(t, calls)
	assert.NoError(t, conn.Close())
}

func TestConnect_DiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New(domain.CalDAVSettings{URL: srv.URL, Username: "me", Password: "wrong"})

	_, err := p.Connect(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestSelectCalendar(t *testing.T) {
	cals := []caldav.Calendar{
		{Path: "/cal/tasks/", Name: "Tasks", SupportedComponentSet: []string{ical.CompToDo}},
		{Path: "/cal/work/", Name: "Work", SupportedComponentSet: []string{ical.CompEvent}},
		{Path: "/cal/home/", Name: "Home"},
	}

	tests := []struct {
		name    string
		want    string
		path    string
		wantErr error
	}{
		{name: "first event calendar", want: "", path: "/cal/work/"},
		{name: "by display name", want: "home", path: "/cal/home/"},
		{name: "by path", want: "/cal/tasks/", path: "/cal/tasks/"},
		{name: "unknown", want: "Personal", wantErr: domain.ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectCalendar(cals, tt.want)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, got)
		})
	}
}

func TestSelectCalendar_NoEventCalendars(t *testing.T) {
	_, err := selectCalendar([]caldav.Calendar{{Path: "/t/", SupportedComponentSet: []string{ical.CompToDo}}}, "")

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestRangeQuery(t *testing.T) {
	r := domain.DateRange{
		Start: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 13, 23, 59, 59, 0, time.UTC),
	}

	q := rangeQuery(r)

	assert.Equal(t, ical.CompCalendar, q.CompFilter.Name)
	require.Len(t, q.CompFilter.Comps, 1)
	assert.Equal(t, ical.CompEvent, q.CompFilter.Comps[0].Name)
	assert.Equal(t, r.Start, q.CompFilter.Comps[0].Start)
	assert.Equal(t, r.End, q.CompFilter.Comps[0].End)
	assert.True(t, q.CompRequest.AllProps)
}

func TestBasicAuthTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me", user)
		assert.Equal(t, "secret", pass)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &basicAuthTransport{username: "me", password: "secret", base: http.DefaultTransport}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
}
