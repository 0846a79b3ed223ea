package provider

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/cached"
	storage "github.com/custodia-labs/outlook-agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

func TestNew_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.Settings)
		wantName string
	}{
		{name: "outlook default", mutate: func(*domain.Settings) {}, wantName: "outlook"},
		{name: "ics", mutate: func(s *domain.Settings) {
			s.Provider = domain.ProviderICS
			s.ICS.Path = "/tmp/calendar.ics"
		}, wantName: "ics"},
		{name: "caldav", mutate: func(s *domain.Settings) {
			s.Provider = domain.ProviderCalDAV
			s.CalDAV.Username = "me"
			s.CalDAV.Password = "secret"
		}, wantName: "caldav"},
		{name: "google", mutate: func(s *domain.Settings) {
			s.Provider = domain.ProviderGoogle
			s.Google.RefreshToken = "token"
		}, wantName: "google"},
		{name: "memory", mutate: func(s *domain.Settings) { s.Provider = domain.ProviderMemory }, wantName: "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.DefaultSettings()
			tt.mutate(&settings)

			p, err := New(settings, nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNew_NotConfigured(t *testing.T) {
	for _, kind := range []domain.ProviderKind{domain.ProviderICS, domain.ProviderCalDAV, domain.ProviderGoogle} {
		t.Run(string(kind), func(t *testing.T) {
			settings := domain.DefaultSettings()
			settings.Provider = kind

			_, err := New(settings, nil)

			assert.ErrorIs(t, err, domain.ErrNotConfigured)
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Provider = "lotus-notes"

	_, err := New(settings, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_Cached(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Provider = domain.ProviderMemory
	settings.Cache = domain.CacheSettings{Enabled: true, TTL: time.Minute}

	p, err := New(settings, storage.NewMeetingCache())
	require.NoError(t, err)
	assert.IsType(t, &cached.Provider{}, p)

	settings.Cache.Enabled = false
	p, err = New(settings, storage.NewMeetingCache())
	require.NoError(t, err)
	assert.NotEqual(t, "*cached.Provider", typeName(p))
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
