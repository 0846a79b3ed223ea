package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultSettings(), svc.Get())
}

func TestSettingsService_GetConfigured(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyProvider:         "caldav",
		KeyDefaultPeriod:    "week",
		KeyIncludePast:      true,
		KeyCacheEnabled:     true,
		KeyCacheTTLSeconds:  int64(60),
		KeyCalDAVURL:        "https://cal.example.com/dav",
		KeyCalDAVUsername:   "alice",
		KeyGoogleCalendarID: "",
		KeyLauncherIcon:     "icons/cal.png",
	})
	s := NewSettingsService(store).Get()

	assert.Equal(t, domain.ProviderCalDAV, s.Provider)
	assert.Equal(t, domain.PeriodWeek, s.DefaultPeriod)
	assert.True(t, s.IncludePast)
	assert.True(t, s.Cache.Enabled)
	assert.Equal(t, time.Minute, s.Cache.TTL)
	assert.Equal(t, "https://cal.example.com/dav", s.CalDAV.URL)
	assert.Equal(t, "alice", s.CalDAV.Username)
	assert.Equal(t, "primary", s.Google.CalendarID)
	assert.Equal(t, "icons/cal.png", s.Launcher.Icon)
	assert.Equal(t, "assets/error.png", s.Launcher.ErrorIcon)
}

func TestSettingsService_InvalidStoredValuesFallBack(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyProvider:      "exchange",
		KeyDefaultPeriod: "fortnight",
	})
	s := NewSettingsService(store).Get()

	assert.Equal(t, domain.ProviderOutlook, s.Provider)
	assert.Equal(t, domain.PeriodFromNow, s.DefaultPeriod)
}

func TestSettingsService_SetValue(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetValue(KeyProvider, "ics"))
	require.NoError(t, svc.SetValue(KeyCacheEnabled, "true"))
	require.NoError(t, svc.SetValue(KeyCacheTTLSeconds, "120"))
	require.NoError(t, svc.SetValue(KeyICSPath, "/tmp/cal.ics"))

	s := svc.Get()
	assert.Equal(t, domain.ProviderICS, s.Provider)
	assert.True(t, s.Cache.Enabled)
	assert.Equal(t, 2*time.Minute, s.Cache.TTL)
	assert.Equal(t, "/tmp/cal.ics", s.ICS.Path)

	val, ok := svc.Value(KeyCacheTTLSeconds)
	assert.True(t, ok)
	assert.Equal(t, 120, val)
}

func TestSettingsService_SetValueRejects(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		key, value string
		wantErr    error
	}{
		{"unknown.key", "x", domain.ErrInvalidInput},
		{KeyProvider, "exchange", domain.ErrInvalidInput},
		{KeyDefaultPeriod, "fortnight", domain.ErrInvalidPeriod},
		{KeyIncludePast, "maybe", domain.ErrInvalidInput},
		{KeyCacheTTLSeconds, "-5", domain.ErrInvalidInput},
		{KeyCalDAVURL, "ftp://example.com", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := svc.SetValue(tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
		})
	}
}

func TestSettingsService_KeysAndSecrets(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	keys := svc.Keys()
	assert.Contains(t, keys, KeyProvider)
	assert.Contains(t, keys, KeyGoogleRefreshToken)
	assert.IsIncreasing(t, keys)

	assert.True(t, IsSecret(KeyCalDAVPassword))
	assert.False(t, IsSecret(KeyCalDAVUsername))
	assert.Equal(t, ":memory:", svc.Path())
}
