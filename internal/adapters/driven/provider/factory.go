// Package provider builds the configured calendar provider.
package provider

import (
	"fmt"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/cached"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/caldav"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/google"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/ics"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/memory"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/outlook"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// New creates the provider selected by settings. When caching is enabled
// and cache is non-nil, the provider is wrapped with it.
func New(settings domain.Settings, cache driven.MeetingCache) (driven.CalendarProvider, error) {
	var p driven.CalendarProvider

	switch settings.Provider {
	case domain.ProviderOutlook, "":
		p = outlook.New()
	case domain.ProviderICS:
		if settings.ICS.Path == "" {
			return nil, fmt.Errorf("%w: set ics.path", domain.ErrNotConfigured)
		}
		p = ics.New(settings.ICS.Path)
	case domain.ProviderCalDAV:
		if settings.CalDAV.Username == "" {
			return nil, fmt.Errorf("%w: set caldav.username and caldav.password", domain.ErrNotConfigured)
		}
		p = caldav.New(settings.CalDAV)
	case domain.ProviderGoogle:
		if settings.Google.RefreshToken == "" {
			return nil, fmt.Errorf("%w: set google.client_id, google.client_secret and google.refresh_token",
				domain.ErrNotConfigured)
		}
		p = google.New(settings.Google)
	case domain.ProviderMemory:
		p = memory.Demo(time.Now())
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Provider)
	}

	if settings.Cache.Enabled && settings.Cache.TTL > 0 && cache != nil {
		p = cached.New(p, cache, settings.Cache.TTL)
	}
	return p, nil
}
