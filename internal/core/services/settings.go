package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyProvider           = "provider"
	KeyDefaultPeriod      = "query.default_period"
	KeyIncludePast        = "query.include_past"
	KeyCacheEnabled       = "cache.enabled"
	KeyCacheTTLSeconds    = "cache.ttl_seconds"
	KeyICSPath            = "ics.path"
	KeyCalDAVURL          = "caldav.url"
	KeyCalDAVUsername     = "caldav.username"
	KeyCalDAVPassword     = "caldav.password"
	KeyCalDAVCalendar     = "caldav.calendar"
	KeyGoogleClientID     = "google.client_id"
	KeyGoogleClientSecret = "google.client_secret"
	KeyGoogleRefreshToken = "google.refresh_token"
	KeyGoogleCalendarID   = "google.calendar_id"
	KeyLauncherIcon       = "launcher.icon"
	KeyLauncherErrorIcon  = "launcher.error_icon"
)

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
)

var knownKeys = map[string]keyKind{
	KeyProvider:           kindString,
	KeyDefaultPeriod:      kindString,
	KeyIncludePast:        kindBool,
	KeyCacheEnabled:       kindBool,
	KeyCacheTTLSeconds:    kindInt,
	KeyICSPath:            kindString,
	KeyCalDAVURL:          kindString,
	KeyCalDAVUsername:     kindString,
	KeyCalDAVPassword:     kindString,
	KeyCalDAVCalendar:     kindString,
	KeyGoogleClientID:     kindString,
	KeyGoogleClientSecret: kindString,
	KeyGoogleRefreshToken: kindString,
	KeyGoogleCalendarID:   kindString,
	KeyLauncherIcon:       kindString,
	KeyLauncherErrorIcon:  kindString,
}

// SecretKeys lists keys whose values should not be echoed.
var SecretKeys = []string{KeyCalDAVPassword, KeyGoogleClientSecret, KeyGoogleRefreshToken}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the current settings, with defaults for unset keys.
func (s *SettingsService) Get() domain.Settings {
	defaults := domain.DefaultSettings()

	ttl := defaults.Cache.TTL
	if _, ok := s.configStore.Get(KeyCacheTTLSeconds); ok {
		ttl = time.Duration(s.configStore.GetInt(KeyCacheTTLSeconds)) * time.Second
	}

	return domain.Settings{
		Provider:      s.getProvider(defaults.Provider),
		DefaultPeriod: s.getPeriod(defaults.DefaultPeriod),
		IncludePast:   s.getBool(KeyIncludePast, defaults.IncludePast),
		Cache: domain.CacheSettings{
			Enabled: s.getBool(KeyCacheEnabled, defaults.Cache.Enabled),
			TTL:     ttl,
		},
		ICS: domain.ICSSettings{
			Path: s.configStore.GetString(KeyICSPath),
		},
		CalDAV: domain.CalDAVSettings{
			URL:      s.configStore.GetString(KeyCalDAVURL),
			Username: s.configStore.GetString(KeyCalDAVUsername),
			Password: s.configStore.GetString(KeyCalDAVPassword),
			Calendar: s.configStore.GetString(KeyCalDAVCalendar),
		},
		Google: domain.GoogleSettings{
			ClientID:     s.configStore.GetString(KeyGoogleClientID),
			ClientSecret: s.configStore.GetString(KeyGoogleClientSecret),
			RefreshToken: s.configStore.GetString(KeyGoogleRefreshToken),
			CalendarID:   s.getString(KeyGoogleCalendarID, defaults.Google.CalendarID),
		},
		Launcher: domain.LauncherSettings{
			Icon:      s.getString(KeyLauncherIcon, defaults.Launcher.Icon),
			ErrorIcon: s.getString(KeyLauncherErrorIcon, defaults.Launcher.ErrorIcon),
		},
	}
}

// SetValue validates and stores a raw value for a known key.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)

	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)

	default:
		if err := validateString(key, value); err != nil {
			return err
		}
		return s.configStore.Set(key, value)
	}
}

// Value returns the raw configuration value for key.
func (s *SettingsService) Value(key string) (any, bool) {
	return s.configStore.Get(key)
}

// Keys returns the recognised configuration keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// IsSecret reports whether key holds a credential.
func IsSecret(key string) bool {
	for _, k := range SecretKeys {
		if k == key {
			return true
		}
	}
	return false
}

func validateString(key, value string) error {
	switch key {
	case KeyProvider:
		if !domain.ProviderKind(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
	case KeyDefaultPeriod:
		if _, err := domain.ParsePeriod(value); err != nil {
			return err
		}
	case KeyCalDAVURL:
		if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%w: %s must be an http(s) URL", domain.ErrInvalidInput, key)
		}
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(defaultVal domain.ProviderKind) domain.ProviderKind {
	val := domain.ProviderKind(s.configStore.GetString(KeyProvider))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPeriod(defaultVal domain.Period) domain.Period {
	p, err := domain.ParsePeriod(s.configStore.GetString(KeyDefaultPeriod))
	if err != nil {
		return defaultVal
	}
	return p
}
