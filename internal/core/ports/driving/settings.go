package driving

import "github.com/custodia-labs/outlook-agenda/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings, with defaults for unset keys.
	Get() domain.Settings

	// SetValue stores a single raw configuration value by key.
	SetValue(key, value string) error

	// Value returns the raw configuration value for key.
	Value(key string) (any, bool)

	// Keys returns the recognised configuration keys.
	Keys() []string

	// Path returns where settings are persisted.
	Path() string
}
