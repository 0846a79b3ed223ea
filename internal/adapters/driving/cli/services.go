package cli

import (
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
)

// Service instances injected by main.
var (
	agendaService   driving.AgendaService
	settingsService driving.SettingsService
	changeNotifier  driving.ChangeNotifier
	meetingCache    driven.MeetingCache
)

// bootstrap wires the services once flags are parsed.
var bootstrap func(configDir string) error

// SetAgendaService sets the agenda service used by the listing commands.
func SetAgendaService(s driving.AgendaService) {
	agendaService = s
}

// SetSettingsService sets the settings service used by the config commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetChangeNotifier sets the notifier used by the TUI for live refresh.
// A nil notifier disables live refresh.
func SetChangeNotifier(n driving.ChangeNotifier) {
	changeNotifier = n
}

// SetMeetingCache sets the cache cleared by "cache clear".
func SetMeetingCache(c driven.MeetingCache) {
	meetingCache = c
}

// SetBootstrap registers a function that wires services before any
// command runs. It receives the --config-dir flag value, or "" when unset.
func SetBootstrap(fn func(configDir string) error) {
	bootstrap = fn
}

// currentSettings returns the configured settings or the defaults.
func currentSettings() domain.Settings {
	if settingsService == nil {
		return domain.DefaultSettings()
	}
	return settingsService.Get()
}
