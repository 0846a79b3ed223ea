// Package tui provides an interactive terminal user interface for the agenda.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Agenda resolves ranges and queries meetings.
	Agenda driving.AgendaService

	// Settings supplies the starting period and past-meeting default. Optional.
	Settings driving.SettingsService

	// Notifier triggers a reload when the calendar changes. Optional.
	Notifier driving.ChangeNotifier
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(agenda driving.AgendaService, settings driving.SettingsService) *Ports {
	return &Ports{
		Agenda:   agenda,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Agenda == nil {
		return ErrMissingAgendaService
	}
	return nil
}
