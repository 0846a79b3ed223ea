package mcp

import (
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Agenda resolves ranges and queries meetings.
	Agenda driving.AgendaService

	// Settings supplies launcher icons for the status tool. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Agenda == nil {
		return ErrMissingAgendaService
	}
	return nil
}
