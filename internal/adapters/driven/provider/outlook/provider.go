// Package outlook reads the default calendar of a locally installed
// Microsoft Outlook through COM automation.
//
// COM is only available on Windows. On other platforms Connect always
// reports domain.ErrProviderNotInstalled.
package outlook

import (
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// Name is the provider name used in logs and errors.
const Name = "outlook"

// olFolderCalendar is the OlDefaultFolders value for the calendar folder.
const olFolderCalendar = 9

// Ensure Provider implements the interface.
var _ driven.CalendarProvider = (*Provider)(nil)

// Provider opens COM sessions against Outlook.Application.
type Provider struct {
	progID string
	folder int
}

// New creates an Outlook provider for the default calendar folder.
func New() *Provider {
	return &Provider{
		progID: "Outlook.Application",
		folder: olFolderCalendar,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}
