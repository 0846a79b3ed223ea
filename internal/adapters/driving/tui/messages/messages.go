// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// LoadRequested asks the agenda view to query the provider again.
type LoadRequested struct{}

// MeetingsLoaded carries query results back to the model.
type MeetingsLoaded struct {
	Period   domain.Period
	Range    domain.DateRange
	Meetings []domain.Meeting
	Err      error
}

// MeetingSelected is sent when a meeting is opened for details.
type MeetingSelected struct {
	Meeting domain.Meeting
}

// CalendarChanged is sent when the provider reports a change.
type CalendarChanged struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAgenda is the period tabs and meeting list.
	ViewAgenda ViewType = iota
	// ViewDetails shows a single meeting with its body.
	ViewDetails
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAgenda:
		return "agenda"
	case ViewDetails:
		return "details"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
