package domain

import "time"

// Field names an appointment attribute exposed by a calendar provider.
// Values match the provider's own property names.
type Field string

// Appointment fields read by queries.
const (
	FieldSubject           Field = "Subject"
	FieldStart             Field = "Start"
	FieldEnd               Field = "End"
	FieldOrganizer         Field = "Organizer"
	FieldRequiredAttendees Field = "RequiredAttendees"
	FieldLocation          Field = "Location"
	FieldBody              Field = "Body"
	FieldIsRecurring       Field = "IsRecurring"
)

// Meeting is an immutable snapshot of one appointment at query time.
// It has no lifecycle of its own and exists only as a query result.
type Meeting struct {
	Subject           string    `json:"subject" yaml:"subject"`
	Start             time.Time `json:"start" yaml:"start"`
	End               time.Time `json:"end" yaml:"end"`
	Organizer         string    `json:"organizer" yaml:"organizer"`
	RequiredAttendees string    `json:"required_attendees" yaml:"required_attendees"`
	Location          string    `json:"location" yaml:"location"`
	Body              string    `json:"body,omitempty" yaml:"body,omitempty"`
	IsRecurring       bool      `json:"is_recurring" yaml:"is_recurring"`
}

// Duration returns the meeting length.
func (m *Meeting) Duration() time.Duration {
	return m.End.Sub(m.Start)
}

// IsPast returns true if the meeting ended before now.
func (m *Meeting) IsPast(now time.Time) bool {
	return m.End.Before(now)
}

// IsOngoing returns true if now falls inside the meeting.
func (m *Meeting) IsOngoing(now time.Time) bool {
	return !now.Before(m.Start) && now.Before(m.End)
}

// StartsIn returns how long until the meeting starts (negative if started).
func (m *Meeting) StartsIn(now time.Time) time.Duration {
	return m.Start.Sub(now)
}
