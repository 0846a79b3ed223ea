package domain

import "strings"

// FilterSet holds optional case-insensitive substring filters.
// An empty field means "no filter" for that attribute.
type FilterSet struct {
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Organizer string `json:"organizer,omitempty" yaml:"organizer,omitempty"`
	Attendee  string `json:"attendee,omitempty" yaml:"attendee,omitempty"`
}

// IsEmpty returns true if no filter is set.
func (f FilterSet) IsEmpty() bool {
	return f.Subject == "" && f.Organizer == "" && f.Attendee == ""
}

// MatchSubject reports whether subject satisfies the subject filter.
func (f FilterSet) MatchSubject(subject string) bool {
	return containsFold(subject, f.Subject)
}

// MatchOrganizer reports whether organizer satisfies the organizer filter.
func (f FilterSet) MatchOrganizer(organizer string) bool {
	return containsFold(organizer, f.Organizer)
}

// MatchAttendee reports whether attendees satisfies the attendee filter.
// Callers pass "" for an absent attendee list.
func (f FilterSet) MatchAttendee(attendees string) bool {
	return containsFold(attendees, f.Attendee)
}

// Matches applies all filters to m, in order subject, organizer, attendee.
func (f FilterSet) Matches(m *Meeting) bool {
	return f.MatchSubject(m.Subject) &&
		f.MatchOrganizer(m.Organizer) &&
		f.MatchAttendee(m.RequiredAttendees)
}

// containsFold reports whether substr is within s, ignoring case.
// An empty substr always matches.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
