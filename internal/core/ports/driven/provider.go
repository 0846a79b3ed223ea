package driven

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// CalendarProvider opens connections to a calendar backend.
type CalendarProvider interface {
	// Name returns the provider name used in logs and errors.
	Name() string

	// Connect acquires a connection. Implementations return an error
	// matching domain.ErrProviderNotInstalled when the backend application
	// cannot be reached at all.
	Connect(ctx context.Context) (Connection, error)
}

// Connection is a provider session scoped to a single query.
// Callers must Close it once done.
type Connection interface {
	// Appointments returns appointments that start at or after r.Start and
	// end at or before r.End, sorted by start time ascending.
	Appointments(ctx context.Context, r domain.DateRange) ([]Appointment, error)

	// Close releases the connection and any resources it holds.
	Close() error
}

// Appointment gives field-level access to one record.
// Each accessor may fail independently; errors wrap domain.ErrFieldAccess.
type Appointment interface {
	// Text returns a string field. An absent value is returned as "".
	Text(f domain.Field) (string, error)

	// Time returns a timestamp field in local time.
	Time(f domain.Field) (time.Time, error)

	// Bool returns a boolean field.
	Bool(f domain.Field) (bool, error)
}

// StaticAppointment adapts an already materialised meeting.
type StaticAppointment struct {
	Meeting domain.Meeting
}

// Ensure StaticAppointment implements the interface.
var _ Appointment = StaticAppointment{}

// Text implements Appointment.
func (a StaticAppointment) Text(f domain.Field) (string, error) {
	switch f {
	case domain.FieldSubject:
		return a.Meeting.Subject, nil
	case domain.FieldOrganizer:
		return a.Meeting.Organizer, nil
	case domain.FieldRequiredAttendees:
		return a.Meeting.RequiredAttendees, nil
	case domain.FieldLocation:
		return a.Meeting.Location, nil
	case domain.FieldBody:
		return a.Meeting.Body, nil
	default:
		return "", FieldError(f, "not a text field")
	}
}

// Time implements Appointment.
func (a StaticAppointment) Time(f domain.Field) (time.Time, error) {
	switch f {
	case domain.FieldStart:
		return a.Meeting.Start, nil
	case domain.FieldEnd:
		return a.Meeting.End, nil
	default:
		return time.Time{}, FieldError(f, "not a time field")
	}
}

// Bool implements Appointment.
func (a StaticAppointment) Bool(f domain.Field) (bool, error) {
	if f == domain.FieldIsRecurring {
		return a.Meeting.IsRecurring, nil
	}
	return false, FieldError(f, "not a boolean field")
}

// FailedAppointment is a record whose fields cannot be read.
// Every accessor returns Err.
type FailedAppointment struct {
	Err error
}

// Ensure FailedAppointment implements the interface.
var _ Appointment = FailedAppointment{}

// Text implements Appointment.
func (a FailedAppointment) Text(domain.Field) (string, error) { return "", a.Err }

// Time implements Appointment.
func (a FailedAppointment) Time(domain.Field) (time.Time, error) { return time.Time{}, a.Err }

// Bool implements Appointment.
func (a FailedAppointment) Bool(domain.Field) (bool, error) { return false, a.Err }

// StaticAppointments wraps meetings as appointments.
func StaticAppointments(meetings []domain.Meeting) []Appointment {
	out := make([]Appointment, len(meetings))
	for i := range meetings {
		out[i] = StaticAppointment{Meeting: meetings[i]}
	}
	return out
}

// FieldError builds an error for an unreadable field.
func FieldError(f domain.Field, reason any) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrFieldAccess, f, reason)
}

// Materialize reads every field of an appointment.
func Materialize(a Appointment) (domain.Meeting, error) {
	var (
		m   domain.Meeting
		err error
	)

	if m.Subject, err = a.Text(domain.FieldSubject); err != nil {
		return m, err
	}
	if m.Start, err = a.Time(domain.FieldStart); err != nil {
		return m, err
	}
	if m.End, err = a.Time(domain.FieldEnd); err != nil {
		return m, err
	}
	if m.Organizer, err = a.Text(domain.FieldOrganizer); err != nil {
		return m, err
	}
	if m.RequiredAttendees, err = a.Text(domain.FieldRequiredAttendees); err != nil {
		return m, err
	}
	if m.Location, err = a.Text(domain.FieldLocation); err != nil {
		return m, err
	}
	if m.Body, err = a.Text(domain.FieldBody); err != nil {
		return m, err
	}
	if m.IsRecurring, err = a.Bool(domain.FieldIsRecurring); err != nil {
		return m, err
	}
	return m, nil
}
