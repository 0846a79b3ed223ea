package google

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/vevent"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// EventToMeeting converts a Calendar API event into a meeting in loc.
func EventToMeeting(event *calendar.Event, loc *time.Location) (domain.Meeting, error) {
	start, err := eventTime(event.Start, loc)
	if err != nil {
		return domain.Meeting{}, driven.FieldError(domain.FieldStart, err)
	}
	end, err := eventTime(event.End, loc)
	if err != nil {
		return domain.Meeting{}, driven.FieldError(domain.FieldEnd, err)
	}

	return domain.Meeting{
		Subject:           event.Summary,
		Start:             start,
		End:               end,
		Organizer:         organizerName(event),
		RequiredAttendees: requiredAttendees(event.Attendees),
		Location:          event.Location,
		Body:              event.Description,
		IsRecurring:       event.RecurringEventId != "" || len(event.Recurrence) > 0,
	}, nil
}

// eventTime reads a timed or all-day boundary.
func eventTime(t *calendar.EventDateTime, loc *time.Location) (time.Time, error) {
	if t == nil {
		return time.Time{}, fmt.Errorf("missing")
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, err
		}
		return parsed.In(loc), nil
	}
	if t.Date != "" {
		return time.ParseInLocation(domain.DateLayout, t.Date, loc)
	}
	return time.Time{}, fmt.Errorf("empty")
}

func organizerName(event *calendar.Event) string {
	o := event.Organizer //nolint:misspell // Google API field name
	if o == nil {
		return ""
	}
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.Email
}

// requiredAttendees joins non-optional human attendees.
func requiredAttendees(attendees []*calendar.EventAttendee) string {
	var names []string
	for _, a := range attendees {
		if a == nil || a.Optional || a.Resource {
			continue
		}
		name := a.DisplayName
		if name == "" {
			name = a.Email
		}
		if name != "" {
			names = append(names, strings.TrimSpace(name))
		}
	}
	return strings.Join(names, vevent.AttendeeSeparator)
}
