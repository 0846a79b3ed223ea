// Package vevent converts iCalendar VEVENT components into meetings.
// It is shared by every provider that speaks iCalendar (local and remote
// .ics feeds, CalDAV).
package vevent

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// maxOccurrences caps the expansion of a single recurring event.
const maxOccurrences = 5000

// AttendeeSeparator joins required attendee names, as Outlook does.
const AttendeeSeparator = "; "

// Decode reads every VCALENDAR object from r.
func Decode(r io.Reader) ([]*ical.Calendar, error) {
	dec := ical.NewDecoder(r)
	var cals []*ical.Calendar
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}
		cals = append(cals, cal)
	}
	return cals, nil
}

// Expand returns the meetings of all calendars that start at or after
// r.Start and end at or before r.End, sorted by start time.
// Recurring events are expanded and times are converted to loc.
// Events that cannot be interpreted are logged and skipped.
func Expand(cals []*ical.Calendar, r domain.DateRange, loc *time.Location) []domain.Meeting {
	if loc == nil {
		loc = time.Local
	}

	var events []ical.Event
	for _, cal := range cals {
		if cal == nil {
			continue
		}
		events = append(events, cal.Events()...)
	}

	// RECURRENCE-ID components override single instances of a series.
	overrides := make(map[string]map[int64]*ical.Event)
	for i := range events {
		ev := &events[i]
		if ev.Props.Get(ical.PropRecurrenceID) == nil {
			continue
		}
		rid, err := ev.Props.DateTime(ical.PropRecurrenceID, loc)
		if err != nil {
			logger.Error("Error processing event %s: recurrence id: %v", uid(ev), err)
			continue
		}
		if overrides[uid(ev)] == nil {
			overrides[uid(ev)] = make(map[int64]*ical.Event)
		}
		overrides[uid(ev)][rid.Unix()] = ev
	}

	meetings := make([]domain.Meeting, 0)
	for i := range events {
		ev := &events[i]
		if ev.Props.Get(ical.PropRecurrenceID) != nil {
			continue
		}
		got, err := expandEvent(ev, overrides[uid(ev)], r, loc)
		if err != nil {
			logger.Error("Error processing event %s: %v", uid(ev), err)
			continue
		}
		meetings = append(meetings, got...)
	}

	// Overrides left over were moved into the range from outside it.
	for _, byStart := range overrides {
		for _, ev := range byStart {
			m, ok, err := single(ev, r, loc)
			if err != nil {
				logger.Error("Error processing event %s: %v", uid(ev), err)
				continue
			}
			if ok {
				m.IsRecurring = true
				meetings = append(meetings, m)
			}
		}
	}

	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Start.Before(meetings[j].Start)
	})
	return meetings
}

func expandEvent(ev *ical.Event, overrides map[int64]*ical.Event, r domain.DateRange, loc *time.Location) ([]domain.Meeting, error) {
	set, err := recurrenceSet(ev, loc)
	if err != nil {
		return nil, err
	}
	if set == nil {
		m, ok, err := single(ev, r, loc)
		if err != nil || !ok {
			return nil, err
		}
		return []domain.Meeting{m}, nil
	}

	start, end, err := bounds(ev, loc)
	if err != nil {
		return nil, err
	}
	dur := end.Sub(start)

	starts := set.Between(r.Start, r.End, true)
	if len(starts) > maxOccurrences {
		logger.Warn("Event %s truncated to %d occurrences", uid(ev), maxOccurrences)
		starts = starts[:maxOccurrences]
	}

	var out []domain.Meeting
	for _, occ := range starts {
		occ = occ.In(loc)
		if o, ok := overrides[occ.Unix()]; ok {
			delete(overrides, occ.Unix())
			m, keep, err := single(o, r, loc)
			if err != nil {
				logger.Error("Error processing event %s: %v", uid(o), err)
				continue
			}
			if keep {
				m.IsRecurring = true
				out = append(out, m)
			}
			continue
		}
		if !r.Encloses(occ, occ.Add(dur)) {
			continue
		}
		m := toMeeting(ev, occ, occ.Add(dur))
		m.IsRecurring = true
		out = append(out, m)
	}
	return out, nil
}

// single converts a non-recurring component, reporting whether it falls
// inside r. Cancelled events are never kept.
func single(ev *ical.Event, r domain.DateRange, loc *time.Location) (domain.Meeting, bool, error) {
	if cancelled(ev) {
		return domain.Meeting{}, false, nil
	}
	start, end, err := bounds(ev, loc)
	if err != nil {
		return domain.Meeting{}, false, err
	}
	if !r.Encloses(start, end) {
		return domain.Meeting{}, false, nil
	}
	return toMeeting(ev, start, end), true, nil
}

func bounds(ev *ical.Event, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrFieldAccess, domain.FieldStart, err)
	}
	end, err := ev.DateTimeEnd(loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrFieldAccess, domain.FieldEnd, err)
	}
	return start.In(loc), end.In(loc), nil
}

// recurrenceSet returns nil for events without RRULE. EXDATE values,
// including comma separated lists, are removed from the set.
func recurrenceSet(ev *ical.Event, loc *time.Location) (*rrule.Set, error) {
	if cancelled(ev) {
		return nil, nil
	}
	set, err := ev.RecurrenceSet(loc)
	if err != nil || set == nil {
		return set, err
	}
	for _, p := range ev.Props.Values(ical.PropExceptionDates) {
		for _, v := range strings.Split(p.Value, ",") {
			ex := p
			ex.Value = strings.TrimSpace(v)
			t, err := ex.DateTime(loc)
			if err != nil {
				return nil, fmt.Errorf("exception date %q: %w", v, err)
			}
			set.ExDate(t)
		}
	}
	return set, nil
}

func toMeeting(ev *ical.Event, start, end time.Time) domain.Meeting {
	return domain.Meeting{
		Subject:           text(ev, ical.PropSummary),
		Start:             start,
		End:               end,
		Organizer:         Organizer(ev.Props.Get(ical.PropOrganizer)),
		RequiredAttendees: RequiredAttendees(ev.Props.Values(ical.PropAttendee)),
		Location:          text(ev, ical.PropLocation),
		Body:              text(ev, ical.PropDescription),
		IsRecurring:       ev.Props.Get(ical.PropRecurrenceRule) != nil,
	}
}

// Organizer returns the display name of an ORGANIZER property, falling
// back to the address without its mailto: scheme.
func Organizer(p *ical.Prop) string {
	if p == nil {
		return ""
	}
	return participant(*p)
}

// RequiredAttendees joins the names of attendees whose role is
// REQ-PARTICIPANT (the RFC 5545 default) or CHAIR.
func RequiredAttendees(props []ical.Prop) string {
	var names []string
	for _, p := range props {
		switch strings.ToUpper(p.Params.Get(ical.ParamRole)) {
		case "", "REQ-PARTICIPANT", "CHAIR":
			if name := participant(p); name != "" {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, AttendeeSeparator)
}

func participant(p ical.Prop) string {
	if cn := strings.TrimSpace(p.Params.Get(ical.ParamCommonName)); cn != "" {
		return cn
	}
	addr := strings.TrimSpace(p.Value)
	if len(addr) >= len("mailto:") && strings.EqualFold(addr[:len("mailto:")], "mailto:") {
		addr = addr[len("mailto:"):]
	}
	return addr
}

func text(ev *ical.Event, name string) string {
	s, err := ev.Props.Text(name)
	if err != nil {
		if p := ev.Props.Get(name); p != nil {
			return p.Value
		}
		return ""
	}
	return s
}

func cancelled(ev *ical.Event) bool {
	p := ev.Props.Get(ical.PropStatus)
	return p != nil && strings.EqualFold(p.Value, "CANCELLED")
}

func uid(ev *ical.Event) string {
	if p := ev.Props.Get(ical.PropUID); p != nil {
		return p.Value
	}
	return "(no uid)"
}
