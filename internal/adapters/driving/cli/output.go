package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// Output formats for the listing.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const noMeetings = "No meetings found matching criteria"

var separator = strings.Repeat("-", 70)

func isValidFormat(f string) bool {
	switch f {
	case formatText, formatJSON, formatYAML:
		return true
	default:
		return false
	}
}

// listing is the machine-readable shape of a query result.
type listing struct {
	Start    time.Time        `json:"start" yaml:"start"`
	End      time.Time        `json:"end" yaml:"end"`
	Filters  domain.FilterSet `json:"filters" yaml:"filters,omitempty"`
	Count    int              `json:"count" yaml:"count"`
	Meetings []domain.Meeting `json:"meetings" yaml:"meetings"`
}

func newListing(r domain.DateRange, filters domain.FilterSet, meetings []domain.Meeting) listing {
	if meetings == nil {
		meetings = []domain.Meeting{}
	}
	return listing{
		Start:    r.Start,
		End:      r.End,
		Filters:  filters,
		Count:    len(meetings),
		Meetings: meetings,
	}
}

func writeListing(w io.Writer, format string, l listing) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		writeText(w, l)
		return nil
	}
}

func writeText(w io.Writer, l listing) {
	fmt.Fprintf(w, "\nMeetings from %s to %s:\n",
		l.Start.Format(domain.DateTimeLayout), l.End.Format(domain.DateTimeLayout))
	if l.Filters.Subject != "" {
		fmt.Fprintf(w, "Subject filter: '%s'\n", l.Filters.Subject)
	}
	if l.Filters.Organizer != "" {
		fmt.Fprintf(w, "Organizer filter: '%s'\n", l.Filters.Organizer)
	}
	if l.Filters.Attendee != "" {
		fmt.Fprintf(w, "Attendee filter: '%s'\n", l.Filters.Attendee)
	}
	fmt.Fprintln(w, separator)

	if len(l.Meetings) == 0 {
		fmt.Fprintln(w, noMeetings)
		return
	}

	for i := range l.Meetings {
		m := &l.Meetings[i]
		fmt.Fprintf(w, "Meeting %d:\n", i+1)
		fmt.Fprintf(w, "Subject: %s\n", m.Subject)
		fmt.Fprintf(w, "Start: %s (Local Time)\n", m.Start.Format(domain.DateTimeLayout))
		fmt.Fprintf(w, "End: %s (Local Time)\n", m.End.Format(domain.DateTimeLayout))
		fmt.Fprintf(w, "Organizer: %s\n", m.Organizer)
		fmt.Fprintf(w, "Attendees: %s\n", m.RequiredAttendees)
		fmt.Fprintf(w, "Location: %s\n", m.Location)
		fmt.Fprintln(w, separator)
	}
}
