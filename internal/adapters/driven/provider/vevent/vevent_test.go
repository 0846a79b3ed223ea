package vevent

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// calendar wraps VEVENT lines in a VCALENDAR using CRLF line endings.
func calendar(events ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//agenda//test//EN",
	}
	for _, ev := range events {
		lines = append(lines, strings.Split(strings.TrimSpace(ev), "\n")...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func decode(t *testing.T, events ...string) []*ical.Calendar {
	t.Helper()
	cals, err := Decode(strings.NewReader(calendar(events...)))
	require.NoError(t, err)
	require.Len(t, cals, 1)
	return cals
}

func day(d int) domain.DateRange {
	start := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	return domain.DateRange{Start: start, End: start.Add(24*time.Hour - time.Second)}
}

const standup = `BEGIN:VEVENT
UID:standup@test
DTSTAMP:20240301T000000Z
DTSTART:20240311T090000Z
DTEND:20240311T091500Z
SUMMARY:Daily Standup
LOCATION:Room 1
DESCRIPTION:Yesterday / today / blockers
ORGANIZER;CN=Alice Smith:mailto:alice@example.com
ATTENDEE;ROLE=REQ-PARTICIPANT;CN=Bob Jones:mailto:bob@example.com
ATTENDEE;ROLE=OPT-PARTICIPANT;CN=Opt Person:mailto:opt@example.com
ATTENDEE:mailto:carol@example.com
RRULE:FREQ=DAILY;COUNT=5
EXDATE:20240313T090000Z
END:VEVENT`

const review = `BEGIN:VEVENT
UID:review@test
DTSTAMP:20240301T000000Z
DTSTART:20240313T140000Z
DTEND:20240313T150000Z
SUMMARY:Design Review
ORGANIZER:mailto:dana@example.com
END:VEVENT`

const lateNight = `BEGIN:VEVENT
UID:late@test
DTSTAMP:20240301T000000Z
DTSTART:20240313T233000Z
DTEND:20240314T003000Z
SUMMARY:Crosses Midnight
END:VEVENT`

func TestExpand_SingleEvents(t *testing.T) {
	cals := decode(t, review, lateNight)

	got := Expand(cals, day(13), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "Design Review", got[0].Subject)
	assert.Equal(t, "dana@example.com", got[0].Organizer)
	assert.Equal(t, time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC), got[0].Start)
	assert.False(t, got[0].IsRecurring)
}

func TestExpand_RecurringWithExdate(t *testing.T) {
	cals := decode(t, standup)
	r := domain.DateRange{
		Start: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 17, 23, 59, 59, 0, time.UTC),
	}

	got := Expand(cals, r, time.UTC)

	require.Len(t, got, 4)
	days := make([]int, len(got))
	for i, m := range got {
		days[i] = m.Start.Day()
		assert.True(t, m.IsRecurring)
		assert.Equal(t, 15*time.Minute, m.Duration())
	}
	assert.Equal(t, []int{11, 12, 14, 15}, days)
}

func TestExpand_Participants(t *testing.T) {
	cals := decode(t, standup)

	got := Expand(cals, day(12), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "Alice Smith", got[0].Organizer)
	assert.Equal(t, "Bob Jones; carol@example.com", got[0].RequiredAttendees)
	assert.Equal(t, "Room 1", got[0].Location)
	assert.Equal(t, "Yesterday / today / blockers", got[0].Body)
}

func TestExpand_Override(t *testing.T) {
	moved := `BEGIN:VEVENT
UID:standup@test
DTSTAMP:20240301T000000Z
RECURRENCE-ID:20240312T090000Z
DTSTART:20240312T100000Z
DTEND:20240312T103000Z
SUMMARY:Daily Standup (moved)
END:VEVENT`
	cals := decode(t, standup, moved)

	got := Expand(cals, day(12), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "Daily Standup (moved)", got[0].Subject)
	assert.Equal(t, 10, got[0].Start.Hour())
	assert.True(t, got[0].IsRecurring)
}

func TestExpand_OverrideMovedIntoRange(t *testing.T) {
	moved := `BEGIN:VEVENT
UID:standup@test
DTSTAMP:20240301T000000Z
RECURRENCE-ID:20240311T090000Z
DTSTART:20240320T090000Z
DTEND:20240320T091500Z
SUMMARY:Standup makeup
END:VEVENT`
	cals := decode(t, standup, moved)

	got := Expand(cals, day(20), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "Standup makeup", got[0].Subject)
}

func TestExpand_SkipsCancelled(t *testing.T) {
	cancelled := strings.Replace(review, "SUMMARY:Design Review", "SUMMARY:Design Review\nSTATUS:CANCELLED", 1)
	cals := decode(t, cancelled)

	assert.Empty(t, Expand(cals, day(13), time.UTC))
}

func TestExpand_SkipsBrokenEvent(t *testing.T) {
	broken := `BEGIN:VEVENT
UID:broken@test
DTSTAMP:20240301T000000Z
DTSTART:not-a-date
SUMMARY:Broken
END:VEVENT`
	cals := decode(t, broken, review)

	got := Expand(cals, day(13), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "Design Review", got[0].Subject)
}

func TestExpand_SortedAcrossCalendars(t *testing.T) {
	early := strings.NewReplacer("review@test", "early@test", "T140000Z", "T080000Z", "T150000Z", "T083000Z", "Design Review", "Early").Replace(review)
	cals := append(decode(t, review), decode(t, early)...)

	got := Expand(cals, day(13), time.UTC)

	require.Len(t, got, 2)
	assert.Equal(t, "Early", got[0].Subject)
	assert.Equal(t, "Design Review", got[1].Subject)
}

func TestExpand_ConvertsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	cals := decode(t, review)
	r := domain.DateRange{
		Start: time.Date(2024, 3, 13, 0, 0, 0, 0, loc),
		End:   time.Date(2024, 3, 13, 23, 59, 59, 0, loc),
	}

	got := Expand(cals, r, loc)

	require.Len(t, got, 1)
	assert.Equal(t, 16, got[0].Start.Hour())
	assert.Equal(t, loc, got[0].Start.Location())
}

func TestRequiredAttendees_Empty(t *testing.T) {
	assert.Equal(t, "", RequiredAttendees(nil))
	assert.Equal(t, "", Organizer(nil))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("BEGIN:VCALENDAR\r\nBROKEN"))
	assert.Error(t, err)
}
