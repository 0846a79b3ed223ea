// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// linesPerMeeting is how many rows one entry occupies.
const linesPerMeeting = 2

// MeetingList displays meetings in a navigable list.
type MeetingList struct {
	meetings []domain.Meeting
	selected int
	styles   *styles.Styles
	now      func() time.Time
	width    int
	height   int
}

// NewMeetingList creates a new meeting list component.
func NewMeetingList(s *styles.Styles) *MeetingList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MeetingList{
		styles: s,
		now:    time.Now,
		width:  80,
		height: 10,
	}
}

// WithClock sets the clock used to mark past and ongoing meetings.
func (l *MeetingList) WithClock(now func() time.Time) *MeetingList {
	l.now = now
	return l
}

// Init initialises the meeting list.
func (l *MeetingList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *MeetingList) Update(msg tea.Msg) (*MeetingList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.meetings) > 0 {
				l.selected = len(l.meetings) - 1
			}
		}
	}
	return l, nil
}

// View renders the meeting list.
func (l *MeetingList) View() string {
	if len(l.meetings) == 0 {
		return l.styles.Muted.Render("No meetings found matching criteria")
	}

	visible := l.height / linesPerMeeting
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.meetings) {
		end = len(l.meetings)
	}

	lines := make([]string, 0, (end-start)*linesPerMeeting)
	now := l.now()
	for i := start; i < end; i++ {
		lines = append(lines, l.renderMeeting(i, &l.meetings[i], now))
	}
	return strings.Join(lines, "\n")
}

// renderMeeting formats one meeting as a time line and a detail line.
func (l *MeetingList) renderMeeting(index int, m *domain.Meeting, now time.Time) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	when := FormatSpan(m.Start, m.End)
	subject := m.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	maxSubject := l.width - len(when) - 6
	if maxSubject < 10 {
		maxSubject = 10
	}
	subject = truncate(subject, maxSubject)

	var head string
	switch {
	case index == l.selected:
		head = l.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, when, subject))
	case m.IsPast(now):
		head = l.styles.Muted.Render(fmt.Sprintf("%s%s  %s", indicator, when, subject))
	case m.IsOngoing(now):
		head = l.styles.Ongoing.Render(fmt.Sprintf("%s%s  %s", indicator, when, subject))
	default:
		head = indicator + l.styles.Time.Render(when) + "  " + l.styles.Normal.Render(subject)
	}

	detail := make([]string, 0, 2)
	if m.Organizer != "" {
		detail = append(detail, m.Organizer)
	}
	if m.Location != "" {
		detail = append(detail, m.Location)
	}
	return head + "\n" + l.styles.Muted.Render("    "+truncate(strings.Join(detail, " | "), l.width-6))
}

// FormatSpan formats a meeting's time span, e.g. "Wed 13 Mar 09:00-09:15".
func FormatSpan(start, end time.Time) string {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return start.Format("Mon 02 Jan 15:04") + "-" + end.Format("15:04")
	}
	return start.Format("Mon 02 Jan 15:04") + " - " + end.Format("Mon 02 Jan 15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetMeetings replaces the list, keeping the selection in bounds.
func (l *MeetingList) SetMeetings(meetings []domain.Meeting) {
	l.meetings = meetings
	if l.selected >= len(meetings) {
		l.selected = len(meetings) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Meetings returns the current meetings.
func (l *MeetingList) Meetings() []domain.Meeting {
	return l.meetings
}

// Selected returns the index of the selected meeting.
func (l *MeetingList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *MeetingList) SetSelected(index int) {
	if index >= 0 && index < len(l.meetings) {
		l.selected = index
	}
}

// SelectedMeeting returns the currently selected meeting, or nil if none.
func (l *MeetingList) SelectedMeeting() *domain.Meeting {
	if len(l.meetings) == 0 || l.selected < 0 || l.selected >= len(l.meetings) {
		return nil
	}
	return &l.meetings[l.selected]
}

// MoveUp moves selection up.
func (l *MeetingList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *MeetingList) MoveDown() {
	if l.selected < len(l.meetings)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *MeetingList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of meetings.
func (l *MeetingList) Count() int {
	return len(l.meetings)
}
