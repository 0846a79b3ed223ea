// Package details provides the meeting details view for the TUI.
package details

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// View shows every field of one meeting, with a scrollable body.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewport  viewport.Model
	statusbar *status.Bar

	meeting *domain.Meeting
	width   int
	height  int
	ready   bool
}

// NewView creates a new details view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateDetails)

	return &View{
		styles:    s,
		keymap:    km,
		viewport:  viewport.New(80, 20),
		statusbar: bar,
		width:     80,
		height:    24,
	}
}

// SetMeeting sets the meeting to display and scrolls to the top.
func (v *View) SetMeeting(m domain.Meeting) {
	v.meeting = &m
	v.viewport.SetContent(v.buildContent())
	v.viewport.GotoTop()
}

// Meeting returns the displayed meeting.
func (v *View) Meeting() *domain.Meeting {
	return v.meeting
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewAgenda} }
		case keymap.Matches(k, v.keymap.Quit):
			return v, func() tea.Msg { return messages.Quit{} }
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// buildContent builds the text shown in the viewport.
func (v *View) buildContent() string {
	m := v.meeting
	if m == nil {
		return ""
	}

	recurring := "No"
	if m.IsRecurring {
		recurring = "Yes"
	}

	lines := []string{
		v.field("Subject", m.Subject),
		v.field("Start", m.Start.Format(domain.DateTimeLayout)),
		v.field("End", m.End.Format(domain.DateTimeLayout)),
		v.field("Duration", formatDuration(m.Duration())),
		v.field("Organizer", m.Organizer),
		v.field("Attendees", m.RequiredAttendees),
		v.field("Location", m.Location),
		v.field("Recurring", recurring),
		"",
	}

	body := strings.TrimSpace(strings.ReplaceAll(m.Body, "\r\n", "\n"))
	if body == "" {
		lines = append(lines, v.styles.Muted.Render("(no description)"))
	} else {
		lines = append(lines, v.styles.Label.Render("Description"), body)
	}
	return strings.Join(lines, "\n")
}

func (v *View) field(label, value string) string {
	return v.styles.Label.Render(fmt.Sprintf("%-10s", label+":")) + " " + v.styles.Normal.Render(value)
}

// formatDuration renders a duration as "1h30m" without trailing zero units.
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// View renders the details view.
func (v *View) View() string {
	if v.meeting == nil {
		return v.styles.Muted.Render("No meeting selected")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Meeting Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	if v.viewport.TotalLineCount() > v.viewport.Height {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.f%%]", v.viewport.ScrollPercent()*100)))
		b.WriteString("\n")
	}
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	vpHeight := height - 5 // title, rule, scroll indicator, status
	if vpHeight < 1 {
		vpHeight = 1
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
	v.statusbar.SetWidth(width)
}
