// Package agenda provides the main agenda view: period tabs, a subject
// filter and the meeting list.
package agenda

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
)

// ErrNoAgendaService indicates that no agenda service was provided.
var ErrNoAgendaService = errors.New("agenda service is required")

// View is the agenda view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	filter    *input.FilterInput
	list      *list.MeetingList
	statusbar *status.Bar

	agenda driving.AgendaService
	ctx    context.Context

	periods     []domain.Period
	periodIdx   int
	includePast bool
	subject     string
	current     domain.DateRange

	// seq discards results from superseded loads.
	seq int

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new agenda view starting on the given period.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	agenda driving.AgendaService,
	start domain.Period,
	includePast bool,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	periods := domain.NamedPeriods()
	idx := 0
	for i, p := range periods {
		if p == start {
			idx = i
		}
	}

	bar := status.NewBar(s, km)
	if agenda != nil {
		bar.SetProvider(agenda.ProviderName())
	}

	return &View{
		styles:      s,
		keymap:      km,
		filter:      input.NewFilterInput(s),
		list:        list.NewMeetingList(s),
		statusbar:   bar,
		agenda:      agenda,
		ctx:         context.Background(),
		periods:     periods,
		periodIdx:   idx,
		includePast: includePast,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithClock sets the clock used to mark past and ongoing meetings.
func (v *View) WithClock(now func() time.Time) *View {
	v.list.WithClock(now)
	return v
}

// Init loads the initial period.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Update handles messages for the agenda view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LoadRequested, messages.CalendarChanged:
		return v, v.Load()

	case loaded:
		if msg.seq == v.seq {
			v.handleLoaded(msg.MeetingsLoaded)
		}
		return v, nil

	case messages.MeetingsLoaded:
		v.handleLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	if v.filter.Focused() {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.filter.Focused() {
		return v.handleFilterKey(msg)
	}

	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }

	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }

	case keymap.Matches(k, v.keymap.PrevPeriod):
		return v, v.selectPeriod(v.periodIdx - 1)

	case keymap.Matches(k, v.keymap.NextPeriod):
		return v, v.selectPeriod(v.periodIdx + 1)

	case keymap.Matches(k, v.keymap.Period):
		return v, v.selectPeriod(int(k[0]-'1'))

	case keymap.Matches(k, v.keymap.Filter):
		v.filter.SetValue(v.subject)
		v.statusbar.SetState(status.StateFiltering)
		return v, v.filter.Focus()

	case keymap.Matches(k, v.keymap.TogglePast):
		v.includePast = !v.includePast
		return v, v.Load()

	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.Load()

	case keymap.Matches(k, v.keymap.Select):
		m := v.list.SelectedMeeting()
		if m == nil {
			return v, nil
		}
		selected := *m
		return v, func() tea.Msg { return messages.MeetingSelected{Meeting: selected} }

	case keymap.Matches(k, v.keymap.Back):
		if v.subject != "" {
			v.subject = ""
			return v, v.Load()
		}
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// handleFilterKey processes keys while the filter input has focus.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		v.subject = strings.TrimSpace(v.filter.Value())
		v.filter.Blur()
		v.statusbar.SetState(status.StateReady)
		return v, v.Load()
	case tea.KeyEsc:
		v.filter.Blur()
		v.filter.SetValue(v.subject)
		v.statusbar.SetState(status.StateReady)
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

// selectPeriod switches tabs, ignoring out-of-range indexes.
func (v *View) selectPeriod(idx int) tea.Cmd {
	if idx < 0 || idx >= len(v.periods) || idx == v.periodIdx {
		return nil
	}
	v.periodIdx = idx
	v.list.SetSelected(0)
	return v.Load()
}

// Load returns a command that queries the current period.
func (v *View) Load() tea.Cmd {
	v.seq++
	v.statusbar.SetState(status.StateLoading)

	period := v.Period()
	opts := domain.QueryOptions{
		Filters:     domain.FilterSet{Subject: v.subject},
		IncludePast: v.includePast,
	}
	agenda := v.agenda
	ctx := v.ctx
	seq := v.seq

	return func() tea.Msg {
		if agenda == nil {
			return messages.ErrorOccurred{Err: ErrNoAgendaService}
		}
		r, err := agenda.ResolveRange(domain.RangeRequest{Period: period.String()})
		if err != nil {
			return loaded{seq: seq, MeetingsLoaded: messages.MeetingsLoaded{Period: period, Err: err}}
		}
		opts.Range = r
		meetings, err := agenda.Query(ctx, opts)
		return loaded{seq: seq, MeetingsLoaded: messages.MeetingsLoaded{
			Period:   period,
			Range:    r,
			Meetings: meetings,
			Err:      err,
		}}
	}
}

// loaded tags a result with the load that produced it.
type loaded struct {
	messages.MeetingsLoaded
	seq int
}

// handleLoaded processes query results.
func (v *View) handleLoaded(msg messages.MeetingsLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.current = msg.Range
	v.list.SetMeetings(msg.Meetings)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetCount(len(msg.Meetings))
	v.statusbar.SetMessage(v.describeOptions())
}

func (v *View) setError(err error) {
	v.err = err
	v.list.SetMeetings(nil)
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) describeOptions() string {
	parts := make([]string, 0, 2)
	if v.subject != "" {
		parts = append(parts, "subject: '"+v.subject+"'")
	}
	if v.includePast {
		parts = append(parts, "past shown")
	}
	return strings.Join(parts, ", ")
}

// View renders the agenda view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Agenda"), v.renderTabs())

	if !v.current.Start.IsZero() {
		sections = append(sections, v.styles.Muted.Render(v.current.String()))
	}
	sections = append(sections, "")

	if v.filter.Focused() {
		sections = append(sections, v.filter.View(), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTabs renders the period tabs.
func (v *View) renderTabs() string {
	tabs := make([]string, len(v.periods))
	for i, p := range v.periods {
		label := string(rune('1'+i)) + " " + p.Description()
		if i == v.periodIdx {
			tabs[i] = v.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = v.styles.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.filter.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, tabs, range, filter, status
	v.statusbar.SetWidth(width)
}

// Period returns the selected period.
func (v *View) Period() domain.Period {
	return v.periods[v.periodIdx]
}

// Subject returns the applied subject filter.
func (v *View) Subject() string {
	return v.subject
}

// IncludePast reports whether past meetings are shown.
func (v *View) IncludePast() bool {
	return v.includePast
}

// Meetings returns the meetings currently listed.
func (v *View) Meetings() []domain.Meeting {
	return v.list.Meetings()
}

// SelectedIndex returns the selected list index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
