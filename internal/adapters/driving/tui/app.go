package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/views/agenda"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/views/details"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings shared by all views.
	keymap *keymap.KeyMap

	// agendaView is the period tabs and meeting list.
	agendaView *agenda.View

	// detailsView shows the selected meeting.
	detailsView *details.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// changes delivers provider change notifications, if supported.
	changes <-chan struct{}

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	start := domain.DefaultSettings().DefaultPeriod
	includePast := false
	if ports.Settings != nil {
		settings := ports.Settings.Get()
		start = settings.DefaultPeriod
		includePast = settings.IncludePast
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		agendaView:  agenda.NewView(s, km, ports.Agenda, start, includePast),
		detailsView: details.NewView(s, km),
		currentView: messages.ViewAgenda,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.agendaView.WithContext(ctx)
	return a
}

// WithClock sets the clock used to mark past and ongoing meetings.
func (a *App) WithClock(now func() time.Time) *App {
	a.agendaView.WithClock(now)
	return a
}

// Init implements tea.Model.
// It loads the agenda and subscribes to provider changes.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("Agenda"),
		a.agendaView.Init(),
		a.subscribe(),
	)
}

// subscribe starts listening for provider changes.
func (a *App) subscribe() tea.Cmd {
	if a.ports.Notifier == nil {
		return nil
	}
	ch, err := a.ports.Notifier.Changes(a.ctx)
	if err != nil {
		logger.Debug("Change notifications unavailable: %v", err)
		return nil
	}
	a.changes = ch
	return waitForChange(ch)
}

// waitForChange blocks until the next change. A closed channel ends the loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.CalendarChanged{}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewAgenda:
			a.agendaView, cmd = a.agendaView.Update(msg)
		case messages.ViewDetails:
			a.detailsView, cmd = a.detailsView.Update(msg)
		case messages.ViewHelp:
			// Any navigation key leaves help
			k := msg.String()
			if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
				a.currentView = messages.ViewAgenda
			} else if keymap.Matches(k, a.keymap.Quit) {
				return a, tea.Quit
			}
		}
		return a, cmd

	case messages.MeetingSelected:
		a.detailsView.SetMeeting(msg.Meeting)
		a.currentView = messages.ViewDetails
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.CalendarChanged:
		logger.Debug("Calendar changed, reloading")
		a.agendaView, cmd = a.agendaView.Update(msg)
		return a, tea.Batch(cmd, waitForChange(a.changes))

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.agendaView, cmd = a.agendaView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Load results and everything else belong to the agenda view.
	a.agendaView, cmd = a.agendaView.Update(msg)
	a.err = a.agendaView.Err()
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDetails:
		return a.detailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewAgenda:
		return a.agendaView.View()
	default:
		return a.agendaView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Periods:
  ←/→, h/l    Previous / next period
  1-5         Today, tomorrow, week, month, next 365 days

Meetings:
  j/k, ↑/↓    Navigate
  enter       Show details
  /           Filter by subject (enter to apply, esc to cancel)
  esc         Clear filter
  p           Show or hide past meetings
  r           Refresh

General:
  ?           Toggle help
  q, ctrl+c   Quit

[esc] back to agenda`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Agenda returns the agenda view.
func (a *App) Agenda() *agenda.View {
	return a.agendaView
}

// Details returns the details view.
func (a *App) Details() *details.View {
	return a.detailsView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.agendaView.SetDimensions(width, height)
	a.detailsView.SetDimensions(width, height)
}
