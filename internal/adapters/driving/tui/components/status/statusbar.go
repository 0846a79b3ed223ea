// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateLoading   State = "loading"
	StateError     State = "error"
	StateFiltering State = "filtering"
	StateDetails   State = "details"
)

// Bar displays the provider, meeting count and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	provider string
	count    int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Width includes the style's horizontal padding
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the provider and state.
func (s *Bar) renderLeft() string {
	prefix := ""
	if s.provider != "" {
		prefix = "[" + s.provider + "] "
	}

	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render(prefix + "Loading...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(prefix + "Error: " + s.message)
		}
		return s.styles.Error.Render(prefix + "Error")
	case StateReady, StateFiltering, StateDetails:
	}

	text := fmt.Sprintf("%d meetings", s.count)
	if s.count == 1 {
		text = "1 meeting"
	}
	if s.message != "" {
		text += " | " + s.message
	}
	return s.styles.Normal.Render(prefix + text)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateFiltering:
		bindings = s.keymap.FilterHelp()
	case StateDetails:
		bindings = s.keymap.DetailsHelp()
	case StateReady, StateLoading, StateError:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetProvider sets the provider name shown on the left.
func (s *Bar) SetProvider(name string) {
	s.provider = name
}

// SetCount sets the meeting count.
func (s *Bar) SetCount(count int) {
	s.count = count
}

// Count returns the meeting count.
func (s *Bar) Count() int {
	return s.count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
