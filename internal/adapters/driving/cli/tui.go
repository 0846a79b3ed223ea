package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/tui"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for browsing your agenda.

Controls:
  ←/h, →/l - Previous / next period
  1-5      - Jump to today, tomorrow, week, month, from now
  ↑/k, ↓/j - Navigate meetings
  Enter    - Show meeting details
  /        - Filter by subject
  p        - Show or hide past meetings
  r        - Refresh
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

// runApp runs the TUI program. Tests replace it to avoid a terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ports := tui.NewPorts(agendaService, settingsService)
	ports.Notifier = changeNotifier

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Log lines would corrupt the alternate screen
	prev := logger.SetOutput(io.Discard)
	defer logger.SetOutput(prev)

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
