package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the calendar provider is reachable",
	Long: `Connect to the configured calendar provider and report whether it
is available. Exits non-zero when it is not.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if agendaService == nil {
		return errors.New("agenda service not configured")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider: %s\n", agendaService.ProviderName())

	if err := agendaService.CheckProvider(cmd.Context()); err != nil {
		fmt.Fprintln(out, "Status: unavailable")
		return err
	}

	fmt.Fprintln(out, "Status: available")
	return nil
}
