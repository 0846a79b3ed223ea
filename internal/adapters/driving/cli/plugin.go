package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/launcher"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin [request]",
	Short: "Answer a launcher plugin request",
	Long: `Handle one JSON-RPC request from a launcher host (Flow Launcher style)
and print the response as JSON.

The request is read from the first argument, or from stdin when omitted:
  agenda plugin '{"method":"query","parameters":["today standup"]}'

Query text is an optional period (today, tomorrow, week, month, fromnow)
followed by a subject filter. An empty query returns a usage hint.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlugin,
}

func init() {
	rootCmd.AddCommand(pluginCmd)
}

func runPlugin(cmd *cobra.Command, args []string) error {
	var raw string
	if len(args) == 1 {
		raw = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		raw = strings.TrimSpace(string(data))
	}

	handler := launcher.NewHandler(agendaService, currentSettings().Launcher)

	req, err := launcher.DecodeRequest(raw)
	if err != nil {
		// Hosts only read stdout, so report the error as a result row
		return handler.ErrorResponse(err).Encode(cmd.OutOrStdout())
	}

	return handler.Handle(cmd.Context(), req).Encode(cmd.OutOrStdout())
}
