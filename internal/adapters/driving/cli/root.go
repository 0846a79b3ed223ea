// Package cli implements the agenda command-line interface.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/launcher"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// version is set by main at build time.
var version = "dev"

// skipBootstrap marks commands that run without wired services.
const skipBootstrap = "skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Query your calendar from the terminal",
	Long: `agenda lists meetings from your calendar for a named period or a
custom date range, optionally filtered by subject, organizer or attendee.

Periods:
  today     Today, midnight to 23:59:59
  tomorrow  Tomorrow, midnight to 23:59:59
  week      Monday to Sunday of the current week
  month     First to last day of the current month
  fromnow   Today and the following 364 days (default)

Examples:
  agenda --period today
  agenda --period week --subject standup
  agenda --custom 2024-01-01 "2024-01-02 18:00" --organizer alice
  agenda --past --format json`,
	Args:              validateListArgs,
	PersistentPreRunE: prepare,
	RunE:              runList,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config-dir", "", "Configuration directory (default ~/.agenda)")

	f := rootCmd.Flags()
	f.StringP("period", "p", "", "Predefined period: today, tomorrow, week, month, fromnow")
	f.Bool("custom", false, "Custom range given as START END in YYYY-MM-DD [HH:MM] format")
	f.String("subject", "", "Filter meetings by subject (case-insensitive)")
	f.String("organizer", "", "Filter meetings by organizer (case-insensitive)")
	f.String("attendee", "", "Filter meetings by attendee (case-insensitive)")
	f.Bool("past", false, "Include meetings that already ended")
	f.StringP("format", "f", formatText, "Output format: text, json, yaml")
	rootCmd.MarkFlagsMutuallyExclusive("period", "custom")
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		provider := ""
		if agendaService != nil {
			provider = agendaService.ProviderName()
		}
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", launcher.ErrorMessage(err, provider))
	}
	return err
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

func prepare(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("getting verbose flag: %w", err)
	}
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] != "" {
		return nil
	}

	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return fmt.Errorf("getting config-dir flag: %w", err)
	}
	return bootstrap(configDir)
}

func validateListArgs(cmd *cobra.Command, args []string) error {
	custom, err := cmd.Flags().GetBool("custom")
	if err != nil {
		return err
	}
	if custom {
		return cobra.ExactArgs(2)(cmd, args)
	}
	return cobra.NoArgs(cmd, args)
}

// listRequest collects the listing flags.
type listRequest struct {
	rangeReq    domain.RangeRequest
	filters     domain.FilterSet
	includePast bool
	format      string
}

func parseListRequest(cmd *cobra.Command, args []string) (listRequest, error) {
	var req listRequest
	f := cmd.Flags()

	period, _ := f.GetString("period")
	custom, _ := f.GetBool("custom")
	req.rangeReq.Period = strings.ToLower(strings.TrimSpace(period))
	if custom {
		req.rangeReq.CustomStart = args[0]
		req.rangeReq.CustomEnd = args[1]
	}

	req.filters.Subject, _ = f.GetString("subject")
	req.filters.Organizer, _ = f.GetString("organizer")
	req.filters.Attendee, _ = f.GetString("attendee")
	req.includePast, _ = f.GetBool("past")
	if !f.Changed("past") {
		req.includePast = currentSettings().IncludePast
	}

	req.format, _ = f.GetString("format")
	if !isValidFormat(req.format) {
		return req, fmt.Errorf("%w: unknown format %q (use text, json or yaml)", domain.ErrInvalidInput, req.format)
	}
	return req, nil
}

func runList(cmd *cobra.Command, args []string) error {
	if agendaService == nil {
		return errors.New("agenda service not configured")
	}

	req, err := parseListRequest(cmd, args)
	if err != nil {
		return err
	}

	r, err := agendaService.ResolveRange(req.rangeReq)
	if err != nil {
		return err
	}
	logger.Debug("Listing meetings from %s (provider %s)", r, agendaService.ProviderName())

	meetings, err := agendaService.Query(cmd.Context(), domain.QueryOptions{
		Range:       r,
		Filters:     req.filters,
		IncludePast: req.includePast,
	})
	if err != nil {
		return err
	}

	return writeListing(cmd.OutOrStdout(), req.format, newListing(r, req.filters, meetings))
}
