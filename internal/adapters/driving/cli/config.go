package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/outlook-agenda/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `View and change settings stored in the configuration file.

Keys use dotted names, for example:
  provider               outlook, ics, caldav, google or memory
  query.default_period   today, tomorrow, week, month or fromnow
  query.include_past     true or false
  cache.enabled          true or false
  ics.path               file path or http(s) URL

Run "agenda config get" to list every key.`,
	RunE: runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one or all configuration values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret <key>",
	Short: "Set a credential without echoing it",
	Long: `Prompt for a credential such as caldav.password and store it
without echoing it to the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetSecret,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetSecretCmd)
	rootCmd.AddCommand(configCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), settingsService.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		v, ok := settingsService.Value(args[0])
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		fmt.Fprintln(out, displayValue(args[0], v))
		return nil
	}

	for _, key := range settingsService.Keys() {
		v, ok := settingsService.Value(key)
		if !ok {
			fmt.Fprintf(out, "%s = (not set)\n", key)
			continue
		}
		fmt.Fprintf(out, "%s = %s\n", key, displayValue(key, v))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if services.IsSecret(args[0]) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is a secret; prefer \"agenda config set-secret %s\"\n",
			args[0], args[0])
	}
	if err := settingsService.SetValue(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
	return nil
}

func runConfigSetSecret(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", args[0])
	value := readSecret(cmd.InOrStdin())
	fmt.Fprintln(cmd.OutOrStdout())
	if value == "" {
		return fmt.Errorf("no value entered for %s", args[0])
	}

	if err := settingsService.SetValue(args[0], value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
	return nil
}

func readSecret(in io.Reader) string {
	// Read without echo when attached to a terminal
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func displayValue(key string, v any) string {
	s := fmt.Sprint(v)
	if services.IsSecret(key) {
		return maskSecret(s)
	}
	return s
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
