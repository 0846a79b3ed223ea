package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/google"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/oauth"
	"github.com/custodia-labs/outlook-agenda/internal/core/services"
)

// Loopback ports tried for the OAuth redirect.
const (
	callbackPortStart = 8085
	callbackPortEnd   = 8185
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to calendar providers",
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in to Google Calendar",
	Long: `Sign in to Google Calendar and store a refresh token in the config.

Create an OAuth client of type "Desktop app" in the Google Cloud console
first, then store its credentials:
  agenda config set google.client_id <id>
  agenda config set-secret google.client_secret

The command opens the consent page in your browser and waits for the
redirect on a local port.`,
	Args: cobra.NoArgs,
	RunE: runAuthGoogle,
}

// openBrowser and loginEndpoint are replaced in tests.
var (
	openBrowser   = oauth.OpenBrowser
	loginEndpoint *oauth2.Endpoint
)

func init() {
	authGoogleCmd.Flags().Bool("no-browser", false, "Print the sign-in URL instead of opening a browser")
	authGoogleCmd.Flags().Duration("timeout", 5*time.Minute, "How long to wait for the browser sign-in")
	authCmd.AddCommand(authGoogleCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthGoogle(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	noBrowser, _ := cmd.Flags().GetBool("no-browser")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	out := cmd.OutOrStdout()

	port, err := oauth.FindAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return err
	}
	redirect := fmt.Sprintf("http://localhost:%d%s", port, oauth.CallbackPath)

	login, err := google.NewLogin(settingsService.Get().Google, redirect)
	if err != nil {
		return err
	}
	if loginEndpoint != nil {
		login.WithEndpoint(*loginEndpoint)
	}

	server := oauth.NewCallbackServer(port, login.State())
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	authURL := login.AuthURL()
	if noBrowser || openBrowser(authURL) != nil {
		fmt.Fprintf(out, "Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
	} else {
		fmt.Fprintln(out, "Opened your browser to sign in to Google Calendar.")
	}
	fmt.Fprintln(out, "Waiting for authorization...")

	code, err := server.WaitForCode(cmd.Context(), timeout)
	if err != nil {
		return err
	}

	refresh, err := login.Exchange(cmd.Context(), code)
	if err != nil {
		return err
	}
	if err := settingsService.SetValue(services.KeyGoogleRefreshToken, refresh); err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}

	fmt.Fprintln(out, "Signed in. Select the provider with: agenda config set provider google")
	return nil
}
