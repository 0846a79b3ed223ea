package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// stubGoogleLogin points the login at a fake token endpoint and
// replaces the browser with a function that follows the redirect.
func stubGoogleLogin(t *testing.T, browse func(authURL string) error) {
	t.Helper()

	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at","refresh_token":"refresh-123","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(tokens.Close)

	originalBrowser, originalEndpoint := openBrowser, loginEndpoint
	openBrowser = browse
	loginEndpoint = &oauth2.Endpoint{AuthURL: tokens.URL + "/auth", TokenURL: tokens.URL + "/token"}
	t.Cleanup(func() {
		openBrowser = originalBrowser
		loginEndpoint = originalEndpoint
	})
}

// approve simulates the user consenting: it calls the redirect URI
// with the state from the authorization URL.
func approve(authURL string) error {
	u, err := url.Parse(authURL)
	if err != nil {
		return err
	}
	q := u.Query()
	go func() {
		resp, err := http.Get(q.Get("redirect_uri") + "?code=the-code&state=" + url.QueryEscape(q.Get("state")))
		if err == nil {
			resp.Body.Close()
		}
	}()
	return nil
}

func TestAuthGoogle_StoresRefreshToken(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.SetValue("google.client_id", "id"))
	require.NoError(t, env.settings.SetValue("google.client_secret", "secret"))
	stubGoogleLogin(t, approve)

	out, err := execute(t, "auth", "google", "--timeout", "5s")

	require.NoError(t, err)
	assert.Contains(t, out, "Opened your browser")
	assert.Contains(t, out, "Signed in.")
	assert.Equal(t, "refresh-123", env.settings.Get().Google.RefreshToken)
}

func TestAuthGoogle_BrowserFailurePrintsURL(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.SetValue("google.client_id", "id"))
	require.NoError(t, env.settings.SetValue("google.client_secret", "secret"))
	stubGoogleLogin(t, func(u string) error {
		_ = approve(u)
		return fmt.Errorf("no browser")
	})

	out, err := execute(t, "auth", "google", "--timeout", "5s")

	require.NoError(t, err)
	assert.Contains(t, out, "Open this URL in your browser")
	assert.Contains(t, out, "code_challenge=")
}

func TestAuthGoogle_RequiresClient(t *testing.T) {
	setupTestServices(t)
	stubGoogleLogin(t, approve)

	_, err := execute(t, "auth", "google")

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestAuthGoogle_Timeout(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.SetValue("google.client_id", "id"))
	require.NoError(t, env.settings.SetValue("google.client_secret", "secret"))
	stubGoogleLogin(t, func(string) error { return nil })

	_, err := execute(t, "auth", "google", "--no-browser", "--timeout", "50ms")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "waiting for authorization callback")
}
