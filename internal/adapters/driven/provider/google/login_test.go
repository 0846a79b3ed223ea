package google

import (
	"context"
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

var loginSettings = domain.GoogleSettings{ClientID: "client-id", ClientSecret: "client-secret"}

func TestNewLogin_RequiresClient(t *testing.T) {
	_, err := NewLogin(domain.GoogleSettings{ClientID: "id"}, "http://localhost:8080/callback")

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestLogin_AuthURL(t *testing.T) {
	l, err := NewLogin(loginSettings, "http://localhost:8080/callback")
	require.NoError(t, err)

	u, err := url.Parse(l.AuthURL())
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))
	assert.Equal(t, l.State(), q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Contains(t, q.Get("scope"), "calendar.readonly")
}

func TestLogin_StateIsRandom(t *testing.T) {
	a, err := NewLogin(loginSettings, "http://localhost/callback")
	require.NoError(t, err)
	b, err := NewLogin(loginSettings, "http://localhost/callback")
	require.NoError(t, err)

	assert.NotEqual(t, a.State(), b.State())
	assert.Len(t, a.State(), 43)
}

func tokenServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "the-code", r.Form.Get("code"))
		assert.NotEmpty(t, r.Form.Get("code_verifier"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin_Exchange(t *testing.T) {
	srv := tokenServer(t, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	l, err := NewLogin(loginSettings, "http://localhost/callback")
	require.NoError(t, err)
	l.WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"})

	refresh, err := l.Exchange(context.Background(), "the-code")

	require.NoError(t, err)
	assert.Equal(t, "rt", refresh)
}

func TestLogin_ExchangeWithoutRefreshToken(t *testing.T) {
	srv := tokenServer(t, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
	l, err := NewLogin(loginSettings, "http://localhost/callback")
	require.NoError(t, err)
	l.WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"})

	_, err = l.Exchange(context.Background(), "the-code")

	assert.ErrorIs(t, err, ErrNoRefreshToken)
}
