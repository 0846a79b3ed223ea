package google

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// ErrNoRefreshToken is returned when the token response lacks a refresh token.
// Google omits it when the account already granted access without prompt=consent.
var ErrNoRefreshToken = errors.New("google did not return a refresh token")

// Login runs the OAuth authorization code flow with PKCE for a desktop client.
type Login struct {
	config   *oauth2.Config
	verifier string
	state    string
}

// NewLogin prepares a login for the OAuth client in settings.
// redirectURI must point at a listener that receives the callback.
func NewLogin(settings domain.GoogleSettings, redirectURI string) (*Login, error) {
	if settings.ClientID == "" || settings.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set google.client_id and google.client_secret first", domain.ErrNotConfigured)
	}

	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	return &Login{
		config: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			Endpoint:     endpoints.Google,
			RedirectURL:  redirectURI,
			Scopes:       []string{calendar.CalendarReadonlyScope},
		},
		verifier: oauth2.GenerateVerifier(),
		state:    state,
	}, nil
}

// WithEndpoint overrides the authorization server.
func (l *Login) WithEndpoint(e oauth2.Endpoint) *Login {
	l.config.Endpoint = e
	return l
}

// State returns the anti-forgery value the callback must echo.
func (l *Login) State() string {
	return l.state
}

// AuthURL returns the consent page URL to open in a browser.
func (l *Login) AuthURL() string {
	return l.config.AuthCodeURL(l.state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(l.verifier),
	)
}

// Exchange trades the authorization code for a refresh token.
func (l *Login) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := l.config.Exchange(ctx, code, oauth2.VerifierOption(l.verifier))
	if err != nil {
		return "", fmt.Errorf("exchanging code: %w", err)
	}
	if tok.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}
	return tok.RefreshToken, nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
