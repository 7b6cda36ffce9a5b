// Package identity wraps federated sign-in providers.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is the profile endpoint queried after the code exchange.
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrNotConfigured    = errors.New("google sign-in is not configured")
	ErrEmailNotVerified = errors.New("google account email is not verified")
)

// Profile is the identity asserted by the provider.
type Profile struct {
	Subject string
	Email   string
	Name    string
}

// Google performs the OAuth2 authorization-code flow against Google.
type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogle creates a Google provider. Empty credentials yield a disabled provider.
func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return NewGoogleWithEndpoint(clientID, clientSecret, redirectURL, google.Endpoint, GoogleUserInfoURL)
}

// NewGoogleWithEndpoint creates a provider against explicit endpoints.
func NewGoogleWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

// Enabled reports whether client credentials are present.
func (g *Google) Enabled() bool {
	return g != nil && g.config.ClientID != "" && g.config.ClientSecret != ""
}

// AuthCodeURL returns the consent page URL carrying state.
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades an authorization code for the signed-in profile.
// POST: Returns ErrEmailNotVerified when Google has not verified the address
func (g *Google) Exchange(ctx context.Context, code string) (Profile, error) {
	if !g.Enabled() {
		return Profile{}, ErrNotConfigured
	}
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("exchange google code: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch google user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("fetch google user info: status %d", resp.StatusCode)
	}

	var payload struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Profile{}, fmt.Errorf("decode google user info: %w", err)
	}
	if !payload.VerifiedEmail {
		return Profile{}, ErrEmailNotVerified
	}
	return Profile{
		Subject: payload.ID,
		Email:   strings.ToLower(strings.TrimSpace(payload.Email)),
		Name:    payload.Name,
	}, nil
}
