// Spotify implementation of [Provider]
//
// Endpoints and scopes from https://developer.spotify.com/documentation/web-api/concepts/authorization
package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// spotifyScopes covers profile, email, and playlist read/write/collaborative
// access.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
}

// SpotifyProvider implements [Provider] for Spotify account linking.
// Uses [oauth2] for the authorization-code exchange: the library sends the
// client id/secret as HTTP Basic credentials and rejects non-2xx token
// responses instead of parsing them as success payloads.
type SpotifyProvider struct {
	config  *oauth2.Config
	timeout time.Duration
}

// NewSpotifyProvider creates a Spotify provider from the given credentials.
func NewSpotifyProvider(credentials map[string]string) (*SpotifyProvider, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		return nil, fmt.Errorf("%w: missing redirect_uri", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyProvider{config: config, timeout: 30 * time.Second}, nil
}

func (s *SpotifyProvider) Name() string {
	return "spotify"
}

// AuthURL returns the OAuth2 authorization URL for user consent.
func (s *SpotifyProvider) AuthURL(state string) (string, error) {
	return s.config.AuthCodeURL(state), nil
}

// Exchange trades the authorization code for tokens. The exchange is bounded
// by the provider timeout so a hung token endpoint cannot hang the request
// forever.
func (s *SpotifyProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}

	return token, nil
}

// WithHTTPClient overrides the HTTP client used for the token exchange.
// Tests point this at an httptest server.
func (s *SpotifyProvider) WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

// WithTokenURL overrides the token endpoint. Tests only.
func (s *SpotifyProvider) WithTokenURL(tokenURL string) {
	s.config.Endpoint.TokenURL = tokenURL
}
