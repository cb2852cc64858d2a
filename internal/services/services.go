// package services defines interface Provider for music streaming accounts
//
// Spotify is fully implemented; YouTube Music and Deezer are stubs.
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider defines the interface for music service account linking.
// Implementations wrap one external service's OAuth2 authorization-code flow.
type Provider interface {
	// Name returns the canonical provider name (e.g., "spotify").
	Name() string

	// AuthURL builds the external authorization URL carrying the given
	// state token and the provider's configured scopes.
	AuthURL(state string) (string, error)

	// Exchange trades an authorization code for tokens via the provider's
	// token endpoint. The HTTP status is checked before the body is
	// trusted; provider error payloads surface as errors.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// Registry maps provider names to implementations.
type Registry map[string]Provider

// NewRegistry builds a Registry from the given providers, keyed by Name.
func NewRegistry(providers ...Provider) Registry {
	registry := make(Registry, len(providers))
	for _, p := range providers {
		registry[p.Name()] = p
	}
	return registry
}

// Lookup returns the named provider, or nil if unregistered.
func (r Registry) Lookup(name string) Provider {
	return r[name]
}
