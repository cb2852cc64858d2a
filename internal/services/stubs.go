package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

// StubProvider is a placeholder [Provider] for services whose linking flow is
// not built yet. Every operation fails with [shared.ErrNotImplemented].
type StubProvider struct {
	name string
}

// NewYouTubeMusicProvider returns the YouTube Music stub.
func NewYouTubeMusicProvider() *StubProvider {
	return &StubProvider{name: "youtube"}
}

// NewDeezerProvider returns the Deezer stub.
func NewDeezerProvider() *StubProvider {
	return &StubProvider{name: "deezer"}
}

func (s *StubProvider) Name() string {
	return s.name
}

func (s *StubProvider) AuthURL(state string) (string, error) {
	return "", fmt.Errorf("%w: %s linking", shared.ErrNotImplemented, s.name)
}

func (s *StubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return nil, fmt.Errorf("%w: %s linking", shared.ErrNotImplemented, s.name)
}
