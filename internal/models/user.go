package models

import (
	"fmt"
	"strings"
	"time"
)

// SpotifyProvider is the provider name for Spotify links.
const SpotifyProvider = "spotify"

// ProviderLink is the persisted credential set associating a user with one
// external music service. The expiry is advisory: it is stored and reported
// but nothing refreshes tokens automatically.
type ProviderLink struct {
	Provider     string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Present reports whether the link exists. A link is present iff the access
// token is non-empty.
func (l ProviderLink) Present() bool {
	return l.AccessToken != ""
}

// User represents an account holder. A user may authenticate with a password,
// through an OAuth sign-in, or both; PasswordHash is empty for OAuth-only
// accounts.
type User struct {
	id           string
	sequence     int
	email        string
	name         string
	passwordHash string
	onboarded    bool
	spotify      ProviderLink
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewUser creates a User with the given sequence, email and display name.
// The ID is assigned by the repository on Create.
func NewUser(sequence int, email, name string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		email:     email,
		name:      name,
		spotify:   ProviderLink{Provider: SpotifyProvider},
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) Email() string         { return u.email }
func (u *User) Name() string          { return u.name }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Onboarded() bool       { return u.onboarded }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

// Spotify returns the user's Spotify link. Check [ProviderLink.Present]
// before using the tokens.
func (u *User) Spotify() ProviderLink { return u.spotify }

func (u *User) SetID(id string)             { u.id = id }
func (u *User) SetSequence(sequence int)    { u.sequence = sequence }
func (u *User) SetPasswordHash(hash string) { u.passwordHash = hash }
func (u *User) SetOnboarded(onboarded bool) { u.onboarded = onboarded }
func (u *User) SetCreatedAt(t time.Time)    { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)    { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time)   { u.deletedAt = t }

// SetSpotify replaces the Spotify link. The provider name is pinned.
func (u *User) SetSpotify(link ProviderLink) {
	link.Provider = SpotifyProvider
	u.spotify = link
}

// Validate checks if the user's data is valid.
func (u *User) Validate() error {
	if u.email == "" || !strings.Contains(u.email, "@") {
		return fmt.Errorf("invalid email: %q", u.email)
	}
	if u.name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
