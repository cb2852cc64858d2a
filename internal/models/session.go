package models

import (
	"fmt"
	"time"
)

// Session is a server-side login session. The ID doubles as the cookie value,
// so it must come from a cryptographic random source.
type Session struct {
	id        string
	userID    string
	createdAt time.Time
	expiresAt time.Time
}

// NewSession creates a session for the given user expiring after maxAge.
func NewSession(id, userID string, maxAge time.Duration) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		userID:    userID,
		createdAt: now,
		expiresAt: now.Add(maxAge),
	}
}

// RestoreSession reconstructs a session from persisted fields.
func RestoreSession(id, userID string, createdAt, expiresAt time.Time) *Session {
	return &Session{id: id, userID: userID, createdAt: createdAt, expiresAt: expiresAt}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.expiresAt)
}

// Validate checks if the session's data is valid.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("session ID is required")
	}
	if s.userID == "" {
		return fmt.Errorf("session user ID is required")
	}
	return nil
}
