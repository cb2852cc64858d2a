package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// SessionRepository persists [models.Session] rows.
//
// Sessions do not follow the generic repository shape: they are keyed by a
// random token, never updated, and expire rather than soft-delete.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, session.ID(), session.UserID(), session.CreatedAt(), session.ExpiresAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID. Returns [shared.ErrNotFound] for unknown IDs
// and [shared.ErrSessionExpired] for sessions past their expiry.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?
	`

	var (
		sessionID string
		userID    string
		createdAt time.Time
		expiresAt time.Time
	)

	err := r.db.QueryRow(query, id).Scan(&sessionID, &userID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session := models.RestoreSession(sessionID, userID, createdAt, expiresAt)
	if session.Expired() {
		return nil, shared.ErrSessionExpired
	}

	return session, nil
}

// Delete removes a session by ID. Deleting an unknown session is not an error.
func (r *SessionRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes all sessions past their expiry and returns the count.
func (r *SessionRepository) PurgeExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
