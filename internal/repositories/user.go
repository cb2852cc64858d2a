package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// userColumns is the column list shared by every user SELECT.
const userColumns = `id, sequence, email, name, password_hash, is_onboarded,
	spotify_access_token, spotify_refresh_token, spotify_token_expiry,
	created_at, updated_at, deleted_at`

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence.
// Returns [shared.ErrDuplicateEmail] if the email is already registered.
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)
	user.SetSequence(sequence)

	query := `
		INSERT INTO users (id, sequence, email, name, password_hash, is_onboarded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.Email(), user.Name(),
		nullString(user.PasswordHash()), user.Onboarded(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return fmt.Errorf("%w: %s", shared.ErrDuplicateEmail, user.Email())
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users.
// Returns [shared.ErrNotFound] if no such user exists.
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ? AND deleted_at IS NULL", userColumns)
	return r.scanUser(r.db.QueryRow(query, id), id)
}

// FindByEmail retrieves a user by email, excluding soft-deleted users.
// Returns [shared.ErrNotFound] if no such user exists.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = ? AND deleted_at IS NULL", userColumns)
	return r.scanUser(r.db.QueryRow(query, email), email)
}

// Update modifies an existing user's profile fields in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET email = ?, name = ?, password_hash = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Email(), user.Name(), nullString(user.PasswordHash()), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return r.requireRow(result, user.ID())
}

// UpdateSpotifyLink sets the Spotify token fields for the user with the given
// email. Concurrent callbacks are last-writer-wins: tokens are idempotently
// overwritten with the freshest values.
func (r *UserRepository) UpdateSpotifyLink(email string, link models.ProviderLink) error {
	now := time.Now()

	query := `
		UPDATE users
		SET spotify_access_token = ?, spotify_refresh_token = ?, spotify_token_expiry = ?, updated_at = ?
		WHERE email = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, nullString(link.AccessToken), nullString(link.RefreshToken),
		nullTime(link.Expiry), now, email)
	if err != nil {
		return fmt.Errorf("failed to update spotify link: %w", err)
	}

	return r.requireRow(result, email)
}

// SetOnboarded sets the onboarding flag for the user with the given ID.
// Idempotent: completing an already-onboarded user is not an error. Linkage
// is deliberately not checked, completion does not require a connected
// provider.
func (r *UserRepository) SetOnboarded(id string, onboarded bool) error {
	now := time.Now()

	query := `
		UPDATE users
		SET is_onboarded = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, onboarded, now, id)
	if err != nil {
		return fmt.Errorf("failed to update onboarding flag: %w", err)
	}

	return r.requireRow(result, id)
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return r.requireRow(result, id)
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE deleted_at IS NULL", userColumns)

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	if onboarded, ok := criteria["onboarded"].(bool); ok {
		query += " AND is_onboarded = ?"
		args = append(args, onboarded)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows, "")
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// scanner covers both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// scanUser reads one user row. The key is only used in error messages.
func (r *UserRepository) scanUser(row scanner, key string) (*models.User, error) {
	var (
		userID       string
		sequence     int
		email        string
		name         string
		passwordHash sql.NullString
		onboarded    bool
		accessToken  sql.NullString
		refreshToken sql.NullString
		tokenExpiry  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&userID, &sequence, &email, &name, &passwordHash, &onboarded,
		&accessToken, &refreshToken, &tokenExpiry, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(sequence, email, name)
	user.SetID(userID)
	user.SetPasswordHash(passwordHash.String)
	user.SetOnboarded(onboarded)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	link := models.ProviderLink{
		Provider:     models.SpotifyProvider,
		AccessToken:  accessToken.String,
		RefreshToken: refreshToken.String,
	}
	if tokenExpiry.Valid {
		link.Expiry = tokenExpiry.Time
	}
	user.SetSpotify(link)

	return user, nil
}

// requireRow maps a zero-row update to [shared.ErrNotFound].
func (r *UserRepository) requireRow(result sql.Result, key string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, key)
	}
	return nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps the zero time to NULL.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
