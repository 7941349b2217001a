package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/splitzytip/internal/models"
	"github.com/mmynk/splitzytip/internal/storage"
)

const userColumns = `id, email, name, photo_url, password_hash, google_subject, email_verified, session_version, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		models.NormalizeEmail(user.Email),
		user.Name,
		user.PhotoURL,
		user.PasswordHash,
		nullString(user.GoogleSubject),
		boolToInt(user.EmailVerified),
		user.SessionVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create user: %w", storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", models.NormalizeEmail(email))
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByGoogleSubject retrieves the user linked to a Google account.
func (s *SQLiteStore) GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	return s.getUser(ctx, "google_subject", subject)
}

// getUser looks up a single user by column. column is never user input.
func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s=%q: %w", column, value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

// UpdateUser overwrites the profile and credential fields of a user.
// The session version only moves forward, so a stale copy cannot
// resurrect revoked sessions.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, name = ?, photo_url = ?, password_hash = ?,
		    google_subject = ?, email_verified = ?,
		    session_version = MAX(session_version, ?), updated_at = ?
		WHERE id = ?
	`,
		models.NormalizeEmail(user.Email),
		user.Name,
		user.PhotoURL,
		user.PasswordHash,
		nullString(user.GoogleSubject),
		boolToInt(user.EmailVerified),
		user.SessionVersion,
		user.UpdatedAt,
		user.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to update user: %w", storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteUser removes a user. Their tokens go with them via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var subject sql.NullString
	var verified int
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PhotoURL,
		&user.PasswordHash,
		&subject,
		&verified,
		&user.SessionVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.GoogleSubject = subject.String
	user.EmailVerified = verified != 0
	return user, nil
}
