package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitzytip/internal/models"
	"github.com/mmynk/splitzytip/internal/storage"
)

// CreateToken persists a verification or reset token.
func (s *SQLiteStore) CreateToken(ctx context.Context, token *models.ActionToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_tokens (token_hash, user_id, purpose, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		token.TokenHash, token.UserID, string(token.Purpose), token.ExpiresAt, token.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create token: %w", storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// GetToken retrieves a token by hash.
func (s *SQLiteStore) GetToken(ctx context.Context, tokenHash string) (*models.ActionToken, error) {
	token := &models.ActionToken{}
	var purpose string
	var usedAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT token_hash, user_id, purpose, expires_at, created_at, used_at
		 FROM action_tokens WHERE token_hash = ?`,
		tokenHash,
	).Scan(&token.TokenHash, &token.UserID, &purpose, &token.ExpiresAt, &token.CreatedAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("token: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	token.Purpose = models.TokenPurpose(purpose)
	if usedAt.Valid {
		v := usedAt.Int64
		token.UsedAt = &v
	}
	return token, nil
}

// MarkTokenUsed redeems a token. Only the first redemption succeeds.
func (s *SQLiteStore) MarkTokenUsed(ctx context.Context, tokenHash string, usedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE action_tokens SET used_at = ? WHERE token_hash = ? AND used_at IS NULL",
		usedAt, tokenHash,
	)
	if err != nil {
		return fmt.Errorf("failed to mark token used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check token update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("unused token: %w", storage.ErrNotFound)
	}
	return nil
}

// DeleteTokens removes a user's tokens, optionally restricted to one purpose.
func (s *SQLiteStore) DeleteTokens(ctx context.Context, userID string, purpose models.TokenPurpose) error {
	var err error
	if purpose == "" {
		_, err = s.db.ExecContext(ctx, "DELETE FROM action_tokens WHERE user_id = ?", userID)
	} else {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM action_tokens WHERE user_id = ? AND purpose = ?",
			userID, string(purpose),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
