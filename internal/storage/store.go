// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitzytip/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

// UserStore persists accounts and their profile fields.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrConflict if the email or
	// Google subject is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error)

	// UpdateUser overwrites the mutable fields of an existing user and
	// bumps UpdatedAt. Returns ErrNotFound if the user does not exist.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes the user and, by cascade, their tokens.
	DeleteUser(ctx context.Context, id string) error
}

// TokenStore persists email verification and password reset tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token *models.ActionToken) error

	// GetToken looks a token up by the hash of its secret.
	GetToken(ctx context.Context, tokenHash string) (*models.ActionToken, error)

	// MarkTokenUsed stamps UsedAt. Returns ErrNotFound if the token was
	// already used or does not exist.
	MarkTokenUsed(ctx context.Context, tokenHash string, usedAt int64) error

	// DeleteTokens removes the user's tokens for purpose, or all of them
	// when purpose is empty.
	DeleteTokens(ctx context.Context, userID string, purpose models.TokenPurpose) error
}

// Store combines every persistence concern of the application.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore
	TokenStore

	// Close releases any resources held by the store.
	Close() error
}
