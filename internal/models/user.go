package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account and its profile fields.
//
// Accounts created with email/password carry a PasswordHash and start
// unverified. Accounts created through Google sign-in carry a
// GoogleSubject and may have no password at all.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, stored lower-cased).
	Email string

	// Name is the display name shown on the profile.
	Name string

	// PhotoURL is the avatar image URL. Empty when none was provided.
	PhotoURL string

	// PasswordHash is the bcrypt hash of the password, empty for Google-only accounts.
	PasswordHash string

	// GoogleSubject is the stable Google account ID ("sub" claim) once linked.
	GoogleSubject string

	// EmailVerified is set once the user proves ownership of Email.
	EmailVerified bool

	// SessionVersion is stamped into every session token. Raising it signs
	// out all sessions issued before.
	SessionVersion int64

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile or credential change.
	UpdatedAt int64
}

// NewUser builds an unverified user with a fresh ID and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RevokeSessions invalidates every session issued so far.
func (u *User) RevokeSessions() {
	u.SessionVersion++
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// NormalizeEmail lower-cases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Initials returns up to two initials for an avatar fallback:
// first and last word of the name, or the first letter of a single word.
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(words[0]))
	default:
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[len(words)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
