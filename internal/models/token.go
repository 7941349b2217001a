package models

// TokenPurpose scopes an ActionToken to a single flow.
type TokenPurpose string

const (
	PurposeVerifyEmail   TokenPurpose = "verify_email"
	PurposeResetPassword TokenPurpose = "reset_password"
)

// ActionToken is a single-use, expiring token mailed to the user.
// Only the SHA-256 hash of the token is persisted.
type ActionToken struct {
	TokenHash string
	UserID    string
	Purpose   TokenPurpose

	// ExpiresAt and CreatedAt are Unix timestamps.
	ExpiresAt int64
	CreatedAt int64

	// UsedAt is nil until the token is redeemed.
	UsedAt *int64
}

// Usable reports whether the token is unused and not expired at now (Unix seconds).
func (t *ActionToken) Usable(now int64) bool {
	return t.UsedAt == nil && now < t.ExpiresAt
}
