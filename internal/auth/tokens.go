package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mmynk/splitzytip/internal/models"
)

const actionTokenBytes = 32

// NewActionToken returns a random secret to mail to the user and the
// record to persist, which holds only the secret's hash.
func NewActionToken(userID string, purpose models.TokenPurpose, ttl time.Duration, now time.Time) (string, *models.ActionToken, error) {
	buf := make([]byte, actionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)

	return secret, &models.ActionToken{
		TokenHash: HashActionToken(secret),
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl).Unix(),
		CreatedAt: now.Unix(),
	}, nil
}

// HashActionToken returns the storage key for a mailed token secret.
func HashActionToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
