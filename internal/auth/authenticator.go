package auth

import (
	"context"

	"github.com/mmynk/splitzytip/internal/models"
)

// Authenticator defines the interface for credential-based sign-in.
// This abstraction allows swapping the credential scheme without changing
// the service layer code. Google sign-in goes through GoogleVerifier
// instead, since it proves identity with a third-party token rather than
// a stored credential.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Returns ErrEmailExists if the email is taken.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error

	// HashCredential returns the stored form of a credential, for password resets.
	HashCredential(credential string) (string, error)
}
