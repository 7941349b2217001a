package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitzytip/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store, bcrypt.MinCost)
}

func TestPasswordAuthenticator(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	user, err := a.Register(ctx, "Ada@Example.com", "Ada", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
	if user.EmailVerified {
		t.Error("registered users must start unverified")
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "correct credentials", email: "ada@example.com", password: "correct horse"},
		{name: "email is case-insensitive", email: " ADA@example.com ", password: "correct horse"},
		{name: "wrong password", email: "ada@example.com", password: "battery staple", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", password: "correct horse", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != user.ID {
				t.Errorf("Authenticate() user = %s, want %s", got.ID, user.ID)
			}
		})
	}
}

func TestPasswordAuthenticatorRegisterErrors(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	if _, err := a.Register(ctx, "x@example.com", "X", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password: error = %v, want ErrWeakPassword", err)
	}

	if _, err := a.Register(ctx, "x@example.com", "X", "long enough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "X@EXAMPLE.COM", "X again", "long enough"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email: error = %v, want ErrEmailExists", err)
	}
}

func TestValidateCredential(t *testing.T) {
	a := NewPasswordAuthenticator(nil, bcrypt.MinCost)
	tests := []struct {
		password string
		wantErr  bool
	}{
		{password: "", wantErr: true},
		{password: "1234567", wantErr: true},
		{password: "12345678", wantErr: false},
		{password: string(make([]byte, 73)), wantErr: true},
	}
	for _, tt := range tests {
		if err := a.ValidateCredential(tt.password); (err != nil) != tt.wantErr {
			t.Errorf("ValidateCredential(len %d) error = %v, wantErr %v", len(tt.password), err, tt.wantErr)
		}
	}
}
