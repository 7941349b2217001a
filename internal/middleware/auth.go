package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitzytip/internal/auth"
	"github.com/mmynk/splitzytip/internal/models"
	"github.com/mmynk/splitzytip/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// SessionKey is the context key for the session being used.
	SessionKey contextKey = "session"
)

// Session identifies the token a request was made with.
type Session struct {
	ID        string
	ExpiresAt time.Time
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetSession extracts the session from the context.
func GetSession(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey).(Session)
	return s, ok
}

// WithClaims stores the authenticated identity on the context.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	noteUserID(ctx, claims.UserID)
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	s := Session{ID: claims.ID}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return context.WithValue(ctx, SessionKey, s)
}

// bearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// UserLookup loads the account a session belongs to.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth returns an interceptor that validates session tokens on every
// procedure not listed in public. Signed-out sessions are rejected, and so
// are sessions of deleted accounts or issued before the account revoked them.
func RequireAuth(jwtManager *auth.JWTManager, revoker auth.Revoker, users UserLookup, public map[string]bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if public[req.Spec().Procedure] {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}
			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			if revoker != nil {
				revoked, err := revoker.IsRevoked(ctx, claims.ID)
				if err != nil {
					slog.ErrorContext(ctx, "Revocation check failed", "user_id", claims.UserID, "error", err)
					return nil, connect.NewError(connect.CodeUnavailable, err)
				}
				if revoked {
					return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrRevokedToken)
				}
			}

			if users != nil {
				user, err := users.GetUserByID(ctx, claims.UserID)
				if errors.Is(err, storage.ErrNotFound) {
					return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrRevokedToken)
				}
				if err != nil {
					slog.ErrorContext(ctx, "Session user lookup failed", "user_id", claims.UserID, "error", err)
					return nil, connect.NewError(connect.CodeUnavailable, err)
				}
				if user.SessionVersion != claims.SessionVersion {
					return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrRevokedToken)
				}
			}

			return next(WithClaims(ctx, claims), req)
		}
	}
}
