package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitzytip/internal/auth"
)

var (
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrInvalidActionToken    = errors.New("link is invalid or has expired")
	ErrGoogleEmailUnverified = errors.New("google account email is not verified")
	ErrUserNotFound          = errors.New("user not found")
)

// internalError hides the cause from the client. Callers log it first.
func internalError() error {
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// authError maps errors from package auth to Connect codes.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, auth.ErrEmailExists)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrGoogleNotConfigured):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	default:
		return internalError()
	}
}
