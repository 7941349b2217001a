package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/internal/auth"
	"github.com/mmynk/splitzytip/internal/middleware"
	"github.com/mmynk/splitzytip/internal/models"
	"github.com/mmynk/splitzytip/internal/storage"
	"github.com/mmynk/splitzytip/pkg/api"
	"github.com/mmynk/splitzytip/pkg/api/apiconnect"
)

// ProfileService implements the Connect ProfileService for the signed-in user.
type ProfileService struct {
	store   storage.Store
	revoker auth.Revoker
	logger  *slog.Logger
}

var _ apiconnect.ProfileServiceHandler = (*ProfileService)(nil)

// NewProfileService creates the profile service. revoker may be nil.
func NewProfileService(store storage.Store, revoker auth.Revoker, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{store: store, revoker: revoker, logger: logger}
}

func (s *ProfileService) currentUser(ctx context.Context) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, ErrUserNotFound)
		}
		s.logger.ErrorContext(ctx, "User lookup failed", "user_id", userID, "error", err)
		return nil, internalError()
	}
	return user, nil
}

// GetProfile returns the caller's profile.
func (s *ProfileService) GetProfile(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ProfileResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ProfileResponse{Profile: profileToAPI(user)}), nil
}

// UpdateProfile changes the display name and/or photo URL. An empty photo
// URL removes the photo, and the avatar falls back to initials.
func (s *ProfileService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	msg := req.Msg
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if msg.Name != nil {
		name := strings.TrimSpace(*msg.Name)
		if name == "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("name must not be empty"))
		}
		user.Name = name
	}
	if msg.PhotoURL != nil {
		photo := strings.TrimSpace(*msg.PhotoURL)
		if err := validateURL("photoUrl", photo); err != nil {
			return nil, err
		}
		user.PhotoURL = photo
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, ErrUserNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to update profile", "user_id", user.ID, "error", err)
		return nil, internalError()
	}

	s.logger.InfoContext(ctx, "Profile updated", "user_id", user.ID)
	return connect.NewResponse(&api.ProfileResponse{Profile: profileToAPI(user)}), nil
}

// DeleteProfile removes the caller's data, then the account itself, and
// signs the current session out.
func (s *ProfileService) DeleteProfile(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteTokens(ctx, user.ID, ""); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete tokens", "user_id", user.ID, "error", err)
		return nil, internalError()
	}
	if err := s.store.DeleteUser(ctx, user.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Failed to delete user", "user_id", user.ID, "error", err)
		return nil, internalError()
	}

	if session, ok := middleware.GetSession(ctx); ok && s.revoker != nil && session.ID != "" {
		if err := s.revoker.Revoke(ctx, session.ID, session.ExpiresAt); err != nil {
			// The account is already gone; a token for it cannot load a profile.
			s.logger.WarnContext(ctx, "Failed to revoke session after delete", "user_id", user.ID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Account deleted", "user_id", user.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
