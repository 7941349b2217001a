package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/internal/auth"
	"github.com/mmynk/splitzytip/internal/mail"
	"github.com/mmynk/splitzytip/internal/middleware"
	"github.com/mmynk/splitzytip/internal/models"
	"github.com/mmynk/splitzytip/internal/storage"
	"github.com/mmynk/splitzytip/pkg/api"
	"github.com/mmynk/splitzytip/pkg/api/apiconnect"
)

// Paths of the pages that consume mailed tokens.
const (
	VerifyEmailPath   = "/verify-email"
	ResetPasswordPath = "/reset-password"
)

// AuthServiceOptions wires the dependencies of AuthService.
type AuthServiceOptions struct {
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Revoker       auth.Revoker
	// Google is nil when Google sign-in is not configured.
	Google *auth.GoogleVerifier
	Store  storage.Store
	Mailer mail.Sender

	// PublicURL prefixes the links in outgoing emails.
	PublicURL      string
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration

	Logger *slog.Logger
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	revoker       auth.Revoker
	google        *auth.GoogleVerifier
	store         storage.Store
	mailer        mail.Sender

	publicURL      string
	verifyTokenTTL time.Duration
	resetTokenTTL  time.Duration

	logger *slog.Logger
	now    func() time.Time
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		authenticator:  opts.Authenticator,
		jwtManager:     opts.JWTManager,
		revoker:        opts.Revoker,
		google:         opts.Google,
		store:          opts.Store,
		mailer:         opts.Mailer,
		publicURL:      opts.PublicURL,
		verifyTokenTTL: opts.VerifyTokenTTL,
		resetTokenTTL:  opts.ResetTokenTTL,
		logger:         opts.Logger,
		now:            time.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.verifyTokenTTL <= 0 {
		s.verifyTokenTTL = 72 * time.Hour
	}
	if s.resetTokenTTL <= 0 {
		s.resetTokenTTL = time.Hour
	}
	if s.mailer == nil {
		s.mailer = mail.LogSender{Logger: s.logger}
	}
	return s
}

// SignUp creates an unverified account and mails a verification link.
// No session is issued: the user signs in once the email is confirmed.
func (s *AuthService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	msg := req.Msg
	s.logger.InfoContext(ctx, "SignUp request", "email", msg.Email)

	if err := validateRequest(msg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.Name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("name is required"))
	}
	if msg.Password != msg.RepeatPassword {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrPasswordMismatch)
	}
	if err := s.authenticator.ValidateCredential(msg.Password); err != nil {
		return nil, authError(err)
	}

	user, err := s.authenticator.Register(ctx, msg.Email, msg.Name, msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			s.logger.WarnContext(ctx, "SignUp for existing email", "email", msg.Email)
		} else {
			s.logger.ErrorContext(ctx, "Registration failed", "email", msg.Email, "error", err)
		}
		return nil, authError(err)
	}

	if msg.PhotoURL != "" {
		user.PhotoURL = msg.PhotoURL
		if err := s.store.UpdateUser(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "Failed to store photo URL", "user_id", user.ID, "error", err)
			return nil, internalError()
		}
	}

	// The account exists either way; a mail failure only means the user
	// has to ask for another link.
	sent := true
	if err := s.sendVerification(ctx, user); err != nil {
		sent = false
		s.logger.ErrorContext(ctx, "Failed to send verification email", "user_id", user.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.SignUpResponse{
		Profile:          profileToAPI(user),
		VerificationSent: sent,
	}), nil
}

// SignIn authenticates with email and password and returns a session token.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	msg := req.Msg
	s.logger.InfoContext(ctx, "SignIn request", "email", msg.Email)

	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Authenticate(ctx, msg.Email, msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.WarnContext(ctx, "SignIn failed", "email", msg.Email)
		} else {
			s.logger.ErrorContext(ctx, "SignIn failed", "email", msg.Email, "error", err)
		}
		return nil, authError(err)
	}
	if !user.EmailVerified {
		return nil, connect.NewError(connect.CodeFailedPrecondition, ErrEmailNotVerified)
	}

	resp, err := s.session(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User signed in", "user_id", user.ID)
	return connect.NewResponse(resp), nil
}

// SignInWithGoogle exchanges a Google ID token for a session. The Google
// account is matched by subject, then linked to an existing account with the
// same email, and otherwise a new account is created from the token.
func (s *AuthService) SignInWithGoogle(ctx context.Context, req *connect.Request[api.SignInWithGoogleRequest]) (*connect.Response[api.SignInResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if s.google == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, auth.ErrGoogleNotConfigured)
	}

	id, err := s.google.Verify(ctx, req.Msg.IDToken)
	if err != nil {
		s.logger.WarnContext(ctx, "Google token rejected", "error", err)
		return nil, authError(err)
	}

	user, err := s.googleUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		return nil, connect.NewError(connect.CodeFailedPrecondition, ErrEmailNotVerified)
	}

	resp, err := s.session(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User signed in with Google", "user_id", user.ID)
	return connect.NewResponse(resp), nil
}

func (s *AuthService) googleUser(ctx context.Context, id *auth.GoogleIdentity) (*models.User, error) {
	user, err := s.store.GetUserByGoogleSubject(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Google subject lookup failed", "error", err)
		return nil, internalError()
	}

	user, err = s.store.GetUserByEmail(ctx, id.Email)
	switch {
	case err == nil:
		// Only a Google-verified address may take over an existing account.
		if !id.EmailVerified {
			return nil, connect.NewError(connect.CodeFailedPrecondition, ErrGoogleEmailUnverified)
		}
		user.GoogleSubject = id.Subject
		user.EmailVerified = true
		if user.Name == "" {
			user.Name = strings.TrimSpace(id.Name)
		}
		if user.PhotoURL == "" {
			user.PhotoURL = id.Picture
		}
		if err := s.store.UpdateUser(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "Failed to link Google account", "user_id", user.ID, "error", err)
			return nil, internalError()
		}
		s.logger.InfoContext(ctx, "Linked Google account", "user_id", user.ID)
		return user, nil

	case errors.Is(err, storage.ErrNotFound):
		user = models.NewUser(id.Email, id.Name, "")
		user.GoogleSubject = id.Subject
		user.PhotoURL = id.Picture
		user.EmailVerified = id.EmailVerified
		if err := s.store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return nil, connect.NewError(connect.CodeAlreadyExists, auth.ErrEmailExists)
			}
			s.logger.ErrorContext(ctx, "Failed to create Google user", "error", err)
			return nil, internalError()
		}
		s.logger.InfoContext(ctx, "User registered with Google", "user_id", user.ID)
		return user, nil

	default:
		s.logger.ErrorContext(ctx, "Email lookup failed", "error", err)
		return nil, internalError()
	}
}

// SignOut revokes the session the request was made with.
func (s *AuthService) SignOut(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	session, ok := middleware.GetSession(ctx)
	if !ok || session.ID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	if err := s.revokeSession(ctx, session); err != nil {
		return nil, internalError()
	}
	s.logger.InfoContext(ctx, "User signed out", "user_id", middleware.GetUserID(ctx))
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *AuthService) revokeSession(ctx context.Context, session middleware.Session) error {
	if s.revoker == nil {
		return nil
	}
	until := session.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(s.jwtManager.TokenDuration())
	}
	if err := s.revoker.Revoke(ctx, session.ID, until); err != nil {
		s.logger.ErrorContext(ctx, "Failed to revoke session", "session_id", session.ID, "error", err)
		return err
	}
	return nil
}

// SendEmailVerification mails a fresh verification link. It reports success
// for unknown and already verified addresses alike.
func (s *AuthService) SendEmailVerification(ctx context.Context, req *connect.Request[api.SendEmailVerificationRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Msg.Email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.InfoContext(ctx, "Verification requested for unknown email", "email", req.Msg.Email)
	case err != nil:
		s.logger.ErrorContext(ctx, "Email lookup failed", "error", err)
		return nil, internalError()
	case user.EmailVerified:
		s.logger.InfoContext(ctx, "Verification requested for verified email", "user_id", user.ID)
	default:
		if err := s.sendVerification(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send verification email", "user_id", user.ID, "error", err)
			return nil, internalError()
		}
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	// Older links stop working once a new one is sent.
	if err := s.store.DeleteTokens(ctx, user.ID, models.PurposeVerifyEmail); err != nil {
		return err
	}
	secret, err := s.issueToken(ctx, user.ID, models.PurposeVerifyEmail, s.verifyTokenTTL)
	if err != nil {
		return err
	}
	link := mail.ActionLink(s.publicURL, VerifyEmailPath, secret)
	return s.mailer.Send(ctx, mail.VerificationEmail(user.Email, user.Name, link))
}

// VerifyEmail consumes a verification token and marks the email verified.
func (s *AuthService) VerifyEmail(ctx context.Context, req *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	tok, err := s.consumeToken(ctx, req.Msg.Token, models.PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeInvalidArgument, ErrInvalidActionToken)
		}
		s.logger.ErrorContext(ctx, "User lookup failed", "user_id", tok.UserID, "error", err)
		return nil, internalError()
	}

	if !user.EmailVerified {
		user.EmailVerified = true
		if err := s.store.UpdateUser(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "Failed to mark email verified", "user_id", user.ID, "error", err)
			return nil, internalError()
		}
	}

	s.logger.InfoContext(ctx, "Email verified", "user_id", user.ID)
	return connect.NewResponse(&api.VerifyEmailResponse{Profile: profileToAPI(user)}), nil
}

// SendPasswordReset mails a reset link when the account exists and always
// reports success, so the response does not reveal which emails are registered.
func (s *AuthService) SendPasswordReset(ctx context.Context, req *connect.Request[api.SendPasswordResetRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Msg.Email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.InfoContext(ctx, "Password reset requested for unknown email", "email", req.Msg.Email)
		return connect.NewResponse(&emptypb.Empty{}), nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Email lookup failed", "error", err)
		return nil, internalError()
	}

	secret, err := s.issueToken(ctx, user.ID, models.PurposeResetPassword, s.resetTokenTTL)
	if err != nil {
		return nil, internalError()
	}
	link := mail.ActionLink(s.publicURL, ResetPasswordPath, secret)
	if err := s.mailer.Send(ctx, mail.PasswordResetEmail(user.Email, user.Name, link)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send password reset email", "user_id", user.ID, "error", err)
		return nil, internalError()
	}

	s.logger.InfoContext(ctx, "Password reset sent", "user_id", user.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ResetPassword sets a new password using a mailed reset token. Every other
// outstanding reset link for the account stops working, and every session
// is signed out.
func (s *AuthService) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[emptypb.Empty], error) {
	msg := req.Msg
	if err := validateRequest(msg); err != nil {
		return nil, err
	}
	if msg.NewPassword != msg.RepeatPassword {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrPasswordMismatch)
	}
	hash, err := s.authenticator.HashCredential(msg.NewPassword)
	if err != nil {
		return nil, authError(err)
	}

	tok, err := s.consumeToken(ctx, msg.Token, models.PurposeResetPassword)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeInvalidArgument, ErrInvalidActionToken)
		}
		s.logger.ErrorContext(ctx, "User lookup failed", "user_id", tok.UserID, "error", err)
		return nil, internalError()
	}

	user.PasswordHash = hash
	user.RevokeSessions()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update password", "user_id", user.ID, "error", err)
		return nil, internalError()
	}
	if err := s.store.DeleteTokens(ctx, user.ID, models.PurposeResetPassword); err != nil {
		s.logger.WarnContext(ctx, "Failed to clear reset tokens", "user_id", user.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "Password reset", "user_id", user.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// issueToken stores a new action token and returns the secret to mail.
func (s *AuthService) issueToken(ctx context.Context, userID string, purpose models.TokenPurpose, ttl time.Duration) (string, error) {
	secret, tok, err := auth.NewActionToken(userID, purpose, ttl, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", "user_id", userID, "error", err)
		return "", err
	}
	if err := s.store.CreateToken(ctx, tok); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store token", "user_id", userID, "error", err)
		return "", err
	}
	return secret, nil
}

// consumeToken looks up a mailed secret and marks it used. Unknown, expired,
// already used and wrong-purpose tokens all fail the same way.
func (s *AuthService) consumeToken(ctx context.Context, secret string, purpose models.TokenPurpose) (*models.ActionToken, error) {
	hash := auth.HashActionToken(strings.TrimSpace(secret))
	now := s.now().Unix()

	tok, err := s.store.GetToken(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeInvalidArgument, ErrInvalidActionToken)
		}
		s.logger.ErrorContext(ctx, "Token lookup failed", "error", err)
		return nil, internalError()
	}
	if tok.Purpose != purpose || !tok.Usable(now) {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrInvalidActionToken)
	}

	if err := s.store.MarkTokenUsed(ctx, hash, now); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Lost a race with another request using the same link.
			return nil, connect.NewError(connect.CodeInvalidArgument, ErrInvalidActionToken)
		}
		s.logger.ErrorContext(ctx, "Failed to mark token used", "error", err)
		return nil, internalError()
	}
	return tok, nil
}

// session issues a session token for user.
func (s *AuthService) session(ctx context.Context, user *models.User) (*api.SignInResponse, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", "user_id", user.ID, "error", err)
		return nil, internalError()
	}
	return &api.SignInResponse{
		Profile:   profileToAPI(user),
		Token:     token,
		ExpiresAt: s.now().Add(s.jwtManager.TokenDuration()).UTC().Truncate(time.Second),
	}, nil
}
