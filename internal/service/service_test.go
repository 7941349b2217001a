package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitzytip/internal/auth"
	"github.com/mmynk/splitzytip/internal/auth/authtest"
	"github.com/mmynk/splitzytip/internal/mail"
	"github.com/mmynk/splitzytip/internal/middleware"
	"github.com/mmynk/splitzytip/internal/storage/sqlite"
	"github.com/mmynk/splitzytip/pkg/api"
	"github.com/mmynk/splitzytip/pkg/api/apiconnect"
	"github.com/mmynk/splitzytip/pkg/logging"
)

const (
	testSecret   = "test-secret-key-for-sessions"
	testClientID = "test-client.apps.googleusercontent.com"
	testPassword = "correct horse"
)

// testEnv is a running server with real storage, sessions and clients.
type testEnv struct {
	tips     *apiconnect.TipServiceClient
	auth     *apiconnect.AuthServiceClient
	profiles *apiconnect.ProfileServiceClient

	store  *sqlite.SQLiteStore
	outbox *mail.Outbox
	google *authtest.GoogleIssuer
}

type envOption func(*AuthServiceOptions)

func withoutGoogle() envOption {
	return func(o *AuthServiceOptions) { o.Google = nil }
}

// setupTestServer starts the three services behind the real auth interceptor.
func setupTestServer(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := logging.Discard()
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	revoker := auth.NewMemoryRevoker()
	outbox := &mail.Outbox{}
	issuer := authtest.NewGoogleIssuer(t, testClientID)

	authOpts := AuthServiceOptions{
		Authenticator:  auth.NewPasswordAuthenticator(store, bcrypt.MinCost),
		JWTManager:     jwtManager,
		Revoker:        revoker,
		Google:         auth.NewGoogleVerifier(testClientID, issuer.KeySet()),
		Store:          store,
		Mailer:         outbox,
		PublicURL:      "https://tip.example.com",
		VerifyTokenTTL: time.Hour,
		ResetTokenTTL:  time.Hour,
		Logger:         logger,
	}
	for _, opt := range opts {
		opt(&authOpts)
	}

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.RequireAuth(jwtManager, revoker, store, apiconnect.PublicProcedures),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTipServiceHandler(NewTipService(nil, logger), interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authOpts), interceptors))
	mux.Handle(apiconnect.NewProfileServiceHandler(NewProfileService(store, revoker, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		tips:     apiconnect.NewTipServiceClient(server.Client(), server.URL),
		auth:     apiconnect.NewAuthServiceClient(server.Client(), server.URL),
		profiles: apiconnect.NewProfileServiceClient(server.Client(), server.URL),
		store:    store,
		outbox:   outbox,
		google:   issuer,
	}
}

// authed builds a request carrying the session token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// tokenFromMail extracts the token query parameter from the last link mailed to email.
func (e *testEnv) tokenFromMail(t *testing.T, email string) string {
	t.Helper()
	msg, ok := e.outbox.Last(email)
	require.True(t, ok, "no mail sent to %s", email)
	u, err := url.Parse(msg.Link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

// signUp registers an account without verifying it.
func (e *testEnv) signUp(t *testing.T, name, email string) api.Profile {
	t.Helper()
	resp, err := e.auth.SignUp(context.Background(), connect.NewRequest(&api.SignUpRequest{
		Name:           name,
		Email:          email,
		Password:       testPassword,
		RepeatPassword: testPassword,
	}))
	require.NoError(t, err)
	return resp.Msg.Profile
}

// signedInUser registers and verifies an account and returns a session token.
func (e *testEnv) signedInUser(t *testing.T, name, email string) string {
	t.Helper()
	ctx := context.Background()
	e.signUp(t, name, email)

	_, err := e.auth.VerifyEmail(ctx, connect.NewRequest(&api.VerifyEmailRequest{Token: e.tokenFromMail(t, email)}))
	require.NoError(t, err)

	resp, err := e.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: email, Password: testPassword}))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Msg.Token)
	return resp.Msg.Token
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}
