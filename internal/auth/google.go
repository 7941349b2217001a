package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// GoogleCertsURL is where Google publishes the keys that sign its ID tokens.
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// GoogleIdentity is what a verified Google ID token tells us about the user.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleVerifier checks Google ID tokens from the browser sign-in popup.
type GoogleVerifier struct {
	clientID  string
	keys      jwk.Set
	clockSkew time.Duration
	now       func() time.Time
}

// NewGoogleVerifier verifies tokens against a fixed key set.
func NewGoogleVerifier(clientID string, keys jwk.Set) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:  clientID,
		keys:      keys,
		clockSkew: 30 * time.Second,
		now:       time.Now,
	}
}

// NewCachedGoogleVerifier fetches Google's signing keys from certsURL and keeps
// them refreshed in the background for the lifetime of ctx.
func NewCachedGoogleVerifier(ctx context.Context, clientID, certsURL string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, ErrGoogleNotConfigured
	}
	if certsURL == "" {
		certsURL = GoogleCertsURL
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(certsURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register google certs: %w", err)
	}
	if _, err := cache.Refresh(ctx, certsURL); err != nil {
		return nil, fmt.Errorf("fetch google certs: %w", err)
	}

	return NewGoogleVerifier(clientID, jwk.NewCachedSet(cache, certsURL)), nil
}

// Verify checks the token signature, issuer, audience and lifetime, and
// returns the identity it asserts.
func (v *GoogleVerifier) Verify(_ context.Context, idToken string) (*GoogleIdentity, error) {
	if v == nil || v.clientID == "" {
		return nil, ErrGoogleNotConfigured
	}

	tok, err := jwt.ParseString(idToken,
		jwt.WithKeySet(v.keys),
		jwt.WithValidate(true),
		jwt.WithAudience(v.clientID),
		jwt.WithAcceptableSkew(v.clockSkew),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !validGoogleIssuer(tok.Issuer()) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, tok.Issuer())
	}
	if tok.Subject() == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id := &GoogleIdentity{
		Subject:       tok.Subject(),
		Email:         stringClaim(tok, "email"),
		EmailVerified: boolClaim(tok, "email_verified"),
		Name:          stringClaim(tok, "name"),
		Picture:       stringClaim(tok, "picture"),
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	return id, nil
}

func validGoogleIssuer(iss string) bool {
	for _, want := range googleIssuers {
		if iss == want {
			return true
		}
	}
	return false
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// boolClaim accepts both JSON booleans and the "true" strings some Google
// tokens carry.
func boolClaim(tok jwt.Token, name string) bool {
	v, ok := tok.Get(name)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
