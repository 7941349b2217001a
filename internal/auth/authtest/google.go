// Package authtest mints Google-style ID tokens for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// GoogleIssuer signs ID tokens with a throwaway RSA key and exposes the
// matching public key set.
type GoogleIssuer struct {
	ClientID string
	private  jwk.Key
	public   jwk.Set
}

// GoogleClaims are the claims placed in a minted ID token.
type GoogleClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string

	// Overrides for negative tests. Zero values mean "use a valid default".
	Issuer   string
	Audience string
	Expiry   time.Time
}

// NewGoogleIssuer creates an issuer for the given OAuth client ID.
func NewGoogleIssuer(t testing.TB, clientID string) *GoogleIssuer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	priv, err := jwk.FromRaw(raw)
	if err != nil {
		t.Fatalf("wrap private key: %v", err)
	}
	if err := priv.Set(jwk.KeyIDKey, "test-key"); err != nil {
		t.Fatalf("set kid: %v", err)
	}
	if err := priv.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		t.Fatalf("set alg: %v", err)
	}

	pub, err := jwk.PublicKeyOf(priv)
	if err != nil {
		t.Fatalf("derive public key: %v", err)
	}
	set := jwk.NewSet()
	if err := set.AddKey(pub); err != nil {
		t.Fatalf("add key: %v", err)
	}

	return &GoogleIssuer{ClientID: clientID, private: priv, public: set}
}

// KeySet returns the public keys to verify minted tokens against.
func (g *GoogleIssuer) KeySet() jwk.Set {
	return g.public
}

// Sign mints an ID token carrying c.
func (g *GoogleIssuer) Sign(t testing.TB, c GoogleClaims) string {
	t.Helper()

	iss := c.Issuer
	if iss == "" {
		iss = "https://accounts.google.com"
	}
	aud := c.Audience
	if aud == "" {
		aud = g.ClientID
	}
	exp := c.Expiry
	if exp.IsZero() {
		exp = time.Now().Add(time.Hour)
	}

	b := jwt.NewBuilder().
		Issuer(iss).
		Audience([]string{aud}).
		Subject(c.Subject).
		IssuedAt(time.Now()).
		Expiration(exp).
		Claim("email", c.Email).
		Claim("email_verified", c.EmailVerified)
	if c.Name != "" {
		b = b.Claim("name", c.Name)
	}
	if c.Picture != "" {
		b = b.Claim("picture", c.Picture)
	}
	tok, err := b.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, g.private))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}
