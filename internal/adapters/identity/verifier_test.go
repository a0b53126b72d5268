package identity_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"siam_tours/internal/adapters/identity"
	"siam_tours/internal/domain"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerify_MapsClaims(t *testing.T) {
	v, err := identity.NewVerifier(secret, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tok := sign(t, jwt.MapClaims{
		"sub":             "user_1",
		"email":           "ops@example.com",
		"email_verified":  true,
		"emails":          []string{"alt@example.com"},
		"public_metadata": map[string]any{"role": "b2b"},
	})

	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "user_1" || id.RoleClaim != "b2b" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if len(id.VerifiedEmails) != 2 || id.VerifiedEmails[0] != "ops@example.com" {
		t.Fatalf("verified emails: %+v", id.VerifiedEmails)
	}
}

func TestVerify_UnverifiedEmailAndCamelMetadata(t *testing.T) {
	v, _ := identity.NewVerifier(secret, "")
	tok := sign(t, jwt.MapClaims{
		"sub":            "user_2",
		"email":          "someone@example.com",
		"publicMetadata": map[string]any{"role": "admin"},
	})
	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(id.VerifiedEmails) != 0 || id.RoleClaim != "admin" || id.Email != "someone@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerify_Rejects(t *testing.T) {
	v, _ := identity.NewVerifier(secret, "")
	expired := sign(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})
	noSub := sign(t, jwt.MapClaims{"email": "a@b.io"})
	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("other"))

	for name, tok := range map[string]string{"expired": expired, "no sub": noSub, "wrong key": wrongKey, "garbage": "abc"} {
		if _, err := v.Verify(tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}

	none, _ := identity.NewVerifier("", "")
	if _, err := none.Verify(sign(t, jwt.MapClaims{"sub": "u"})); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unconfigured verifier must reject, got %v", err)
	}
}

func TestVerify_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	pub := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := identity.NewVerifier("", pub)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}).SignedString(key)
	if _, err := v.Verify(tok); err != nil {
		t.Fatalf("verify rsa: %v", err)
	}
	// an HMAC token must not pass an RSA verifier
	if _, err := v.Verify(sign(t, jwt.MapClaims{"sub": "u"})); err == nil {
		t.Fatalf("expected HS256 token to be rejected")
	}
}

func TestFromRequest(t *testing.T) {
	v, _ := identity.NewVerifier(secret, "")
	r := httptest.NewRequest("GET", "/me", nil)
	if _, err := v.FromRequest(r); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without header, got %v", err)
	}
	r.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"sub": "u"}))
	id, err := v.FromRequest(r)
	if err != nil || id.UserID != "u" {
		t.Fatalf("got %+v %v", id, err)
	}
}
