package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"siam_tours/internal/domain"
)

type metadata struct {
	Role string `json:"role"`
}

// sessionClaims is the identity provider's session token shape. Both
// metadata spellings are seen in the wild.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email          string    `json:"email"`
	EmailVerified  bool      `json:"email_verified"`
	Emails         []string  `json:"emails"` // verified addresses only
	PublicMetadata *metadata `json:"public_metadata"`
	PublicMetaAlt  *metadata `json:"publicMetadata"`
}

// Verifier checks session tokens signed with an HMAC secret or an RSA key.
type Verifier struct {
	secret []byte
	pub    *rsa.PublicKey
}

// NewVerifier prefers the RSA public key when both are set. With neither, every
// token is rejected.
func NewVerifier(secret, publicKeyPEM string) (*Verifier, error) {
	v := &Verifier{}
	if pem := strings.TrimSpace(publicKeyPEM); pem != "" {
		k, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("parse identity public key: %w", err)
		}
		v.pub = k
		return v, nil
	}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v, nil
}

// FromRequest reads the bearer token. A missing header is ErrUnauthenticated.
func (v *Verifier) FromRequest(r *http.Request) (domain.Identity, error) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(tok) == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return v.Verify(strings.TrimSpace(tok))
}

func (v *Verifier) Verify(token string) (domain.Identity, error) {
	if v.secret == nil && v.pub == nil {
		return domain.Identity{}, fmt.Errorf("%w: no identity key configured", domain.ErrUnauthenticated)
	}

	var c sessionClaims
	_, err := jwt.ParseWithClaims(token, &c, v.key,
		jwt.WithValidMethods(v.methods()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if c.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	id := domain.Identity{UserID: c.Subject, Email: strings.TrimSpace(c.Email)}
	if c.EmailVerified && id.Email != "" {
		id.VerifiedEmails = append(id.VerifiedEmails, id.Email)
	}
	for _, e := range c.Emails {
		if e = strings.TrimSpace(e); e != "" {
			id.VerifiedEmails = append(id.VerifiedEmails, e)
		}
	}
	switch {
	case c.PublicMetadata != nil && c.PublicMetadata.Role != "":
		id.RoleClaim = c.PublicMetadata.Role
	case c.PublicMetaAlt != nil:
		id.RoleClaim = c.PublicMetaAlt.Role
	}
	return id, nil
}

func (v *Verifier) key(t *jwt.Token) (any, error) {
	if v.pub != nil {
		return v.pub, nil
	}
	if len(v.secret) > 0 {
		return v.secret, nil
	}
	return nil, errors.New("no key")
}

func (v *Verifier) methods() []string {
	if v.pub != nil {
		return []string{"RS256", "RS384", "RS512"}
	}
	return []string{"HS256", "HS384", "HS512"}
}
