package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when the credential is not a parseable JWT.
var ErrMalformed = errors.New("malformed credential")

// Claims is the unverified subset of token claims the client reads.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

type tokenClaims struct {
	Role string `json:"role,omitempty"`
	jwtlib.RegisteredClaims
}

// Peek decodes the token payload without signature verification. The result
// must never be used for an authorization decision; it only informs whether
// a hydrate round-trip is worth issuing.
func Peek(credential string) (*Claims, error) {
	parser := jwtlib.NewParser()
	var claims tokenClaims
	if _, _, err := parser.ParseUnverified(credential, &claims); err != nil {
		return nil, ErrMalformed
	}

	out := &Claims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether the claims carry an expiry at or before now.
// Tokens without an exp claim never expire locally; the backend decides.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !c.ExpiresAt.After(now)
}
