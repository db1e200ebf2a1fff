package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the full claim set carried by an identity token. The
// subject (username) is the only application claim; roles and profile
// data are never embedded so a token cannot outlive a role change.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// Subject returns the token subject, the username the token was issued for
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// IssuedAtTime returns the issue instant, zero if the claim is absent
func (c *TokenClaims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns the expiry instant, zero if the claim is absent
func (c *TokenClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
