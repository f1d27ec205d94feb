// internal/pkg/jwt/claims.go
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the upstream access token the portal reads.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims contain a specific role
func (c *Claims) HasRole(role string) bool {
	if c.Role == role {
		return true
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the token belongs to an admin console user.
func (c *Claims) IsAdmin() bool {
	return c.HasRole("admin") || c.HasRole("super_admin")
}

// Expiry returns the exp claim. ok is false when the token carries none.
func (c *Claims) Expiry() (time.Time, bool) {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.RegisteredClaims.ExpiresAt.Time, true
}

// Expired reports whether exp is set and not after now.
func (c *Claims) Expired(now time.Time) bool {
	exp, ok := c.Expiry()
	return ok && !now.Before(exp)
}
