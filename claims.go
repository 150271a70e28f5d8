package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token use discriminator carried in the token_use claim.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// SessionClaims is the claim set of both session tokens. Access and refresh
// tokens differ only in TokenUse and lifetime; both are self-contained and
// there is no server-side session record.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	TokenUse string `json:"token_use,omitempty"`
}

// UserID returns the user id carried by the token.
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// IsRefresh reports whether this is the long-lived renewal token rather than
// an access token.
func (c *SessionClaims) IsRefresh() bool {
	return c.TokenUse == TokenUseRefresh
}

// Expires returns the expiration time, zero when absent.
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
