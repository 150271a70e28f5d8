package identity

import "github.com/google/uuid"

// SessionTokens is the triple handed back after any successful
// authentication: login, confirmation (which doubles as a login), and
// federated login.
type SessionTokens struct {
	AccessToken string `json:"access_token"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// CurrentUser is the authenticated-user view returned by Auther.CurrentUser.
// DisplayName is nil when no profile row exists for the user.
type CurrentUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
}
