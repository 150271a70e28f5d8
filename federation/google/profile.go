package google

import (
	"strings"

	"github.com/goliatone/go-identity/federation"
)

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

func mapProfile(info *googleUserInfo) *federation.Profile {
	if info == nil {
		return nil
	}

	name := info.Name
	if name == "" {
		if at := strings.Index(info.Email, "@"); at > 0 {
			name = info.Email[:at]
		}
	}

	return &federation.Profile{
		Email:       info.Email,
		DisplayName: name,
	}
}
