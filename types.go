package identity

import "fmt"

// Logger is the minimal logging surface this package needs. Callers plug in
// their own implementation; the default prints to stdout.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the process-wide settings the lifecycle engine reads. TTLs
// are expressed in the unit the consuming component expects; see each getter.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	// GetAccessTokenTTL is the access-token lifetime in minutes.
	GetAccessTokenTTL() int
	// GetRefreshTokenTTL is the refresh-token lifetime in hours.
	GetRefreshTokenTTL() int
	// GetConfirmationTokenTTL is the signup confirmation window in minutes.
	GetConfirmationTokenTTL() int
	// GetResetTokenTTL is the password reset window in minutes.
	GetResetTokenTTL() int
	// GetFrontendBaseURL is where the federated callback redirects with the
	// issued tokens.
	GetFrontendBaseURL() string
}

// SimpleConfig is a plain-struct Config for wiring and tests.
type SimpleConfig struct {
	SigningKey           string
	Issuer               string
	Audience             []string
	AccessTokenTTL       int
	RefreshTokenTTL      int
	ConfirmationTokenTTL int
	ResetTokenTTL        int
	FrontendBaseURL      string
}

func (c SimpleConfig) GetSigningKey() string      { return c.SigningKey }
func (c SimpleConfig) GetIssuer() string          { return c.Issuer }
func (c SimpleConfig) GetAudience() []string      { return c.Audience }
func (c SimpleConfig) GetFrontendBaseURL() string { return c.FrontendBaseURL }

func (c SimpleConfig) GetAccessTokenTTL() int {
	if c.AccessTokenTTL <= 0 {
		return 30
	}
	return c.AccessTokenTTL
}

func (c SimpleConfig) GetRefreshTokenTTL() int {
	if c.RefreshTokenTTL <= 0 {
		return 24 * 30
	}
	return c.RefreshTokenTTL
}

func (c SimpleConfig) GetConfirmationTokenTTL() int {
	if c.ConfirmationTokenTTL <= 0 {
		return 60
	}
	return c.ConfirmationTokenTTL
}

func (c SimpleConfig) GetResetTokenTTL() int {
	if c.ResetTokenTTL <= 0 {
		return 30
	}
	return c.ResetTokenTTL
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
