// Package federation defines the provider surface for delegated login.
// A provider hands the browser to an external identity provider, then turns
// the returned authorization code into a verified profile.
package federation

import (
	"context"
	"fmt"
)

// Provider is an external identity provider.
type Provider interface {
	// Name returns the provider identifier (e.g., "google").
	Name() string

	// AuthCodeURL returns the URL to redirect users for authorization.
	// The state parameter should be included for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the user's profile. It
	// performs the token exchange and the userinfo fetch in one step; the
	// provider's access token never leaves this call.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// Profile is the normalized identity returned by a provider.
type Profile struct {
	Email       string
	DisplayName string
}

// ProviderError captures normalized provider response details.
type ProviderError struct {
	Provider    string
	Operation   string
	Status      int
	Code        string
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}

	scope := "provider"
	if e.Provider != "" && e.Operation != "" {
		scope = fmt.Sprintf("%s %s", e.Provider, e.Operation)
	} else if e.Provider != "" {
		scope = e.Provider
	} else if e.Operation != "" {
		scope = e.Operation
	}

	if e.Description != "" {
		return fmt.Sprintf("%s failed: %s", scope, e.Description)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s failed: %s", scope, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", scope, e.Err)
	}

	return fmt.Sprintf("%s failed", scope)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
