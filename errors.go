package identity

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to the structured errors below. HTTP and RPC layers
// key off these rather than matching messages.
const (
	TextCodeEmailTaken          = "EMAIL_TAKEN"
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodeAccountNotConfirmed = "ACCOUNT_NOT_CONFIRMED"
	TextCodeInvalidToken        = "INVALID_TOKEN"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeFederationFailed    = "FEDERATION_FAILED"
	TextCodeUnauthorized        = "UNAUTHORIZED"
	TextCodeNotFound            = "NOT_FOUND"
)

// ErrEmailTaken is returned when a signup targets an email that already has
// an active user. The store's uniqueness constraint is the authority; the
// application-level existence check only exists to fail early.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrInvalidCredentials covers a missing user, a federated-only account with
// no password hash, and a password mismatch. The three cases are deliberately
// indistinguishable to the caller.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotConfirmed is returned when credentials verify but the account
// has not completed email confirmation.
var ErrAccountNotConfirmed = goerrors.New("account not confirmed", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountNotConfirmed).
	WithCode(goerrors.CodeForbidden)

// ErrInvalidToken covers one-time tokens that are absent, already consumed,
// or (for confirmation tokens) expired. A used token is indistinguishable
// from one that never existed.
var ErrInvalidToken = goerrors.New("invalid token", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidToken)

// ErrTokenExpired is surfaced only by the password reset flow; the
// confirmation flow folds expiry into ErrInvalidToken. Callers depend on
// the asymmetry.
var ErrTokenExpired = goerrors.New("token expired", goerrors.CategoryValidation).
	WithTextCode(TextCodeTokenExpired)

// ErrFederationFailed is the single error for any failure while exchanging
// an authorization code with the external provider: bad code, network error,
// or a non-2xx at either provider endpoint.
var ErrFederationFailed = goerrors.New("federated login failed", goerrors.CategoryAuth).
	WithTextCode(TextCodeFederationFailed)

// ErrUnauthorized covers every access-token failure: structural, signature,
// and expiry alike, so the response is not an oracle for token state.
var ErrUnauthorized = goerrors.New("unauthorized", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrNotFound is returned when a valid session points at a user that no
// longer exists.
var ErrNotFound = goerrors.New("not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeNotFound)

// IsUniqueViolation reports whether err is a uniqueness-constraint failure
// from the store. Matched by message because the dialects (postgres, sqlite)
// spell it differently and we do not import driver error types here.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key value")
}

// TranslateCreateUserError maps a store failure during user creation to the
// nearest domain error: a uniqueness violation on users.email means the email
// is taken, anything else is an internal failure.
func TranslateCreateUserError(err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
}
