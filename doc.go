// Package identity implements the credential and token lifecycle for an
// application: pending signups confirmed by one-time email tokens, password
// logins, password resets, and federated logins through an external identity
// provider, all resolving to short-lived signed session tokens.
//
// The package is organized around three collaborators:
//
//   - a RepositoryManager exposing bun-backed repositories for users,
//     profiles, pending signups, and one-time tokens, with multi-row
//     transactions via RunInTx
//   - a TokenService signing and validating HS256 session tokens
//   - a Notifier delivering plaintext one-time tokens out of band
//
// Lifecycle writes are command handlers (SignupHandler, ConfirmSignupHandler,
// InitializePasswordResetHandler, FinalizePasswordResetHandler) and the
// read/login paths live on Auther. Register the HTTP surface with
// RegisterIdentityRoutes.
//
// One-time tokens are never stored in plaintext: storage keeps a SHA-256
// digest used as a lookup key, and consumption is a compare-and-set update so
// a token can be redeemed exactly once even under concurrent requests.
package identity
