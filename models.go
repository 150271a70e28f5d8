package identity

import (
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an activated account. PasswordHash is nil for federated-only
// accounts, which can never authenticate with Login.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  *string    `bun:"password_hash" json:"-"`
	Active        bool       `bun:"is_active,notnull" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Profile is the display identity paired 1:1 with a User; it shares the
// user's id and is created in the same transaction.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:prf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PendingSignup is an unconfirmed registration. It never materializes a User
// until its paired confirmation token is redeemed, and once used or expired
// it is inert; stale rows are garbage by policy, not reaped by code.
type PendingSignup struct {
	bun.BaseModel `bun:"table:pending_signups,alias:psu"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	Used          bool       `bun:"used,notnull" json:"used"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the signup window has closed.
func (p *PendingSignup) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Consumable reports whether the pending signup can still be confirmed.
func (p *PendingSignup) Consumable(now time.Time) bool {
	return !p.Used && !p.Expired(now)
}

// TokenRefKind discriminates what a confirmation token activates.
type TokenRefKind string

const (
	// TokenRefPendingSignup means redeeming the token materializes the
	// referenced pending signup into a User and Profile.
	TokenRefPendingSignup TokenRefKind = "pending_signup"
	// TokenRefUser means redeeming the token re-activates an existing User.
	TokenRefUser TokenRefKind = "user"
)

// TokenRef is the resolved target of a confirmation token.
type TokenRef struct {
	Kind TokenRefKind
	ID   uuid.UUID
}

// ConfirmationToken is a one-time proof of mailbox ownership. Storage keeps
// only the SHA-256 digest of the token; the plaintext is disclosed once, at
// issuance, through the delivery channel.
//
// Exactly one of PendingSignupID or UserID is set; Ref resolves the pair
// into a tagged TokenRef so the two confirm paths stay exhaustive.
type ConfirmationToken struct {
	bun.BaseModel   `bun:"table:confirmation_tokens,alias:cft"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TokenHash       string     `bun:"token_hash,notnull,unique" json:"-"`
	PendingSignupID *uuid.UUID `bun:"pending_signup_id,nullzero,type:uuid" json:"pending_signup_id,omitempty"`
	UserID          *uuid.UUID `bun:"user_id,nullzero,type:uuid" json:"user_id,omitempty"`
	ExpiresAt       time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	Used            bool       `bun:"used,notnull" json:"used"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Ref resolves the token's reference. A token with both or neither target
// set is a corrupt record and yields an internal error.
func (t *ConfirmationToken) Ref() (TokenRef, error) {
	switch {
	case t.PendingSignupID != nil && t.UserID != nil:
		return TokenRef{}, goerrors.New("confirmation token references both a pending signup and a user", goerrors.CategoryInternal)
	case t.PendingSignupID != nil:
		return TokenRef{Kind: TokenRefPendingSignup, ID: *t.PendingSignupID}, nil
	case t.UserID != nil:
		return TokenRef{Kind: TokenRefUser, ID: *t.UserID}, nil
	default:
		return TokenRef{}, goerrors.New("confirmation token references nothing", goerrors.CategoryInternal)
	}
}

// Expired reports whether the token is past its expiry.
func (t *ConfirmationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Consumable reports whether the token can still be redeemed.
func (t *ConfirmationToken) Consumable(now time.Time) bool {
	return !t.Used && !t.Expired(now)
}

// PasswordResetToken is a one-time proof of reset authorization, stored as a
// digest like ConfirmationToken.
type PasswordResetToken struct {
	bun.BaseModel `bun:"table:password_reset_tokens,alias:prt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TokenHash     string     `bun:"token_hash,notnull,unique" json:"-"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	Used          bool       `bun:"used,notnull" json:"used"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the token is past its expiry.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// DisplayNameOrDefault falls back to the email's local part when no display
// name was supplied.
func DisplayNameOrDefault(displayName, email string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
