package identity_test

import (
	"testing"
	"time"

	identity "github.com/goliatone/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationTokenRef(t *testing.T) {
	pendingID := uuid.New()
	userID := uuid.New()

	t.Run("pending signup reference", func(t *testing.T) {
		token := &identity.ConfirmationToken{PendingSignupID: &pendingID}
		ref, err := token.Ref()
		require.NoError(t, err)
		assert.Equal(t, identity.TokenRefPendingSignup, ref.Kind)
		assert.Equal(t, pendingID, ref.ID)
	})

	t.Run("user reference", func(t *testing.T) {
		token := &identity.ConfirmationToken{UserID: &userID}
		ref, err := token.Ref()
		require.NoError(t, err)
		assert.Equal(t, identity.TokenRefUser, ref.Kind)
		assert.Equal(t, userID, ref.ID)
	})

	t.Run("both set is corrupt", func(t *testing.T) {
		token := &identity.ConfirmationToken{PendingSignupID: &pendingID, UserID: &userID}
		_, err := token.Ref()
		require.Error(t, err)
	})

	t.Run("neither set is corrupt", func(t *testing.T) {
		token := &identity.ConfirmationToken{}
		_, err := token.Ref()
		require.Error(t, err)
	})
}

func TestConfirmationTokenConsumable(t *testing.T) {
	now := time.Now()

	t.Run("live token", func(t *testing.T) {
		token := &identity.ConfirmationToken{ExpiresAt: now.Add(time.Hour)}
		assert.True(t, token.Consumable(now))
		assert.False(t, token.Expired(now))
	})

	t.Run("used token", func(t *testing.T) {
		token := &identity.ConfirmationToken{ExpiresAt: now.Add(time.Hour), Used: true}
		assert.False(t, token.Consumable(now))
	})

	t.Run("expired token", func(t *testing.T) {
		token := &identity.ConfirmationToken{ExpiresAt: now.Add(-time.Minute)}
		assert.True(t, token.Expired(now))
		assert.False(t, token.Consumable(now))
	})
}

func TestPendingSignupConsumable(t *testing.T) {
	now := time.Now()

	pending := &identity.PendingSignup{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, pending.Consumable(now))

	pending.Used = true
	assert.False(t, pending.Consumable(now))

	pending.Used = false
	pending.ExpiresAt = now.Add(-time.Second)
	assert.False(t, pending.Consumable(now))
}

func TestPasswordResetTokenExpired(t *testing.T) {
	now := time.Now()

	token := &identity.PasswordResetToken{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, token.Expired(now))

	token.ExpiresAt = now.Add(-time.Minute)
	assert.True(t, token.Expired(now))
}

func TestDisplayNameOrDefault(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		email       string
		expected    string
	}{
		{"explicit name wins", "Pepe Rone", "pepe.rone@example.com", "Pepe Rone"},
		{"whitespace only falls back", "   ", "pepe.rone@example.com", "pepe.rone"},
		{"empty falls back to local part", "", "pepe.rone@example.com", "pepe.rone"},
		{"no at sign keeps email", "", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, identity.DisplayNameOrDefault(tt.displayName, tt.email))
		})
	}
}
