package identity_test

import (
	"testing"

	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := identity.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)

		assert.NoError(t, identity.ComparePasswordAndHash("correct horse battery staple", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := identity.HashPassword("")
		require.Error(t, err)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		a, err := identity.HashPassword("password12345")
		require.NoError(t, err)
		b, err := identity.HashPassword("password12345")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := identity.HashPassword("password12345")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		err := identity.ComparePasswordAndHash("not-the-password", hash)
		requireTextCode(t, err, identity.TextCodeInvalidCredentials)
	})

	t.Run("malformed hash reads as invalid credentials", func(t *testing.T) {
		err := identity.ComparePasswordAndHash("password12345", "not-a-bcrypt-hash")
		requireTextCode(t, err, identity.TextCodeInvalidCredentials)
	})
}
