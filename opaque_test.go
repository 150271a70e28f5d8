package identity_test

import (
	"testing"

	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpaqueToken(t *testing.T) {
	a, err := identity.NewOpaqueToken()
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := identity.NewOpaqueToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashOpaqueToken(t *testing.T) {
	token, err := identity.NewOpaqueToken()
	require.NoError(t, err)

	hash := identity.HashOpaqueToken(token)
	require.Len(t, hash, 64)
	assert.NotEqual(t, token, hash)

	// deterministic, so a stored digest can be matched on redemption
	assert.Equal(t, hash, identity.HashOpaqueToken(token))
	assert.NotEqual(t, hash, identity.HashOpaqueToken(token+"x"))
}
