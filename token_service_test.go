package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	identity "github.com/goliatone/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() identity.SimpleConfig {
	return identity.SimpleConfig{
		SigningKey: "test-signing-key",
		Issuer:     "identity-test",
		Audience:   []string{"identity-test"},
	}
}

func TestIssueSession(t *testing.T) {
	ts := identity.NewTokenService(testConfig(), nil)
	userID := uuid.New()

	session, err := ts.IssueSession(userID)
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)
	assert.Equal(t, 30*60, session.ExpiresIn)

	claims, err := ts.Validate(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID())
	assert.False(t, claims.IsRefresh())
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.Expires(), time.Minute)

	refresh, err := ts.Validate(session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), refresh.UserID())
	assert.True(t, refresh.IsRefresh())
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	ts := identity.NewTokenService(testConfig(), nil)

	claims := &identity.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "identity-test",
			Subject:   uuid.NewString(),
			Audience:  jwt.ClaimStrings{"identity-test"},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		TokenUse: identity.TokenUseAccess,
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = ts.Validate(raw)
	requireTextCode(t, err, identity.TextCodeTokenExpired)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	ts := identity.NewTokenService(testConfig(), nil)

	other := identity.NewTokenService(identity.SimpleConfig{
		SigningKey: "a-different-key",
		Issuer:     "identity-test",
		Audience:   []string{"identity-test"},
	}, nil)

	session, err := other.IssueSession(uuid.New())
	require.NoError(t, err)

	_, err = ts.Validate(session.AccessToken)
	requireTextCode(t, err, identity.TextCodeUnauthorized)
}

func TestValidateRejectsGarbage(t *testing.T) {
	ts := identity.NewTokenService(testConfig(), nil)

	for _, raw := range []string{"", "not-a-token", "aaaa.bbbb.cccc"} {
		_, err := ts.Validate(raw)
		requireTextCode(t, err, identity.TextCodeUnauthorized)
	}
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	ts := identity.NewTokenService(testConfig(), nil)

	other := identity.NewTokenService(identity.SimpleConfig{
		SigningKey: "test-signing-key",
		Issuer:     "someone-else",
		Audience:   []string{"identity-test"},
	}, nil)

	session, err := other.IssueSession(uuid.New())
	require.NoError(t, err)

	_, err = ts.Validate(session.AccessToken)
	requireTextCode(t, err, identity.TextCodeUnauthorized)
}
