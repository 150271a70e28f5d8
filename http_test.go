package identity_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"email taken", identity.ErrEmailTaken, router.StatusBadRequest},
		{"invalid credentials", identity.ErrInvalidCredentials, router.StatusUnauthorized},
		{"account not confirmed", identity.ErrAccountNotConfirmed, router.StatusForbidden},
		{"invalid token", identity.ErrInvalidToken, router.StatusBadRequest},
		{"token expired", identity.ErrTokenExpired, router.StatusBadRequest},
		{"federation failed", identity.ErrFederationFailed, router.StatusBadRequest},
		{"unauthorized", identity.ErrUnauthorized, router.StatusUnauthorized},
		{"not found", identity.ErrNotFound, router.StatusNotFound},
		{"validation category", goerrors.New("bad payload", goerrors.CategoryValidation), router.StatusBadRequest},
		{"auth category", goerrors.New("nope", goerrors.CategoryAuth), router.StatusUnauthorized},
		{"conflict category", goerrors.New("dupe", goerrors.CategoryConflict), router.StatusConflict},
		{"internal category", goerrors.New("boom", goerrors.CategoryInternal), router.StatusInternalServerError},
		{"plain error", errors.New("boom"), router.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, identity.HTTPStatusFromError(tc.err))
		})
	}
}
