package identity

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// HTTPStatusFromError maps a domain error to the status code its endpoint
// returns. Unknown errors are a 500.
func HTTPStatusFromError(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return router.StatusInternalServerError
	}

	switch richErr.TextCode {
	case TextCodeEmailTaken:
		return router.StatusBadRequest
	case TextCodeInvalidCredentials:
		return router.StatusUnauthorized
	case TextCodeAccountNotConfirmed:
		return router.StatusForbidden
	case TextCodeInvalidToken, TextCodeTokenExpired, TextCodeFederationFailed:
		return router.StatusBadRequest
	case TextCodeUnauthorized:
		return router.StatusUnauthorized
	case TextCodeNotFound:
		return router.StatusNotFound
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return router.StatusBadRequest
	case goerrors.CategoryAuth:
		return router.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return router.StatusNotFound
	case goerrors.CategoryConflict:
		return router.StatusConflict
	}

	return router.StatusInternalServerError
}

// WriteError renders err as the JSON error body for its mapped status.
func WriteError(ctx router.Context, err error) error {
	status := HTTPStatusFromError(err)

	body := map[string]string{"error": err.Error()}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		body["error"] = richErr.Message
		if richErr.TextCode != "" {
			body["code"] = richErr.TextCode
		}
	}

	if status == router.StatusInternalServerError {
		body["error"] = "internal server error"
	}

	return ctx.JSON(status, body)
}
