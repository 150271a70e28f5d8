package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	goerrors "github.com/goliatone/go-errors"
)

// opaqueTokenBytes is the entropy of a one-time token.
const opaqueTokenBytes = 32

// NewOpaqueToken returns a cryptographically random token for out-of-band
// delivery. The value is never persisted; store HashOpaqueToken of it.
func NewOpaqueToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate token")
	}
	return hex.EncodeToString(b), nil
}

// HashOpaqueToken returns the SHA-256 digest used to index a token in
// storage. Only the digest is persisted.
func HashOpaqueToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
