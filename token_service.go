package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService signs and validates session tokens.
type TokenService interface {
	IssueSession(userID uuid.UUID) (*SessionTokens, error)
	Validate(raw string) (*SessionClaims, error)
}

// TokenServiceImpl implements TokenService over HS256 with a process-wide
// signing key.
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenService creates a TokenService from the process configuration.
func NewTokenService(cfg Config, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		accessTTL:  time.Duration(cfg.GetAccessTokenTTL()) * time.Minute,
		refreshTTL: time.Duration(cfg.GetRefreshTokenTTL()) * time.Hour,
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     logger,
	}
}

// IssueSession signs an access/refresh token pair for the given user.
func (ts *TokenServiceImpl) IssueSession(userID uuid.UUID) (*SessionTokens, error) {
	now := time.Now()

	access, err := ts.sign(userID, TokenUseAccess, now, ts.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.sign(userID, TokenUseRefresh, now, ts.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &SessionTokens{
		AccessToken:  access,
		ExpiresIn:    int(ts.accessTTL.Seconds()),
		RefreshToken: refresh,
	}, nil
}

func (ts *TokenServiceImpl) sign(userID uuid.UUID, use string, now time.Time, ttl time.Duration) (string, error) {
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID.String(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:      userID.String(),
		TokenUse: use,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Validate parses and verifies a token string. Expiry is reported as
// ErrTokenExpired; every other structural or signature failure wraps into a
// single malformed-token error. Callers exposed to untrusted input must
// collapse both into one response.
func (ts *TokenServiceImpl) Validate(raw string) (*SessionClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "token is malformed").
			WithTextCode(TextCodeUnauthorized)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, goerrors.New("unable to decode session claims", goerrors.CategoryAuth).
			WithTextCode(TextCodeUnauthorized)
	}

	return claims, nil
}
