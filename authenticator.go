package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-identity/federation"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Auther authenticates credentials and sessions against the user store.
type Auther struct {
	repo      RepositoryManager
	tokens    TokenService
	providers map[string]federation.Provider
	logger    Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		repo:      repo,
		tokens:    tokens,
		providers: map[string]federation.Provider{},
		logger:    defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithProvider registers a federated identity provider under its name.
func (s *Auther) WithProvider(provider federation.Provider) *Auther {
	if provider != nil {
		s.providers[provider.Name()] = provider
	}
	return s
}

// Provider returns a registered federated provider by name.
func (s *Auther) Provider(name string) (federation.Provider, bool) {
	p, ok := s.providers[name]
	return p, ok
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies an email and password pair and issues session tokens.
// A missing user, a federated-only account, and a wrong password all
// surface as the same error.
func (s *Auther) Login(ctx context.Context, email, password string) (*SessionTokens, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login user lookup error: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, *user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountNotConfirmed
	}

	session, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		s.logger.Error("Login token issuance error: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session tokens")
	}

	return session, nil
}

// FederatedLogin redeems an authorization code with the named provider and
// issues session tokens for the matching account, creating it on first
// login. A federated login re-activates a deactivated account; the external
// provider already proved mailbox ownership.
func (s *Auther) FederatedLogin(ctx context.Context, providerName, code string) (*SessionTokens, error) {
	provider, ok := s.Provider(providerName)
	if !ok {
		return nil, ErrFederationFailed
	}

	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("FederatedLogin exchange with %s failed: %v", providerName, err)
		return nil, ErrFederationFailed
	}

	var userID uuid.UUID

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.repo.Users().GetByEmailTx(ctx, tx, profile.Email)
		if err != nil {
			if !repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
			}

			user = &User{
				Email:  profile.Email,
				Active: true,
			}

			if user, err = s.repo.Users().CreateTx(ctx, tx, user); err != nil {
				return TranslateCreateUserError(err)
			}

			p := &Profile{
				ID:          user.ID,
				DisplayName: DisplayNameOrDefault(profile.DisplayName, profile.Email),
			}
			if _, err := s.repo.Profiles().CreateTx(ctx, tx, p); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create profile")
			}

			userID = user.ID
			return nil
		}

		if !user.Active {
			if user, err = s.repo.Users().ActivateTx(ctx, tx, user.ID); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate user")
			}
		}

		userID = user.ID
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "federated login transaction failed")
	}

	session, err := s.tokens.IssueSession(userID)
	if err != nil {
		s.logger.Error("FederatedLogin token issuance error: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session tokens")
	}

	return session, nil
}

// CurrentUser resolves an access token to its account. Every token
// failure, structural, cryptographic, or a refresh token presented as an
// access token, is reported identically.
func (s *Auther) CurrentUser(ctx context.Context, raw string) (*CurrentUser, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if claims.IsRefresh() {
		return nil, ErrUnauthorized
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.Users().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.Error("CurrentUser lookup error: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}

	current := &CurrentUser{
		ID:    user.ID,
		Email: user.Email,
	}

	if profile, err := s.repo.Profiles().GetByID(ctx, user.ID.String()); err == nil {
		current.DisplayName = &profile.DisplayName
	} else if !repository.IsRecordNotFound(err) {
		s.logger.Error("CurrentUser profile lookup error: %v", err)
	}

	return current, nil
}
