package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ConfirmSignupMessage struct {
	Token      string `json:"token" doc:"Opaque confirmation token from the email link."`
	UseHashid  bool
	OnResponse func(resp *SessionTokens)
}

func (c ConfirmSignupMessage) Type() string { return "identity.confirm_signup" }

// ConfirmSignupHandler redeems a confirmation token. A token referencing a
// pending signup materializes the account; a token referencing an existing
// user re-activates it. Either way the consume is a compare-and-set, so a
// replayed token fails as invalid.
type ConfirmSignupHandler struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewConfirmSignupHandler(repo RepositoryManager, tokens TokenService) *ConfirmSignupHandler {
	return &ConfirmSignupHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *ConfirmSignupHandler) WithLogger(logger Logger) *ConfirmSignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ConfirmSignupHandler) Execute(ctx context.Context, event ConfirmSignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup confirmation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmSignupHandler) execute(ctx context.Context, event ConfirmSignupMessage) error {
	var userID uuid.UUID

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	now := time.Now()
	hash := HashOpaqueToken(event.Token)

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		token, err := h.repo.ConfirmationTokens().GetByTokenHashTx(ctx, tx, hash)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up confirmation token")
		}

		if !token.Consumable(now) {
			return ErrInvalidToken
		}

		ref, err := token.Ref()
		if err != nil {
			return err
		}

		switch ref.Kind {
		case TokenRefPendingSignup:
			if userID, err = h.materialize(ctx, tx, ref.ID, event.UseHashid, now); err != nil {
				return err
			}
		case TokenRefUser:
			user, err := h.repo.Users().ActivateTx(ctx, tx, ref.ID)
			if err != nil {
				if repository.IsRecordNotFound(err) {
					return ErrInvalidToken
				}
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate user")
			}
			userID = user.ID
		}

		if _, err := h.repo.ConfirmationTokens().ConsumeTx(ctx, tx, token.ID); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume confirmation token")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup confirmation transaction failed")
	}

	session, err := h.tokens.IssueSession(userID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session tokens")
	}

	if event.OnResponse != nil {
		event.OnResponse(session)
	}

	return nil
}

// materialize turns a pending signup into a User and Profile. The pending
// row is consumed first so two concurrent confirms against the same signup
// cannot both create accounts.
func (h *ConfirmSignupHandler) materialize(ctx context.Context, tx bun.Tx, pendingID uuid.UUID, useHashid bool, now time.Time) (uuid.UUID, error) {
	pending, err := h.repo.PendingSignups().LookupTx(ctx, tx, pendingID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up pending signup")
	}

	if !pending.Consumable(now) {
		return uuid.Nil, ErrInvalidToken
	}

	if _, err := h.repo.PendingSignups().ConsumeTx(ctx, tx, pending.ID); err != nil {
		if repository.IsRecordNotFound(err) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume pending signup")
	}

	user := &User{
		Email:        pending.Email,
		PasswordHash: &pending.PasswordHash,
		Active:       true,
	}
	if useHashid {
		if id, err := hashid.NewUUID(pending.Email); err == nil {
			user.ID = id
		}
	}

	if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
		return uuid.Nil, TranslateCreateUserError(err)
	}

	profile := &Profile{
		ID:          user.ID,
		DisplayName: DisplayNameOrDefault(pending.DisplayName, pending.Email),
	}

	if _, err := h.repo.Profiles().CreateTx(ctx, tx, profile); err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create profile")
	}

	return user.ID, nil
}
