package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type SignupMessage struct {
	Email       string `json:"email" example:"pepe.rone@example.com" doc:"Account email."`
	Password    string `json:"password" doc:"Plaintext password, hashed before storage."`
	DisplayName string `json:"display_name" example:"Pepe Rone" doc:"Optional display name."`
	OnResponse  func(resp *SignupResponse)
}

func (s SignupMessage) Type() string { return "identity.signup" }

// SignupResponse acknowledges the request. The confirmation token travels
// only through the notifier, never in the response.
type SignupResponse struct {
	Email   string
	Success bool
}

type SignupHandler struct {
	repo     RepositoryManager
	notifier Notifier
	cfg      Config
	logger   Logger
}

func NewSignupHandler(repo RepositoryManager, notifier Notifier, cfg Config) *SignupHandler {
	return &SignupHandler{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		logger:   defLogger{},
	}
}

func (h *SignupHandler) WithLogger(logger Logger) *SignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	token, err := NewOpaqueToken()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate confirmation token")
	}

	expiresAt := time.Now().Add(time.Duration(h.cfg.GetConfirmationTokenTTL()) * time.Minute)

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		pending := &PendingSignup{
			Email:        event.Email,
			PasswordHash: hash,
			DisplayName:  event.DisplayName,
			ExpiresAt:    expiresAt,
		}

		if pending, err = h.repo.PendingSignups().CreateTx(ctx, tx, pending); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create pending signup")
		}

		confirmation := &ConfirmationToken{
			TokenHash:       HashOpaqueToken(token),
			PendingSignupID: &pending.ID,
			ExpiresAt:       expiresAt,
		}

		if _, err = h.repo.ConfirmationTokens().CreateTx(ctx, tx, confirmation); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create confirmation token")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	go func() {
		if err := h.notifier.SendConfirmation(context.Background(), event.Email, token); err != nil {
			h.logger.Error("failed to send confirmation email to %s: %v", event.Email, err)
		}
	}()

	if event.OnResponse != nil {
		event.OnResponse(&SignupResponse{
			Email:   event.Email,
			Success: true,
		})
	}

	return nil
}
