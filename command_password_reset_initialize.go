package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email."`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "identity.password_reset" }

// InitializePasswordResetResponse acknowledges the request. It reads the
// same whether or not the email belongs to an account, so the endpoint
// cannot be used to enumerate users.
type InitializePasswordResetResponse struct {
	OK bool `json:"ok"`
}

type InitializePasswordResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	cfg      Config
	logger   Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, notifier Notifier, cfg Config) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		logger:   defLogger{},
	}
}

func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	var token string

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
		}

		if token, err = NewOpaqueToken(); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate reset token")
		}

		reset := &PasswordResetToken{
			TokenHash: HashOpaqueToken(token),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(time.Duration(h.cfg.GetResetTokenTTL()) * time.Minute),
		}

		if _, err := h.repo.PasswordResets().CreateTx(ctx, tx, reset); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset record")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize password reset")
	}

	if token != "" {
		email := event.Email
		plaintext := token
		go func() {
			if err := h.notifier.SendPasswordReset(context.Background(), email, plaintext); err != nil {
				h.logger.Error("failed to send password reset email to %s: %v", email, err)
			}
		}()
	}

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{OK: true})
	}

	return nil
}
