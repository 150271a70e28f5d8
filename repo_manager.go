package identity

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Profiles() Profiles
	PendingSignups() PendingSignups
	ConfirmationTokens() ConfirmationTokens
	PasswordResets() PasswordResets
}

type mngr struct {
	db                 *bun.DB
	users              Users
	profiles           Profiles
	pendingSignups     PendingSignups
	confirmationTokens ConfirmationTokens
	passwordResets     PasswordResets
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:                 db,
		users:              NewUsersRepository(db),
		profiles:           NewProfilesRepository(db),
		pendingSignups:     NewPendingSignupsRepository(db),
		confirmationTokens: NewConfirmationTokensRepository(db),
		passwordResets:     NewPasswordResetsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.profiles == nil {
		return errors.New("repository profiles should be initialized")
	}

	if m.pendingSignups == nil {
		return errors.New("repository pendingSignups should be initialized")
	}

	if m.confirmationTokens == nil {
		return errors.New("repository confirmationTokens should be initialized")
	}

	if m.passwordResets == nil {
		return errors.New("repository passwordResets should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Profiles() Profiles {
	return m.profiles
}

func (m mngr) PendingSignups() PendingSignups {
	return m.pendingSignups
}

func (m mngr) ConfirmationTokens() ConfirmationTokens {
	return m.confirmationTokens
}

func (m mngr) PasswordResets() PasswordResets {
	return m.passwordResets
}
