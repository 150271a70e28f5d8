package identity

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var consumeConfirmationTokenSQL = `UPDATE "confirmation_tokens" AS "cft"
SET
	"used" = TRUE
WHERE
	"cft"."id" = ?
AND
	"cft"."used" = FALSE
RETURNING *;`

var consumePasswordResetTokenSQL = `UPDATE "password_reset_tokens" AS "prt"
SET
	"used" = TRUE
WHERE
	"prt"."id" = ?
AND
	"prt"."used" = FALSE
RETURNING *;`

// ConfirmationTokens stores one time email confirmation tokens, keyed by
// the digest of the opaque value handed to the user.
type ConfirmationTokens interface {
	repository.Repository[*ConfirmationToken]

	Create(ctx context.Context, record *ConfirmationToken, criteria ...repository.InsertCriteria) (*ConfirmationToken, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *ConfirmationToken, criteria ...repository.InsertCriteria) (*ConfirmationToken, error)

	GetByTokenHash(ctx context.Context, hash string) (*ConfirmationToken, error)
	GetByTokenHashTx(ctx context.Context, tx bun.IDB, hash string) (*ConfirmationToken, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*ConfirmationToken, error)
}

type confirmationTokens struct {
	repository.Repository[*ConfirmationToken]
	db *bun.DB
}

var _ ConfirmationTokens = (*confirmationTokens)(nil)

func NewConfirmationTokensRepository(db *bun.DB) ConfirmationTokens {
	repo := repository.NewRepository[*ConfirmationToken](db, repository.ModelHandlers[*ConfirmationToken]{
		NewRecord: func() *ConfirmationToken { return &ConfirmationToken{} },
		GetID: func(t *ConfirmationToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *ConfirmationToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token_hash"
		},
	})

	return &confirmationTokens{
		Repository: repo,
		db:         db,
	}
}

func (r *confirmationTokens) Create(ctx context.Context, record *ConfirmationToken, criteria ...repository.InsertCriteria) (*ConfirmationToken, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *confirmationTokens) CreateTx(ctx context.Context, tx bun.IDB, record *ConfirmationToken, criteria ...repository.InsertCriteria) (*ConfirmationToken, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *confirmationTokens) GetByTokenHash(ctx context.Context, hash string) (*ConfirmationToken, error) {
	return r.GetByTokenHashTx(ctx, r.db, hash)
}

func (r *confirmationTokens) GetByTokenHashTx(ctx context.Context, tx bun.IDB, hash string) (*ConfirmationToken, error) {
	record := &ConfirmationToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token_hash = ?", hash).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"token_hash": hash})
		}
		return nil, err
	}

	return record, nil
}

func (r *confirmationTokens) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*ConfirmationToken, error) {
	res, err := r.Repository.RawTx(ctx, tx, consumeConfirmationTokenSQL, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return res[0], nil
}

// PasswordResets stores one time password reset tokens.
type PasswordResets interface {
	repository.Repository[*PasswordResetToken]

	Create(ctx context.Context, record *PasswordResetToken, criteria ...repository.InsertCriteria) (*PasswordResetToken, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *PasswordResetToken, criteria ...repository.InsertCriteria) (*PasswordResetToken, error)

	GetByTokenHash(ctx context.Context, hash string) (*PasswordResetToken, error)
	GetByTokenHashTx(ctx context.Context, tx bun.IDB, hash string) (*PasswordResetToken, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*PasswordResetToken, error)
}

type passwordResets struct {
	repository.Repository[*PasswordResetToken]
	db *bun.DB
}

var _ PasswordResets = (*passwordResets)(nil)

func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	repo := repository.NewRepository[*PasswordResetToken](db, repository.ModelHandlers[*PasswordResetToken]{
		NewRecord: func() *PasswordResetToken { return &PasswordResetToken{} },
		GetID: func(t *PasswordResetToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *PasswordResetToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token_hash"
		},
	})

	return &passwordResets{
		Repository: repo,
		db:         db,
	}
}

func (r *passwordResets) Create(ctx context.Context, record *PasswordResetToken, criteria ...repository.InsertCriteria) (*PasswordResetToken, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *passwordResets) CreateTx(ctx context.Context, tx bun.IDB, record *PasswordResetToken, criteria ...repository.InsertCriteria) (*PasswordResetToken, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *passwordResets) GetByTokenHash(ctx context.Context, hash string) (*PasswordResetToken, error) {
	return r.GetByTokenHashTx(ctx, r.db, hash)
}

func (r *passwordResets) GetByTokenHashTx(ctx context.Context, tx bun.IDB, hash string) (*PasswordResetToken, error) {
	record := &PasswordResetToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token_hash = ?", hash).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"token_hash": hash})
		}
		return nil, err
	}

	return record, nil
}

func (r *passwordResets) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*PasswordResetToken, error) {
	res, err := r.Repository.RawTx(ctx, tx, consumePasswordResetTokenSQL, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return res[0], nil
}
