package identity

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Consuming a pending signup is a compare-and-set: the used guard in the
// WHERE clause makes the second of two concurrent confirms read zero rows.
var consumePendingSignupSQL = `UPDATE "pending_signups" AS "psu"
SET
	"used" = TRUE
WHERE
	"psu"."id" = ?
AND
	"psu"."used" = FALSE
RETURNING *;`

// PendingSignups stores unconfirmed registrations.
type PendingSignups interface {
	repository.Repository[*PendingSignup]

	Create(ctx context.Context, record *PendingSignup, criteria ...repository.InsertCriteria) (*PendingSignup, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *PendingSignup, criteria ...repository.InsertCriteria) (*PendingSignup, error)

	LookupTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*PendingSignup, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*PendingSignup, error)
}

type pendingSignups struct {
	repository.Repository[*PendingSignup]
	db *bun.DB
}

var _ PendingSignups = (*pendingSignups)(nil)

func NewPendingSignupsRepository(db *bun.DB) PendingSignups {
	repo := repository.NewRepository[*PendingSignup](db, repository.ModelHandlers[*PendingSignup]{
		NewRecord: func() *PendingSignup { return &PendingSignup{} },
		GetID: func(p *PendingSignup) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *PendingSignup, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &pendingSignups{
		Repository: repo,
		db:         db,
	}
}

func (r *pendingSignups) Create(ctx context.Context, record *PendingSignup, criteria ...repository.InsertCriteria) (*PendingSignup, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *pendingSignups) CreateTx(ctx context.Context, tx bun.IDB, record *PendingSignup, criteria ...repository.InsertCriteria) (*PendingSignup, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *pendingSignups) LookupTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*PendingSignup, error) {
	record := &PendingSignup{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (r *pendingSignups) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*PendingSignup, error) {
	res, err := r.Repository.RawTx(ctx, tx, consumePendingSignupSQL, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return res[0], nil
}
