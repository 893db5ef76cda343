// Package transactionrepo manages repository layer of transaction records.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/pkg/dbpkg"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    transactions (amount, to_address, status)
VALUES
    ($1, $2, $3)
RETURNING id, amount, to_address, status, created_at
`

// Create appends an immutable transaction record with SUCCESS status.
func (r *RepoPGS) Create(ctx context.Context, amount, toAddress string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, amount, toAddress, domain.StatusSuccess)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Amount,
		&t.ToAddress,
		&t.Status,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_amount_check" {
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT id, amount, to_address, status, created_at FROM transactions
WHERE id = $1 LIMIT 1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Amount,
		&t.ToAddress,
		&t.Status,
		&t.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}
