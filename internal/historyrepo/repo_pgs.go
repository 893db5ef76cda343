// Package historyrepo manages repository layer of payment history entries.
package historyrepo

import (
	"context"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/pkg/dbpkg"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates history repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns history RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    payment_histories (account_number, transaction_id)
VALUES
    ($1, $2)
RETURNING id, account_number, transaction_id, created_at
`

// Create appends a history entry linking the account to the transaction.
func (r *RepoPGS) Create(ctx context.Context, accountNumber string, transactionID uuid.UUID) (domain.HistoryEntry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, accountNumber, transactionID)

	var h domain.HistoryEntry

	err := row.Scan(
		&h.ID,
		&h.AccountNumber,
		&h.TransactionID,
		&h.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "payment_histories_account_number_fkey":
				return h, domain.ErrAccountNotFound
			case "payment_histories_transaction_id_fkey":
				return h, domain.ErrTransactionNotFound
			}
		}

		return h, errorspkg.ErrInternal
	}

	return h, nil
}

const listByAccountQuery = `
SELECT
	h.id, h.account_number, h.transaction_id, h.created_at,
	t.id, t.amount, t.to_address, t.status, t.created_at
FROM payment_histories h
JOIN transactions t ON t.id = h.transaction_id
WHERE h.account_number = $1
ORDER BY h.id
`

// ListByAccount returns every history entry for the given account number
// together with the linked transaction.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountNumber string) ([]domain.HistoryEntry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, accountNumber)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.HistoryEntry{}

	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(
			&h.ID,
			&h.AccountNumber,
			&h.TransactionID,
			&h.CreatedAt,
			&h.Transaction.ID,
			&h.Transaction.Amount,
			&h.Transaction.ToAddress,
			&h.Transaction.Status,
			&h.Transaction.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, h)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
