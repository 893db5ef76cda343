// Package accountrepo manages repository layer of payment accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/pkg/dbpkg"
	"github.com/go-paybank/paybank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    payment_accounts (account_number, user_id, type, balance)
VALUES
    ($1, $2, $3, $4)
RETURNING account_number, user_id, type, balance, created_at
`

// Create creates the payment account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.PaymentAccount, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.AccountNumber, arg.UserID, arg.Type, arg.Balance)

	var a domain.PaymentAccount

	err := row.Scan(
		&a.AccountNumber,
		&a.UserID,
		&a.Type,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "payment_accounts_pkey":
				return a, domain.ErrAccountNumberExists
			case "payment_accounts_user_id_fkey":
				return a, domain.ErrUserNotFound
			case "payment_accounts_type_check":
				return a, domain.ErrUnsupportedAccountType
			case "payment_accounts_balance_check":
				return a, domain.ErrNegativeBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	account_number, user_id, type, balance, created_at
FROM payment_accounts
WHERE account_number = $1
`

// Get returns the payment account with the given account number.
func (r *RepoPGS) Get(ctx context.Context, accountNumber string) (domain.PaymentAccount, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, accountNumber)

	var a domain.PaymentAccount

	err := row.Scan(
		&a.AccountNumber,
		&a.UserID,
		&a.Type,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const ownedByQuery = `
SELECT count(*) FROM payment_accounts
WHERE account_number = $1 AND user_id = $2
`

// OwnedBy reports whether the account number exists and belongs to the given user.
func (r *RepoPGS) OwnedBy(ctx context.Context, accountNumber string, userID int64) (bool, error) {
	l := zerolog.Ctx(ctx)

	var count int64

	if err := r.db.QueryRowContext(ctx, ownedByQuery, accountNumber, userID).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return count > 0, nil
}

const existsQuery = `
SELECT count(*) FROM payment_accounts
WHERE account_number = $1
`

// Exists reports whether the account number exists regardless of its owner.
func (r *RepoPGS) Exists(ctx context.Context, accountNumber string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var count int64

	if err := r.db.QueryRowContext(ctx, existsQuery, accountNumber).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return count > 0, nil
}

const addBalanceQuery = `
UPDATE payment_accounts
SET balance = balance + $1
WHERE account_number = $2
RETURNING account_number, user_id, type, balance, created_at
`

// AddBalance changes the account's balance and returns the changed account.
//
// The payment_accounts_balance_check constraint makes a negative outcome
// fail atomically, so two concurrent debits can never both pass a balance
// that would go below zero.
func (r *RepoPGS) AddBalance(ctx context.Context, amount, accountNumber string) (domain.PaymentAccount, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, accountNumber)

	var a domain.PaymentAccount

	err := row.Scan(
		&a.AccountNumber,
		&a.UserID,
		&a.Type,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "payment_accounts_balance_check" {
				return a, &domain.InsufficientBalanceError{
					AccountNumber: accountNumber,
					Amount:        strings.TrimPrefix(amount, "-"),
				}
			}
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listByUserQuery = `
SELECT
	account_number, user_id, type, balance, created_at
FROM payment_accounts
WHERE user_id = $1
ORDER BY created_at, account_number
`

// ListByUser returns all payment accounts owned by the given user.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int64) ([]domain.PaymentAccount, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByUserQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.PaymentAccount{}

	for rows.Next() {
		var a domain.PaymentAccount
		if err := rows.Scan(&a.AccountNumber, &a.UserID, &a.Type, &a.Balance, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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
