// Package movementrepo executes balance movements as single database transactions.
package movementrepo

import (
	"context"
	"database/sql"

	"github.com/go-paybank/paybank/internal/accountrepo"
	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/internal/historyrepo"
	"github.com/go-paybank/paybank/internal/transactionrepo"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates movement repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns movement RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{conn: db}
}

// Send moves the amount between two accounts.
//
// It checks sender ownership and recipient existence, debits the sender,
// credits the recipient and appends a transaction record plus a history
// entry for the sender, all within a single database transaction. A debit
// that would go negative aborts the transaction, leaving every balance
// unchanged and no records behind.
func (r *RepoPGS) Send(ctx context.Context, arg domain.SendParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var result domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	transactionRepo := transactionrepo.NewRepoPGS(tx)
	historyRepo := historyrepo.NewRepoPGS(tx)

	owned, err := accountRepo.OwnedBy(ctx, arg.FromAccountNumber, arg.UserID)
	if err != nil {
		return result, err
	}

	if !owned {
		return result, domain.ErrAccountNotFound
	}

	exists, err := accountRepo.Exists(ctx, arg.ToAccountNumber)
	if err != nil {
		return result, err
	}

	if !exists {
		return result, domain.ErrRecipientNotFound
	}

	if _, err = accountRepo.AddBalance(ctx, "-"+arg.Amount, arg.FromAccountNumber); err != nil {
		return result, err
	}

	if _, err = accountRepo.AddBalance(ctx, arg.Amount, arg.ToAccountNumber); err != nil {
		return result, err
	}

	result, err = transactionRepo.Create(ctx, arg.Amount, arg.ToAccountNumber)
	if err != nil {
		return result, err
	}

	if _, err = historyRepo.Create(ctx, arg.FromAccountNumber, result.ID); err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return result, nil
}

// Withdraw debits the amount from the account.
//
// A withdrawal is recorded as a self-directed movement: the transaction's
// destination is the withdrawing account itself. Atomicity is identical
// to Send.
func (r *RepoPGS) Withdraw(ctx context.Context, arg domain.WithdrawParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var result domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	transactionRepo := transactionrepo.NewRepoPGS(tx)
	historyRepo := historyrepo.NewRepoPGS(tx)

	owned, err := accountRepo.OwnedBy(ctx, arg.AccountNumber, arg.UserID)
	if err != nil {
		return result, err
	}

	if !owned {
		return result, domain.ErrAccountNotFound
	}

	if _, err = accountRepo.AddBalance(ctx, "-"+arg.Amount, arg.AccountNumber); err != nil {
		return result, err
	}

	result, err = transactionRepo.Create(ctx, arg.Amount, arg.AccountNumber)
	if err != nil {
		return result, err
	}

	if _, err = historyRepo.Create(ctx, arg.AccountNumber, result.ID); err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return result, nil
}
