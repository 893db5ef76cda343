// Package helpers provides seeding functions used in integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/go-paybank/paybank/internal/accountrepo"
	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/internal/historyrepo"
	"github.com/go-paybank/paybank/internal/transactionrepo"
	"github.com/go-paybank/paybank/internal/userrepo"
	"github.com/go-paybank/paybank/pkg/accounttypepkg"
	"github.com/go-paybank/paybank/pkg/dbpkg"
	"github.com/go-paybank/paybank/pkg/passpkg"
	"github.com/go-paybank/paybank/pkg/randompkg"
)

// SeedUser creates a random user.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash(password) returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
	}

	user, err := userrepo.NewTxRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf(`userRepo.Create(context.Background(), %v) returned error: %v`, arg, err)
	}

	return user
}

// SeedAccount creates a random debit account with the given balance for the user.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, userID int64, balance string) domain.PaymentAccount {
	t.Helper()

	arg := domain.CreateAccountParams{
		AccountNumber: randompkg.AccountNumber(),
		UserID:        userID,
		Type:          accounttypepkg.Debit,
		Balance:       balance,
	}

	account, err := accountrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf(`accountRepo.Create(context.Background(), %v) returned error: %v`, arg, err)
	}

	return account
}

// SeedAccountWith5MBalance creates a random debit account holding 5,000,000.
func SeedAccountWith5MBalance(t *testing.T, db dbpkg.SQLInterface, userID int64) domain.PaymentAccount {
	t.Helper()

	return SeedAccount(t, db, userID, "5000000")
}

// SeedTransaction appends a transaction record.
func SeedTransaction(t *testing.T, db dbpkg.SQLInterface, amount, toAddress string) domain.Transaction {
	t.Helper()

	transaction, err := transactionrepo.NewRepoPGS(db).Create(context.Background(), amount, toAddress)
	if err != nil {
		t.Fatalf(`transactionRepo.Create(context.Background(), %v, %v) returned error: %v`,
			amount, toAddress, err)
	}

	return transaction
}

// SeedHistory appends a history entry linking the account to the transaction.
func SeedHistory(t *testing.T, db dbpkg.SQLInterface, accountNumber string, transactionID uuid.UUID) domain.HistoryEntry {
	t.Helper()

	entry, err := historyrepo.NewRepoPGS(db).Create(context.Background(), accountNumber, transactionID)
	if err != nil {
		t.Fatalf(`historyRepo.Create(context.Background(), %v, %v) returned error: %v`,
			accountNumber, transactionID, err)
	}

	return entry
}
