//go:build integration

package movementrepo_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-paybank/paybank/internal/accountrepo"
	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/internal/historyrepo"
	"github.com/go-paybank/paybank/internal/integrationtest"
	"github.com/go-paybank/paybank/internal/integrationtest/helpers"
	"github.com/go-paybank/paybank/internal/middleware"
	"github.com/go-paybank/paybank/internal/movementrepo"
	"github.com/go-paybank/paybank/pkg/configpkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestSend(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	sender := helpers.SeedUser(t, db)
	senderAccount := helpers.SeedAccountWith5MBalance(t, db, sender.ID)
	recipient := helpers.SeedUser(t, db)
	recipientAccount := helpers.SeedAccountWith5MBalance(t, db, recipient.ID)

	movementRepo := movementrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	historyRepo := historyrepo.NewRepoPGS(db)

	amount := "1000000"

	arg := domain.SendParams{
		UserID:            sender.ID,
		FromAccountNumber: senderAccount.AccountNumber,
		ToAccountNumber:   recipientAccount.AccountNumber,
		Amount:            amount,
	}

	got, err := movementRepo.Send(ctx, arg)
	if err != nil {
		t.Fatalf("movementRepo.Send(ctx, %+v) returned error: %v", arg, err)
	}

	want := domain.Transaction{
		Amount:    amount,
		ToAddress: recipientAccount.AccountNumber,
		Status:    domain.StatusSuccess,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID")
	compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(want, got, ignoreFields, compareCreatedAt); diff != "" {
		t.Errorf("movementRepo.Send(ctx, %+v) returned unexpected difference (-want +got):\n%s",
			arg, diff)
	}

	if got.ID == uuid.Nil {
		t.Error("got.ID = uuid.Nil, want non-nil")
	}

	// Both balances must reflect the movement.
	updatedSender, err := accountRepo.Get(ctx, senderAccount.AccountNumber)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", senderAccount.AccountNumber, err)
	}

	if updatedSender.Balance != "4000000" {
		t.Errorf("updatedSender.Balance = %v, want 4000000", updatedSender.Balance)
	}

	updatedRecipient, err := accountRepo.Get(ctx, recipientAccount.AccountNumber)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", recipientAccount.AccountNumber, err)
	}

	if updatedRecipient.Balance != "6000000" {
		t.Errorf("updatedRecipient.Balance = %v, want 6000000", updatedRecipient.Balance)
	}

	// Only the paying side gets a history entry.
	senderHistory, err := historyRepo.ListByAccount(ctx, senderAccount.AccountNumber)
	if err != nil {
		t.Fatalf("historyRepo.ListByAccount(ctx, %v) returned error: %v", senderAccount.AccountNumber, err)
	}

	if len(senderHistory) != 1 {
		t.Fatalf("len(senderHistory) = %v, want 1", len(senderHistory))
	}

	if senderHistory[0].TransactionID != got.ID {
		t.Errorf("senderHistory[0].TransactionID = %v, want %v", senderHistory[0].TransactionID, got.ID)
	}

	recipientHistory, err := historyRepo.ListByAccount(ctx, recipientAccount.AccountNumber)
	if err != nil {
		t.Fatalf("historyRepo.ListByAccount(ctx, %v) returned error: %v", recipientAccount.AccountNumber, err)
	}

	if len(recipientHistory) != 0 {
		t.Errorf("len(recipientHistory) = %v, want 0", len(recipientHistory))
	}
}

func TestSendErrors(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	sender := helpers.SeedUser(t, db)
	senderAccount := helpers.SeedAccountWith5MBalance(t, db, sender.ID)
	recipient := helpers.SeedUser(t, db)
	recipientAccount := helpers.SeedAccountWith5MBalance(t, db, recipient.ID)

	movementRepo := movementrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	historyRepo := historyrepo.NewRepoPGS(db)

	testCases := []struct {
		name    string
		arg     domain.SendParams
		wantErr string
	}{
		{
			name: "SenderAccountNotOwned",
			arg: domain.SendParams{
				UserID:            recipient.ID,
				FromAccountNumber: senderAccount.AccountNumber,
				ToAccountNumber:   recipientAccount.AccountNumber,
				Amount:            "1000000",
			},
			wantErr: domain.ErrAccountNotFound.Error(),
		},
		{
			name: "SenderAccountMissing",
			arg: domain.SendParams{
				UserID:            sender.ID,
				FromAccountNumber: "0000-0000-0000-0000",
				ToAccountNumber:   recipientAccount.AccountNumber,
				Amount:            "1000000",
			},
			wantErr: domain.ErrAccountNotFound.Error(),
		},
		{
			name: "RecipientMissing",
			arg: domain.SendParams{
				UserID:            sender.ID,
				FromAccountNumber: senderAccount.AccountNumber,
				ToAccountNumber:   "0000-0000-0000-0000",
				Amount:            "1000000",
			},
			wantErr: domain.ErrRecipientNotFound.Error(),
		},
		{
			name: "InsufficientBalance",
			arg: domain.SendParams{
				UserID:            sender.ID,
				FromAccountNumber: senderAccount.AccountNumber,
				ToAccountNumber:   recipientAccount.AccountNumber,
				Amount:            "5000001",
			},
			wantErr: senderAccount.AccountNumber + " doesn't have enough to send 5000001",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := movementRepo.Send(ctx, tc.arg)
			if err == nil {
				t.Fatalf("movementRepo.Send(ctx, %+v) returned nil error, want %q", tc.arg, tc.wantErr)
			}

			if err.Error() != tc.wantErr {
				t.Errorf("movementRepo.Send(ctx, %+v) returned error %q, want %q", tc.arg, err, tc.wantErr)
			}

			if got != (domain.Transaction{}) {
				t.Errorf("got = %+v, want zero value", got)
			}
		})
	}

	// A failed movement leaves no effects behind.
	for _, accountNumber := range []string{senderAccount.AccountNumber, recipientAccount.AccountNumber} {
		account, err := accountRepo.Get(ctx, accountNumber)
		if err != nil {
			t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", accountNumber, err)
		}

		if account.Balance != "5000000" {
			t.Errorf("account.Balance = %v, want 5000000", account.Balance)
		}

		history, err := historyRepo.ListByAccount(ctx, accountNumber)
		if err != nil {
			t.Fatalf("historyRepo.ListByAccount(ctx, %v) returned error: %v", accountNumber, err)
		}

		if len(history) != 0 {
			t.Errorf("len(history) = %v, want 0", len(history))
		}
	}
}

func TestWithdraw(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, db)
	account := helpers.SeedAccountWith5MBalance(t, db, user.ID)

	movementRepo := movementrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	historyRepo := historyrepo.NewRepoPGS(db)

	amount := "500000"

	arg := domain.WithdrawParams{
		UserID:        user.ID,
		AccountNumber: account.AccountNumber,
		Amount:        amount,
	}

	got, err := movementRepo.Withdraw(ctx, arg)
	if err != nil {
		t.Fatalf("movementRepo.Withdraw(ctx, %+v) returned error: %v", arg, err)
	}

	// A withdrawal is recorded as a self-directed movement.
	if got.ToAddress != account.AccountNumber {
		t.Errorf("got.ToAddress = %v, want %v", got.ToAddress, account.AccountNumber)
	}

	if got.Status != domain.StatusSuccess {
		t.Errorf("got.Status = %v, want %v", got.Status, domain.StatusSuccess)
	}

	updatedAccount, err := accountRepo.Get(ctx, account.AccountNumber)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", account.AccountNumber, err)
	}

	if updatedAccount.Balance != "4500000" {
		t.Errorf("updatedAccount.Balance = %v, want 4500000", updatedAccount.Balance)
	}

	history, err := historyRepo.ListByAccount(ctx, account.AccountNumber)
	if err != nil {
		t.Fatalf("historyRepo.ListByAccount(ctx, %v) returned error: %v", account.AccountNumber, err)
	}

	if len(history) != 1 {
		t.Fatalf("len(history) = %v, want 1", len(history))
	}

	if history[0].Transaction.ToAddress != account.AccountNumber {
		t.Errorf("history[0].Transaction.ToAddress = %v, want %v",
			history[0].Transaction.ToAddress, account.AccountNumber)
	}
}

func TestWithdrawConcurrent(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, db)
	account := helpers.SeedAccountWith5MBalance(t, db, user.ID)

	movementRepo := movementrepo.NewRepoPGS(db)

	// Two concurrent withdrawals whose sum exceeds the balance. Exactly one
	// must succeed.
	n := 2
	amount := "3000000"

	errs := make(chan error)

	arg := domain.WithdrawParams{
		UserID:        user.ID,
		AccountNumber: account.AccountNumber,
		Amount:        amount,
	}

	for i := 0; i < n; i++ {
		go func() {
			_, err := movementRepo.Withdraw(ctx, arg)
			errs <- err
		}()
	}

	var succeeded, rejected int

	for i := 0; i < n; i++ {
		err := <-errs
		if err == nil {
			succeeded++
			continue
		}

		var ibe *domain.InsufficientBalanceError
		if !errors.As(err, &ibe) {
			t.Fatalf("movementRepo.Withdraw(ctx, %+v) returned error: %v", arg, err)
		}

		rejected++
	}

	if succeeded != 1 || rejected != 1 {
		t.Fatalf("succeeded = %v, rejected = %v, want exactly one of each", succeeded, rejected)
	}

	accountRepo := accountrepo.NewRepoPGS(db)

	updatedAccount, err := accountRepo.Get(ctx, account.AccountNumber)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", account.AccountNumber, err)
	}

	wantBalance := decimal.NewFromInt(2_000_000)

	gotBalance, err := decimal.NewFromString(updatedAccount.Balance)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%v) returned error: %v", updatedAccount.Balance, err)
	}

	if !gotBalance.Equal(wantBalance) {
		t.Errorf("gotBalance = %v, want %v", gotBalance, wantBalance)
	}
}
