// Package accountservice manages business logic layer of payment accounts.
package accountservice

import (
	"context"

	"github.com/go-paybank/paybank/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.PaymentAccount, error)
	Get(ctx context.Context, accountNumber string) (domain.PaymentAccount, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.PaymentAccount, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates and returns a payment account for the given user.
func (s *Service) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.PaymentAccount, error) {
	if arg.Balance == "" {
		arg.Balance = "0"
	}

	account, err := s.repo.Create(ctx, arg)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns the payment account owned by the given user.
//
// A foreign account is reported exactly like a missing one.
func (s *Service) Get(ctx context.Context, accountNumber string, userID int64) (domain.PaymentAccount, error) {
	account, err := s.repo.Get(ctx, accountNumber)
	if err != nil {
		return account, err
	}

	if account.UserID != userID {
		return domain.PaymentAccount{}, domain.ErrAccountNotFound
	}

	return account, nil
}

// ListByUser returns payment accounts that are owned by the given user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.PaymentAccount, error) {
	accounts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
