// Package transactionservice manages business logic layer of balance movements.
package transactionservice

import (
	"context"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Minimum amount policy thresholds. The account number length check is a
// structural proxy for "looks like a real account number", not an
// existence check.
var (
	minSendAmount     = decimal.NewFromInt(100_000)
	minWithdrawAmount = decimal.NewFromInt(50_000)
)

const minAccountNumberLen = 8

// Repo provides the movement unit-of-work interface needed by the service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Send(ctx context.Context, arg domain.SendParams) (domain.Transaction, error)
	Withdraw(ctx context.Context, arg domain.WithdrawParams) (domain.Transaction, error)
}

// HistoryRepo provides the history read interface needed by the service layer.
type HistoryRepo interface {
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.HistoryEntry, error)
}

// AccountRepo provides the account read interface needed by the service layer.
type AccountRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.PaymentAccount, error)
}

// UserRepo provides the user read interface needed by the service layer.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

// Service facilitates movement service layer logic.
type Service struct {
	repo        Repo
	historyRepo HistoryRepo
	accountRepo AccountRepo
	userRepo    UserRepo
}

// New returns movement service struct to manage movement bussines logic.
func New(mr Repo, hr HistoryRepo, ar AccountRepo, ur UserRepo) *Service {
	return &Service{
		repo:        mr,
		historyRepo: hr,
		accountRepo: ar,
		userRepo:    ur,
	}
}

func validAmount(amount string, min decimal.Decimal, minMsg string, violations []domain.FieldViolation) []domain.FieldViolation {
	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		return append(violations, domain.FieldViolation{Field: "amount", Message: "invalid amount"})
	}

	if amountDecimal.LessThan(min) {
		return append(violations, domain.FieldViolation{Field: "amount", Message: minMsg})
	}

	return violations
}

func validSendRequest(arg domain.SendParams) error {
	var violations []domain.FieldViolation

	if len(arg.FromAccountNumber) < minAccountNumberLen {
		violations = append(violations, domain.FieldViolation{Field: "from", Message: "invalid account number"})
	}

	if len(arg.ToAccountNumber) < minAccountNumberLen {
		violations = append(violations, domain.FieldViolation{Field: "to", Message: "invalid account number"})
	}

	violations = validAmount(arg.Amount, minSendAmount, "amount must be greater than 100,000 for sending", violations)

	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}

	return nil
}

func validWithdrawRequest(arg domain.WithdrawParams) error {
	var violations []domain.FieldViolation

	if len(arg.AccountNumber) < minAccountNumberLen {
		violations = append(violations, domain.FieldViolation{Field: "from", Message: "invalid account number"})
	}

	violations = validAmount(arg.Amount, minWithdrawAmount, "amount must be greater than 50,000 for withdraw", violations)

	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}

	return nil
}

// Send validates the transfer request and executes it as one atomic unit.
func (s *Service) Send(ctx context.Context, arg domain.SendParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := validSendRequest(arg); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	return s.repo.Send(ctx, arg)
}

// Withdraw validates the withdrawal request and executes it as one atomic unit.
func (s *Service) Withdraw(ctx context.Context, arg domain.WithdrawParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := validWithdrawRequest(arg); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	return s.repo.Withdraw(ctx, arg)
}

// PaymentHistory returns every history entry of every account owned by the
// given user, concatenated in account-enumeration order.
func (s *Service) PaymentHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := []domain.HistoryEntry{}

	for _, account := range accounts {
		entries, err := s.historyRepo.ListByAccount(ctx, account.AccountNumber)
		if err != nil {
			return nil, err
		}

		history = append(history, entries...)
	}

	return history, nil
}
