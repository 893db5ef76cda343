// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/go-paybank/paybank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	CreateWithAccount(ctx context.Context, arg domain.CreateUserParams, account *domain.CreateAccountParams) (domain.UserWithAccounts, error)
	Get(ctx context.Context, username string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New return user service struct to manage user bussines logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Create registers a user, optionally together with an initial payment account.
func (s *Service) Create(ctx context.Context, username, password string, account *domain.CreateAccountParams) (domain.UserWithAccounts, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithAccounts

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Username:       username,
		HashedPassword: hashedPassword,
	}

	result, err = s.repo.CreateWithAccount(ctx, arg, account)
	if err != nil {
		return domain.UserWithAccounts{}, err
	}

	return result, nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.Get(ctx, username)
	if err != nil {
		return domain.User{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Info().Err(err).Send()
		return domain.User{}, domain.ErrWrongPassword
	}

	user.HashedPassword = ""

	return user, nil
}
