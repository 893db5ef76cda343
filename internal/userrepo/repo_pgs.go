// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/go-paybank/paybank/internal/accountrepo"
	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/pkg/dbpkg"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns user RepoPGS bound to an already running transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns user RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO users (
    username,
    hashed_password
) VALUES (
    $1, $2
) RETURNING id, username, hashed_password, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Username, arg.HashedPassword)

	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.HashedPassword,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "users_username_key" {
				return u, domain.ErrUsernameAlreadyExists
			}
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

// CreateWithAccount creates the user and, if account is not nil, its initial
// payment account within a single transaction. Either both rows exist
// afterwards or neither does.
func (r *RepoPGS) CreateWithAccount(ctx context.Context, arg domain.CreateUserParams, account *domain.CreateAccountParams) (domain.UserWithAccounts, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithAccounts

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

	user, err := NewTxRepoPGS(tx).Create(ctx, arg)
	if err != nil {
		return result, err
	}

	result.ID = user.ID
	result.Username = user.Username
	result.Accounts = []domain.PaymentAccount{}

	if account != nil {
		account.UserID = user.ID

		created, err := accountrepo.NewRepoPGS(tx).Create(ctx, *account)
		if err != nil {
			return result, err
		}

		result.Accounts = append(result.Accounts, created)
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

const getQuery = `
SELECT id, username, hashed_password, created_at FROM users
WHERE username = $1
`

// Get returns the user with the given username.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, username)

	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.HashedPassword,
		&u.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getByIDQuery = `
SELECT id, username, hashed_password, created_at FROM users
WHERE id = $1
`

// GetByID returns the user with the given id.
func (r *RepoPGS) GetByID(ctx context.Context, id int64) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByIDQuery, id)

	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.HashedPassword,
		&u.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}
