// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameAlreadyExists indicates that the user with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
)

// User holds user credentials data.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashed_password,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
}

// UserWithAccounts is registration result data excluding password data.
type UserWithAccounts struct {
	ID       int64            `json:"id"`
	Username string           `json:"username"`
	Accounts []PaymentAccount `json:"payment_accounts"`
}
