package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account number does not exist
	// or is not owned by the requesting user. Both cases share one message
	// so callers cannot probe for foreign account numbers.
	ErrAccountNotFound = errors.New("account number not found for this user")
	// ErrRecipientNotFound indicates that the recipient account does not exist.
	ErrRecipientNotFound = errors.New("account number recipient not found")
	// ErrAccountNumberExists indicates that the account number is already taken.
	ErrAccountNumberExists = errors.New("account number already exists")
	// ErrUnsupportedAccountType indicates an account type outside the closed set.
	ErrUnsupportedAccountType = errors.New("unsupported account type")
	// ErrNegativeBalance indicates an attempt to open an account with a negative balance.
	ErrNegativeBalance = errors.New("negative opening balance")
)

// PaymentAccount holds balance data for a single account number.
//
// Balance is kept as a string to match the NUMERIC column and is never
// mutated outside movementrepo.
type PaymentAccount struct {
	AccountNumber string    `json:"account_number"`
	UserID        int64     `json:"user_id"`
	Balance       string    `json:"balance"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// CreateAccountParams is the input data to create a payment account.
type CreateAccountParams struct {
	AccountNumber string `json:"account_number"`
	UserID        int64  `json:"user_id"`
	Type          string `json:"type"`
	Balance       string `json:"balance"`
}

// InsufficientBalanceError indicates that a debit would take the account
// balance below zero. The failed movement leaves no effects behind.
type InsufficientBalanceError struct {
	AccountNumber string
	Amount        string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s doesn't have enough to send %s", e.AccountNumber, e.Amount)
}
