package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount indicates invalid movement amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// StatusSuccess is the only status the engines ever record.
// Failed movements leave no transaction at all.
const StatusSuccess = "SUCCESS"

// Transaction is an immutable record of one completed movement.
type Transaction struct {
	ID        uuid.UUID `json:"id"`
	Amount    string    `json:"amount"` // must be positive
	ToAddress string    `json:"to_address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SendParams is the input data for a transfer between two accounts.
type SendParams struct {
	UserID            int64  `json:"user_id"`
	FromAccountNumber string `json:"from"`
	ToAccountNumber   string `json:"to"`
	Amount            string `json:"amount"`
}

// WithdrawParams is the input data for a single-account withdrawal.
type WithdrawParams struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"from"`
	Amount        string `json:"amount"`
}
