package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry links an account number to a transaction that debited it.
// Only the paying side of a movement gets an entry.
type HistoryEntry struct {
	ID            int64       `json:"id"`
	AccountNumber string      `json:"account_number"`
	TransactionID uuid.UUID   `json:"transaction_id"`
	Transaction   Transaction `json:"transaction"`
	CreatedAt     time.Time   `json:"created_at"`
}
