package tokenpkg

import "time"

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for the given user and duration.
	CreateToken(userID int64, username string, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}
