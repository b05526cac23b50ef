package domain

import "time"

// User is the domain entity for a registered account.
// IsAdmin is set at registration and never changes afterwards.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
