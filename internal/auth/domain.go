package auth

import "time"

// User represents a system user account as consumed by authentication.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	FullName     string
	IsActive     bool
	CreatedAt    time.Time
}
