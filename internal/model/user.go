package model

import "time"

// Roles accepted for application users.
const (
	RoleUser    = "User"
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
)

// User mirrors the 'users' table. Username and email are unique
// case-insensitively across active and inactive accounts. The refresh token
// is stored as a SHA-256 hash; at most one refresh token is active per user.
type User struct {
	ID                 uint64
	Username           string
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Role               string
	IsActive           bool
	CreatedDate        time.Time
	LastLoginDate      *time.Time
	RefreshTokenHash   *string
	RefreshTokenExpiry *time.Time
}
