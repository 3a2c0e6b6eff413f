package user

import "time"

// User represents a registered account. Accounts are created at
// registration and never mutated afterwards.
type User struct {
	ID           int64     // ID is the unique identifier for the user
	Email        string    // Email is the unique email address of the user
	PasswordHash string    // PasswordHash is the bcrypt hash of the user's password
	CreatedAt    time.Time // CreatedAt is when the account was registered
}
