package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Users are referenced everywhere
// else by their login, which is unique across the system.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Login is the unique handle used to reference the user in rosters,
	// items and debts.
	Login string

	// DisplayName is the name shown in rosters and item ownership.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(login, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Login:        login,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
