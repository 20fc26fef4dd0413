package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can upload and read files.
type User struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a user with a freshly assigned identifier.
func NewUser(fullName, email, passwordHash string) User {
	now := time.Now()
	return User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
