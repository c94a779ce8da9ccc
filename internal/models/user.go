package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName is the owner name shown on plan overviews.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
