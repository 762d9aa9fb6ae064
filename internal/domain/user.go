package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for organizer account operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is an organizer account for the dashboard. Visitor registrants are
// EventUser rows, not Users.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Salt         string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRepository defines storage operations for organizer accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// TokenIssuer signs an access token for an organizer.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier validates an access token and returns the organizer's user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PasswordHasher hashes and compares organizer passwords.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (string, error)
	Compare(hash, salt, password string) error
}

// AuthService authenticates organizers for the dashboard API.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *User, error)
}
