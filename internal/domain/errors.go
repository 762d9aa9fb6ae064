package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a referenced event, registrant, or cancel
	// token does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request payload fails validation
	// before any store mutation happens.
	ErrInvalidInput = errors.New("invalid input")
)
