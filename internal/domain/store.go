package domain

import "context"

// Repos bundles the repositories bound to one database handle, either the
// connection pool or a single transaction.
type Repos struct {
	Events       EventRepository
	EventUsers   EventUserRepository
	Participants ParticipantRepository
	Applicants   ApplicantRepository
	Users        UserRepository
}

// Store is the unit-of-work boundary. WithinTx runs fn with repositories
// scoped to one transaction, committing on nil and rolling back on error;
// every engine that reads capacity counts to make a placement or promotion
// decision must do the read and the write through the same transaction.
type Store interface {
	// Repos returns repositories bound to the connection pool, for
	// single-statement reads.
	Repos() Repos
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
