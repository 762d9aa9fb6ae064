package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventsquare/internal/domain"
)

// DBTX is the querier shared by *sql.DB and *sql.Tx, so each repository runs
// the same SQL against the pool or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type store struct {
	db *sql.DB
}

// NewStore returns a domain.Store backed by the given connection pool.
func NewStore(db *sql.DB) domain.Store {
	return &store{db: db}
}

func newRepos(q DBTX) domain.Repos {
	return domain.Repos{
		Events:       NewEventRepository(q),
		EventUsers:   NewEventUserRepository(q),
		Participants: NewParticipantRepository(q),
		Applicants:   NewApplicantRepository(q),
		Users:        NewUserRepository(q),
	}
}

func (s *store) Repos() domain.Repos {
	return newRepos(s.db)
}

// WithinTx begins a transaction, hands fn repositories bound to it, commits
// when fn returns nil, and rolls back everything otherwise. There is no
// partial success: a failure mid-batch undoes all work of the invocation.
func (s *store) WithinTx(ctx context.Context, fn func(ctx context.Context, r domain.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(ctx, newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
