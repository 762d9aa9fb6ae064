package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventsquare/internal/domain"
)

type eventUserRepository struct {
	q DBTX
}

func NewEventUserRepository(q DBTX) domain.EventUserRepository {
	return &eventUserRepository{q: q}
}

func (r *eventUserRepository) Create(ctx context.Context, u *domain.EventUser) error {
	query := `
		INSERT INTO event_users (name, email, department, grade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.q.QueryRowContext(ctx, query,
		u.Name, u.Email, u.Department, u.Grade, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
}

func (r *eventUserRepository) GetByID(ctx context.Context, id string) (*domain.EventUser, error) {
	query := `
		SELECT id, name, email, department, grade, created_at, updated_at
		FROM event_users
		WHERE id = $1
	`
	u := &domain.EventUser{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Department, &u.Grade, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
