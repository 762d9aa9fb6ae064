package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventsquare/internal/domain"
)

const participantColumns = `id, event_id, event_user_id, cancel_token, canceled_at, created_at, updated_at`

type participantRepository struct {
	q DBTX
}

func NewParticipantRepository(q DBTX) domain.ParticipantRepository {
	return &participantRepository{q: q}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (event_id, event_user_id, cancel_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.q.QueryRowContext(ctx, query,
		p.EventID, p.EventUserID, p.CancelToken, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *participantRepository) GetByCancelToken(ctx context.Context, token string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE cancel_token = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, token))
}

func (r *participantRepository) GetByEventUser(ctx context.Context, eventUserID string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_user_id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, eventUserID))
}

func (r *participantRepository) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM participants WHERE event_id = $1 AND canceled_at IS NULL`
	var count int
	if err := r.q.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Cancel leaves an already-cancelled row untouched so the first cancellation
// timestamp is preserved.
func (r *participantRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE participants
		SET canceled_at = $2, updated_at = $2
		WHERE id = $1 AND canceled_at IS NULL
	`
	_, err := r.q.ExecContext(ctx, query, id, at)
	return err
}

func (r *participantRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	query := `
		SELECT p.id, p.event_id, p.event_user_id, p.cancel_token, p.canceled_at, p.created_at, p.updated_at,
			u.id, u.name, u.email, u.department, u.grade, u.created_at, u.updated_at
		FROM participants p
		JOIN event_users u ON u.id = p.event_user_id
		WHERE p.event_id = $1
		ORDER BY p.created_at ASC, p.id ASC
	`
	rows, err := r.q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.ParticipantWithUser, 0)
	for rows.Next() {
		p := &domain.Participant{}
		u := &domain.EventUser{}
		var canceledAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.EventID, &p.EventUserID, &p.CancelToken, &canceledAt, &p.CreatedAt, &p.UpdatedAt,
			&u.ID, &u.Name, &u.Email, &u.Department, &u.Grade, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if canceledAt.Valid {
			p.CanceledAt = &canceledAt.Time
		}
		result = append(result, &domain.ParticipantWithUser{Participant: p, User: u})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *participantRepository) scanOne(row *sql.Row) (*domain.Participant, error) {
	p := &domain.Participant{}
	var canceledAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.EventID, &p.EventUserID, &p.CancelToken, &canceledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if canceledAt.Valid {
		p.CanceledAt = &canceledAt.Time
	}
	return p, nil
}
