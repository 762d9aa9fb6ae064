package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventsquare/internal/domain"
)

const eventColumns = `id, name, description, place, hidden, published_at, start_time, end_time, attendance_limit, organizer_id, created_at, updated_at`

type eventRepository struct {
	q DBTX
}

func NewEventRepository(q DBTX) domain.EventRepository {
	return &eventRepository{q: q}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, place, hidden, published_at, start_time, end_time, attendance_limit, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var publishedAt sql.NullTime
	if e.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *e.PublishedAt, Valid: true}
	}
	return r.q.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Place, e.Hidden, publishedAt,
		e.StartTime, e.EndTime, e.AttendanceLimit, e.OrganizerID,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, place = $4, hidden = $5, published_at = $6,
			start_time = $7, end_time = $8, attendance_limit = $9, updated_at = $10
		WHERE id = $1
	`
	var publishedAt sql.NullTime
	if e.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *e.PublishedAt, Valid: true}
	}
	res, err := r.q.ExecContext(ctx, query,
		e.ID, e.Name, e.Description, e.Place, e.Hidden, publishedAt,
		e.StartTime, e.EndTime, e.AttendanceLimit, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) LockByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) ListPromotable(ctx context.Context, eventIDs []string, now time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_time > $1
	`
	args := []any{now}
	if len(eventIDs) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, pq.Array(eventIDs))
	}
	query += `
		ORDER BY start_time ASC
		FOR UPDATE
	`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *eventRepository) List(ctx context.Context, hidden *bool, p domain.PaginationParams) ([]*domain.Event, int, error) {
	countQuery := `SELECT COUNT(*) FROM events WHERE ($1::boolean IS NULL OR hidden = $1)`
	var hiddenArg sql.NullBool
	if hidden != nil {
		hiddenArg = sql.NullBool{Bool: *hidden, Valid: true}
	}
	var total int
	if err := r.q.QueryRowContext(ctx, countQuery, hiddenArg).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1::boolean IS NULL OR hidden = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, hiddenArg, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListPublic(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE hidden = false
		  AND published_at IS NOT NULL AND published_at <= $1
		  AND end_time > $1
		ORDER BY start_time ASC
	`
	rows, err := r.q.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *eventRepository) scanOne(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var publishedAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Place, &e.Hidden, &publishedAt,
		&e.StartTime, &e.EndTime, &e.AttendanceLimit, &e.OrganizerID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if publishedAt.Valid {
		e.PublishedAt = &publishedAt.Time
	}
	return e, nil
}

func (r *eventRepository) scanMany(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var publishedAt sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.Place, &e.Hidden, &publishedAt,
			&e.StartTime, &e.EndTime, &e.AttendanceLimit, &e.OrganizerID,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			e.PublishedAt = &publishedAt.Time
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
