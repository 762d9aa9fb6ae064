package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventsquare/internal/domain"
)

const applicantColumns = `id, event_id, event_user_id, cancel_token, canceled_at, deadline, deadline_notified_at, participantable_notified_at, created_at, updated_at`

type applicantRepository struct {
	q DBTX
}

func NewApplicantRepository(q DBTX) domain.ApplicantRepository {
	return &applicantRepository{q: q}
}

func (r *applicantRepository) Create(ctx context.Context, a *domain.Applicant) error {
	query := `
		INSERT INTO applicants (event_id, event_user_id, cancel_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.q.QueryRowContext(ctx, query,
		a.EventID, a.EventUserID, a.CancelToken, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *applicantRepository) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *applicantRepository) GetByCancelToken(ctx context.Context, token string) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE cancel_token = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, token))
}

func (r *applicantRepository) CountPendingByEvent(ctx context.Context, eventID string, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM applicants
		WHERE event_id = $1
		  AND canceled_at IS NULL
		  AND (deadline IS NULL OR deadline > $2)
	`
	var count int
	if err := r.q.QueryRowContext(ctx, query, eventID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *applicantRepository) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM applicants WHERE event_id = $1 AND canceled_at IS NULL`
	var count int
	if err := r.q.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListEligibleByEvent orders strictly by creation time, id as the stable
// tie-break, so the FIFO take is deterministic.
func (r *applicantRepository) ListEligibleByEvent(ctx context.Context, eventID string, now time.Time) ([]*domain.ApplicantWithUser, error) {
	query := `
		SELECT a.id, a.event_id, a.event_user_id, a.cancel_token, a.canceled_at, a.deadline, a.deadline_notified_at, a.participantable_notified_at, a.created_at, a.updated_at,
			u.id, u.name, u.email, u.department, u.grade, u.created_at, u.updated_at
		FROM applicants a
		JOIN event_users u ON u.id = a.event_user_id
		WHERE a.event_id = $1
		  AND a.canceled_at IS NULL
		  AND a.participantable_notified_at IS NULL
		  AND (a.deadline IS NULL OR a.deadline > $2)
		ORDER BY a.created_at ASC, a.id ASC
	`
	rows, err := r.q.QueryContext(ctx, query, eventID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanWithUsers(rows)
}

func (r *applicantRepository) Promote(ctx context.Context, id string, deadline, notifiedAt time.Time) error {
	query := `
		UPDATE applicants
		SET deadline = $2, participantable_notified_at = $3, updated_at = $3
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, query, id, deadline, notifiedAt)
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

func (r *applicantRepository) ListOverDeadline(ctx context.Context, eventIDs []string, now time.Time) ([]*domain.ApplicantRecord, error) {
	query := `
		SELECT a.id, a.event_id, a.event_user_id, a.cancel_token, a.canceled_at, a.deadline, a.deadline_notified_at, a.participantable_notified_at, a.created_at, a.updated_at,
			u.id, u.name, u.email, u.department, u.grade, u.created_at, u.updated_at,
			e.id, e.name, e.description, e.place, e.start_time, e.end_time
		FROM applicants a
		JOIN event_users u ON u.id = a.event_user_id
		JOIN events e ON e.id = a.event_id
		WHERE a.deadline_notified_at IS NULL
		  AND a.deadline IS NOT NULL AND a.deadline <= $1
		  AND a.canceled_at IS NULL
	`
	args := []any{now}
	if len(eventIDs) > 0 {
		query += ` AND a.event_id = ANY($2)`
		args = append(args, pq.Array(eventIDs))
	}
	query += `
		ORDER BY a.deadline ASC, a.id ASC
		FOR UPDATE OF a
	`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ApplicantRecord, 0)
	for rows.Next() {
		a := &domain.Applicant{}
		u := &domain.EventUser{}
		e := &domain.EventSummary{}
		var canceledAt, deadline, deadlineNotified, participantableNotified sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.EventID, &a.EventUserID, &a.CancelToken, &canceledAt, &deadline, &deadlineNotified, &participantableNotified, &a.CreatedAt, &a.UpdatedAt,
			&u.ID, &u.Name, &u.Email, &u.Department, &u.Grade, &u.CreatedAt, &u.UpdatedAt,
			&e.ID, &e.Name, &e.Description, &e.Place, &e.StartTime, &e.EndTime,
		); err != nil {
			return nil, err
		}
		setNullableTimes(a, canceledAt, deadline, deadlineNotified, participantableNotified)
		records = append(records, &domain.ApplicantRecord{Applicant: a, User: u, Event: e})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Expire performs the cancellation and marks it handled in one statement so
// the idempotency guard cannot drift from the state change.
func (r *applicantRepository) Expire(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE applicants
		SET canceled_at = $2, deadline_notified_at = $2, updated_at = $2
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, query, id, at)
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

// Cancel leaves an already-cancelled row untouched so the first cancellation
// timestamp is preserved.
func (r *applicantRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE applicants
		SET canceled_at = $2, updated_at = $2
		WHERE id = $1 AND canceled_at IS NULL
	`
	_, err := r.q.ExecContext(ctx, query, id, at)
	return err
}

func (r *applicantRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.ApplicantWithUser, error) {
	query := `
		SELECT a.id, a.event_id, a.event_user_id, a.cancel_token, a.canceled_at, a.deadline, a.deadline_notified_at, a.participantable_notified_at, a.created_at, a.updated_at,
			u.id, u.name, u.email, u.department, u.grade, u.created_at, u.updated_at
		FROM applicants a
		JOIN event_users u ON u.id = a.event_user_id
		WHERE a.event_id = $1
		ORDER BY a.created_at ASC, a.id ASC
	`
	rows, err := r.q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanWithUsers(rows)
}

func (r *applicantRepository) scanWithUsers(rows *sql.Rows) ([]*domain.ApplicantWithUser, error) {
	result := make([]*domain.ApplicantWithUser, 0)
	for rows.Next() {
		a := &domain.Applicant{}
		u := &domain.EventUser{}
		var canceledAt, deadline, deadlineNotified, participantableNotified sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.EventID, &a.EventUserID, &a.CancelToken, &canceledAt, &deadline, &deadlineNotified, &participantableNotified, &a.CreatedAt, &a.UpdatedAt,
			&u.ID, &u.Name, &u.Email, &u.Department, &u.Grade, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		setNullableTimes(a, canceledAt, deadline, deadlineNotified, participantableNotified)
		result = append(result, &domain.ApplicantWithUser{Applicant: a, User: u})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *applicantRepository) scanOne(row *sql.Row) (*domain.Applicant, error) {
	a := &domain.Applicant{}
	var canceledAt, deadline, deadlineNotified, participantableNotified sql.NullTime
	err := row.Scan(
		&a.ID, &a.EventID, &a.EventUserID, &a.CancelToken, &canceledAt, &deadline, &deadlineNotified, &participantableNotified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	setNullableTimes(a, canceledAt, deadline, deadlineNotified, participantableNotified)
	return a, nil
}

func setNullableTimes(a *domain.Applicant, canceledAt, deadline, deadlineNotified, participantableNotified sql.NullTime) {
	if canceledAt.Valid {
		a.CanceledAt = &canceledAt.Time
	}
	if deadline.Valid {
		a.Deadline = &deadline.Time
	}
	if deadlineNotified.Valid {
		a.DeadlineNotifiedAt = &deadlineNotified.Time
	}
	if participantableNotified.Valid {
		a.ParticipantableNotifiedAt = &participantableNotified.Time
	}
}
