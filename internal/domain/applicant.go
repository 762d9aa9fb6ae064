package domain

import (
	"context"
	"time"
)

// ConfirmationWindow is the offer window assigned to a promoted applicant.
// Expiry is enforced by the next batch run observing deadline <= now, so the
// actual latency includes the batch interval.
const ConfirmationWindow = 6 * time.Hour

// Applicant is a waitlisted registrant of one event.
//
// Deadline is null until a promotion offer is made. The two notified-at
// columns are idempotency guards: ParticipantableNotifiedAt marks that the
// promotion offer fired, DeadlineNotifiedAt that the expiry cancellation
// fired. Each must be written in the same transaction as the state change it
// guards.
// swagger:model Applicant
type Applicant struct {
	ID                        string     `json:"id"`
	EventID                   string     `json:"event_id"`
	EventUserID               string     `json:"event_user_id"`
	CancelToken               string     `json:"-"`
	CanceledAt                *time.Time `json:"canceled_at"`
	Deadline                  *time.Time `json:"deadline"`
	DeadlineNotifiedAt        *time.Time `json:"deadline_notified_at"`
	ParticipantableNotifiedAt *time.Time `json:"participantable_notified_at"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

// DeadlineFrom computes the confirmation deadline for an offer made at now.
func DeadlineFrom(now time.Time) time.Time {
	return now.Add(ConfirmationWindow)
}

// ApplicantWithUser bundles an applicant with its registration identity.
type ApplicantWithUser struct {
	Applicant *Applicant `json:"applicant"`
	User      *EventUser `json:"user"`
}

// ApplicantRecord is the applicant+user+event tuple returned by the batch
// engines for caller-side notification dispatch.
type ApplicantRecord struct {
	Applicant *Applicant    `json:"applicant"`
	User      *EventUser    `json:"user"`
	Event     *EventSummary `json:"event"`
}

// ApplicantRepository defines storage operations for waitlisted applicants.
type ApplicantRepository interface {
	Create(ctx context.Context, a *Applicant) error
	GetByID(ctx context.Context, id string) (*Applicant, error)
	GetByCancelToken(ctx context.Context, token string) (*Applicant, error)
	// CountPendingByEvent counts applicants still occupying the waitlist:
	// canceled_at IS NULL AND (deadline IS NULL OR deadline > now).
	CountPendingByEvent(ctx context.Context, eventID string, now time.Time) (int, error)
	// CountActiveByEvent counts applicants with canceled_at IS NULL, for
	// display figures.
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)
	// ListEligibleByEvent returns promotion candidates in strict FIFO order
	// (created_at ASC, id ASC): not cancelled, not yet offered
	// (participantable_notified_at IS NULL), deadline null or in the future.
	ListEligibleByEvent(ctx context.Context, eventID string, now time.Time) ([]*ApplicantWithUser, error)
	// Promote assigns the confirmation deadline and sets
	// participantable_notified_at in one statement.
	Promote(ctx context.Context, id string, deadline, notifiedAt time.Time) error
	// ListOverDeadline returns expiry candidates: deadline_notified_at IS
	// NULL AND deadline <= now AND canceled_at IS NULL, optionally filtered
	// to the given events, with user and event attached.
	ListOverDeadline(ctx context.Context, eventIDs []string, now time.Time) ([]*ApplicantRecord, error)
	// Expire cancels an over-deadline applicant, setting canceled_at and
	// deadline_notified_at to the same instant.
	Expire(ctx context.Context, id string, at time.Time) error
	// Cancel sets canceled_at when it is still null; cancelling an already
	// cancelled applicant is a no-op.
	Cancel(ctx context.Context, id string, at time.Time) error
	ListByEvent(ctx context.Context, eventID string) ([]*ApplicantWithUser, error)
}
