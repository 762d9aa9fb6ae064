package domain

import (
	"context"
	"time"
)

// Participant is a confirmed attendee of one event. A nil CanceledAt means
// the seat is held; active participants for an event must never exceed its
// attendance limit.
// swagger:model Participant
type Participant struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	EventUserID string     `json:"event_user_id"`
	CancelToken string     `json:"-"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ParticipantWithUser bundles a participant with its registration identity
// for organizer rosters.
type ParticipantWithUser struct {
	Participant *Participant `json:"participant"`
	User        *EventUser   `json:"user"`
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	Create(ctx context.Context, p *Participant) error
	GetByCancelToken(ctx context.Context, token string) (*Participant, error)
	// CountActiveByEvent counts participants with canceled_at IS NULL.
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)
	// GetByEventUser returns the participant row owned by the registration
	// identity, if any (used by the confirmability check).
	GetByEventUser(ctx context.Context, eventUserID string) (*Participant, error)
	// Cancel sets canceled_at when it is still null; cancelling an already
	// cancelled participant is a no-op.
	Cancel(ctx context.Context, id string, at time.Time) error
	ListByEvent(ctx context.Context, eventID string) ([]*ParticipantWithUser, error)
}
