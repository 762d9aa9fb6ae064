package domain

import (
	"context"
	"time"
)

// EventStatus is derived from an event's hidden flag and schedule; it is
// computed from plain data after fetch, never stored.
type EventStatus string

const (
	EventStatusHidden    EventStatus = "hidden"
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusEnded     EventStatus = "ended"
)

// Event is an organizer-published event with an attendance cap.
// swagger:model Event
type Event struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Place           string     `json:"place"`
	Hidden          bool       `json:"hidden"`
	PublishedAt     *time.Time `json:"published_at"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	AttendanceLimit int        `json:"attendance_limit"`
	OrganizerID     string     `json:"organizer_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Status derives the display status of the event at the given instant.
func (e *Event) Status(now time.Time) EventStatus {
	if e.Hidden {
		return EventStatusHidden
	}
	if !e.EndTime.After(now) {
		return EventStatusEnded
	}
	return EventStatusScheduled
}

// AcceptsRegistration reports whether the event is open for new registrants:
// published, and not yet ended. Unpublished events accept no registration.
func (e *Event) AcceptsRegistration(now time.Time) bool {
	if e.PublishedAt == nil || e.PublishedAt.After(now) {
		return false
	}
	return e.EndTime.After(now)
}

// EventSummary is the subset of event fields carried in registration results
// and notification payloads.
type EventSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Place       string    `json:"place"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// Summary returns the notification-facing subset of the event.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Place:       e.Place,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}

// EventCounts holds the live (non-cancelled) registrant counts for an event.
type EventCounts struct {
	Participants int `json:"participants"`
	Applicants   int `json:"applicants"`
}

// EventWithCounts bundles an event with its live counts and derived status.
type EventWithCounts struct {
	Event     *Event      `json:"event"`
	Counts    EventCounts `json:"counts"`
	Remaining int         `json:"remaining"`
	Status    EventStatus `json:"status"`
}

// EventRepository defines storage operations for events. LockByID and
// ListPromotable take row-level locks and must only be called inside a
// transaction.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// LockByID loads the event with SELECT ... FOR UPDATE so that concurrent
	// capacity decisions on the same event serialize.
	LockByID(ctx context.Context, id string) (*Event, error)
	// ListPromotable returns events with start_time after now, optionally
	// restricted to the given ids, locked for update, ordered by start_time.
	ListPromotable(ctx context.Context, eventIDs []string, now time.Time) ([]*Event, error)
	// List returns events for the dashboard, newest first, with the total
	// count for pagination. hidden filters by the hidden flag when non-nil.
	List(ctx context.Context, hidden *bool, p PaginationParams) ([]*Event, int, error)
	// ListPublic returns published, non-hidden events that have not ended,
	// ordered by start_time.
	ListPublic(ctx context.Context, now time.Time) ([]*Event, error)
}
