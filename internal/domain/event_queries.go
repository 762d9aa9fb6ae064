package domain

import (
	"context"
	"time"
)

// EventDetail is the organizer view of one event: rosters plus live counts.
type EventDetail struct {
	Event        *Event                 `json:"event"`
	Status       EventStatus            `json:"status"`
	Counts       EventCounts            `json:"counts"`
	Participants []*ParticipantWithUser `json:"participants"`
	Applicants   []*ApplicantWithUser   `json:"applicants"`
}

// EventInput is the payload for creating or updating an event.
type EventInput struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Place           string     `json:"place"`
	Hidden          bool       `json:"hidden"`
	PublishedAt     *time.Time `json:"published_at"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	AttendanceLimit int        `json:"attendance_limit"`
}

// EventService defines organizer and public event queries and mutations.
type EventService interface {
	CreateEvent(ctx context.Context, organizerID string, in *EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, in *EventInput) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*EventDetail, error)
	ListEvents(ctx context.Context, hidden *bool, p PaginationParams) ([]*EventWithCounts, PageInfo, error)
	// ListPublicEvents returns events visible to visitors with display
	// remaining figures.
	ListPublicEvents(ctx context.Context) ([]*EventWithCounts, error)
	GetPublicEvent(ctx context.Context, eventID string) (*EventWithCounts, error)
}
