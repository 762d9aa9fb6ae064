package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventsquare/internal/domain"
)

const maxAttendanceLimit = 255

type eventService struct {
	store domain.Store
	now   func() time.Time
}

// NewEventService creates an EventService.
func NewEventService(store domain.Store) domain.EventService {
	return &eventService{
		store: store,
		now:   time.Now,
	}
}

func validateEventInput(in *domain.EventInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.AttendanceLimit < 1 || in.AttendanceLimit > maxAttendanceLimit {
		return fmt.Errorf("%w: attendance limit must be between 1 and %d", domain.ErrInvalidInput, maxAttendanceLimit)
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end times are required", domain.ErrInvalidInput)
	}
	if !in.EndTime.After(in.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, organizerID string, in *domain.EventInput) (*domain.Event, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	event := &domain.Event{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Place:           in.Place,
		Hidden:          in.Hidden,
		PublishedAt:     in.PublishedAt,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		AttendanceLimit: in.AttendanceLimit,
		OrganizerID:     organizerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Repos().Events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, in *domain.EventInput) (*domain.Event, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	r := s.store.Repos()
	event, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	event.Name = strings.TrimSpace(in.Name)
	event.Description = in.Description
	event.Place = in.Place
	event.Hidden = in.Hidden
	event.PublishedAt = in.PublishedAt
	event.StartTime = in.StartTime
	event.EndTime = in.EndTime
	event.AttendanceLimit = in.AttendanceLimit
	event.UpdatedAt = s.now()

	if err := r.Events.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// GetEvent returns the organizer view of one event with both rosters.
func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	now := s.now()
	r := s.store.Repos()

	event, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	participants, err := r.Participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	applicants, err := r.Applicants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}

	counts := domain.EventCounts{}
	for _, p := range participants {
		if p.Participant.CanceledAt == nil {
			counts.Participants++
		}
	}
	for _, a := range applicants {
		if a.Applicant.CanceledAt == nil {
			counts.Applicants++
		}
	}

	return &domain.EventDetail{
		Event:        event,
		Status:       event.Status(now),
		Counts:       counts,
		Participants: participants,
		Applicants:   applicants,
	}, nil
}

func (s *eventService) ListEvents(ctx context.Context, hidden *bool, p domain.PaginationParams) ([]*domain.EventWithCounts, domain.PageInfo, error) {
	now := s.now()
	r := s.store.Repos()

	events, total, err := r.Events.List(ctx, hidden, p)
	if err != nil {
		return nil, domain.PageInfo{}, fmt.Errorf("list events: %w", err)
	}

	out, err := s.withCounts(ctx, r, events, now)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return out, domain.NewPageInfo(p, total), nil
}

func (s *eventService) ListPublicEvents(ctx context.Context) ([]*domain.EventWithCounts, error) {
	now := s.now()
	r := s.store.Repos()

	events, err := r.Events.ListPublic(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list public events: %w", err)
	}
	return s.withCounts(ctx, r, events, now)
}

func (s *eventService) GetPublicEvent(ctx context.Context, eventID string) (*domain.EventWithCounts, error) {
	now := s.now()
	r := s.store.Repos()

	event, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Hidden || event.PublishedAt == nil || event.PublishedAt.After(now) {
		return nil, domain.ErrNotFound
	}

	out, err := s.withCounts(ctx, r, []*domain.Event{event}, now)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// withCounts attaches live counts, the display remaining figure and derived
// status to each event.
func (s *eventService) withCounts(ctx context.Context, r domain.Repos, events []*domain.Event, now time.Time) ([]*domain.EventWithCounts, error) {
	out := make([]*domain.EventWithCounts, 0, len(events))
	for _, event := range events {
		participants, err := r.Participants.CountActiveByEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		applicants, err := r.Applicants.CountPendingByEvent(ctx, event.ID, now)
		if err != nil {
			return nil, fmt.Errorf("count applicants: %w", err)
		}
		out = append(out, &domain.EventWithCounts{
			Event: event,
			Counts: domain.EventCounts{
				Participants: participants,
				Applicants:   applicants,
			},
			Remaining: domain.DisplayRemaining(event.AttendanceLimit, participants, applicants),
			Status:    event.Status(now),
		})
	}
	return out, nil
}
