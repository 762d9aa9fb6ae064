package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventsquare/internal/domain"
)

type confirmationService struct {
	store domain.Store
	now   func() time.Time
}

// NewConfirmationService creates a ConfirmationService.
func NewConfirmationService(store domain.Store) domain.ConfirmationService {
	return &confirmationService{
		store: store,
		now:   time.Now,
	}
}

// ConfirmParticipation converts a promoted applicant into a participant. The
// applicant row is kept as-is; the new participant shares the registration
// identity and gets its own cancel token.
func (s *confirmationService) ConfirmParticipation(ctx context.Context, applicantID string) (*domain.EventSummary, error) {
	now := s.now()
	var summary *domain.EventSummary
	err := s.store.WithinTx(ctx, func(ctx context.Context, r domain.Repos) error {
		applicant, err := r.Applicants.GetByID(ctx, applicantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get applicant: %w", err)
		}

		event, err := r.Events.GetByID(ctx, applicant.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}

		participant := &domain.Participant{
			EventID:     applicant.EventID,
			EventUserID: applicant.EventUserID,
			CancelToken: uuid.NewString(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Participants.Create(ctx, participant); err != nil {
			return fmt.Errorf("create participant: %w", err)
		}
		summary = event.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ConfirmableParticipation reports whether the applicant can still act on its
// promotion offer. A sibling participant for the same registration identity
// means the offer was already taken.
func (s *confirmationService) ConfirmableParticipation(ctx context.Context, applicantID string) (*domain.ConfirmableStatus, error) {
	now := s.now()
	r := s.store.Repos()

	applicant, err := r.Applicants.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	event, err := r.Events.GetByID(ctx, applicant.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	status := &domain.ConfirmableStatus{
		Deadline: applicant.Deadline,
		Event:    event.Summary(),
	}

	participant, err := r.Participants.GetByEventUser(ctx, applicant.EventUserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	switch {
	case participant != nil && participant.CanceledAt != nil:
		status.Reason = domain.ReasonCanceled
	case participant != nil:
		status.Reason = domain.ReasonAlreadyParticipating
	case applicant.CanceledAt != nil:
		status.Reason = domain.ReasonCanceled
	case applicant.Deadline == nil:
		status.Reason = domain.ReasonWaiting
	case !applicant.Deadline.After(now):
		status.Reason = domain.ReasonExpired
	default:
		status.Confirmable = true
		status.Reason = domain.ReasonConfirmable
	}
	return status, nil
}

// CancelApplicant cancels the waitlist entry behind the bearer token.
// Cancelling twice keeps the first timestamp.
func (s *confirmationService) CancelApplicant(ctx context.Context, cancelToken string) (*domain.EventSummary, error) {
	now := s.now()
	var summary *domain.EventSummary
	err := s.store.WithinTx(ctx, func(ctx context.Context, r domain.Repos) error {
		applicant, err := r.Applicants.GetByCancelToken(ctx, cancelToken)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get applicant: %w", err)
		}
		event, err := r.Events.GetByID(ctx, applicant.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if applicant.CanceledAt == nil {
			if err := r.Applicants.Cancel(ctx, applicant.ID, now); err != nil {
				return fmt.Errorf("cancel applicant: %w", err)
			}
		}
		summary = event.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// CancelParticipant cancels the seat behind the bearer token, freeing it for
// the next promotion run. Cancelling twice keeps the first timestamp.
func (s *confirmationService) CancelParticipant(ctx context.Context, cancelToken string) (*domain.EventSummary, error) {
	now := s.now()
	var summary *domain.EventSummary
	err := s.store.WithinTx(ctx, func(ctx context.Context, r domain.Repos) error {
		participant, err := r.Participants.GetByCancelToken(ctx, cancelToken)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get participant: %w", err)
		}
		event, err := r.Events.GetByID(ctx, participant.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if participant.CanceledAt == nil {
			if err := r.Participants.Cancel(ctx, participant.ID, now); err != nil {
				return fmt.Errorf("cancel participant: %w", err)
			}
		}
		summary = event.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *confirmationService) CancelableApplicant(ctx context.Context, cancelToken string) (*domain.CancelableStatus, error) {
	r := s.store.Repos()
	applicant, err := r.Applicants.GetByCancelToken(ctx, cancelToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	event, err := r.Events.GetByID(ctx, applicant.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &domain.CancelableStatus{
		Cancelable: applicant.CanceledAt == nil,
		CanceledAt: applicant.CanceledAt,
		Deadline:   applicant.Deadline,
		Event:      event.Summary(),
	}, nil
}

func (s *confirmationService) CancelableParticipant(ctx context.Context, cancelToken string) (*domain.CancelableStatus, error) {
	r := s.store.Repos()
	participant, err := r.Participants.GetByCancelToken(ctx, cancelToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	event, err := r.Events.GetByID(ctx, participant.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &domain.CancelableStatus{
		Cancelable: participant.CanceledAt == nil,
		CanceledAt: participant.CanceledAt,
		Event:      event.Summary(),
	}, nil
}
