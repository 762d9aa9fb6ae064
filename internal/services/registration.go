package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventsquare/internal/domain"
)

type registrationService struct {
	store              domain.Store
	emailService       domain.EmailService
	links              *domain.LinkBuilder
	studentEmailDomain string
	logger             *slog.Logger
	now                func() time.Time
}

// NewRegistrationService creates a RegistrationService. emailService may be
// nil, in which case no notification is sent.
func NewRegistrationService(
	store domain.Store,
	emailService domain.EmailService,
	links *domain.LinkBuilder,
	studentEmailDomain string,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		store:              store,
		emailService:       emailService,
		links:              links,
		studentEmailDomain: studentEmailDomain,
		logger:             logger,
		now:                time.Now,
	}
}

// RegisterForEvent decides participant-or-applicant placement in a single
// transaction. The event row is locked so two concurrent registrations cannot
// both observe the same free slot; counts are re-derived inside the
// transaction, never taken from the caller.
func (s *registrationService) RegisterForEvent(ctx context.Context, in *domain.RegistrationInput) (*domain.RegistrationResult, error) {
	if err := in.Validate(s.studentEmailDomain); err != nil {
		return nil, err
	}

	now := s.now()
	var result *domain.RegistrationResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, r domain.Repos) error {
		event, err := r.Events.LockByID(ctx, in.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}
		if !event.AcceptsRegistration(now) {
			return fmt.Errorf("%w: event is not open for registration", domain.ErrInvalidInput)
		}

		participantCount, err := r.Participants.CountActiveByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}

		user := &domain.EventUser{
			Name:       strings.TrimSpace(in.Name),
			Email:      strings.TrimSpace(in.Email),
			Department: in.Department,
			Grade:      in.Grade,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.EventUsers.Create(ctx, user); err != nil {
			return fmt.Errorf("create event user: %w", err)
		}

		cancelToken := uuid.NewString()
		if domain.CanParticipate(event.AttendanceLimit, participantCount) {
			participant := &domain.Participant{
				EventID:     event.ID,
				EventUserID: user.ID,
				CancelToken: cancelToken,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := r.Participants.Create(ctx, participant); err != nil {
				return fmt.Errorf("create participant: %w", err)
			}
			result = &domain.RegistrationResult{
				Type:        domain.RegistrationTypeParticipating,
				User:        user,
				Event:       event.Summary(),
				CancelToken: cancelToken,
			}
			return nil
		}

		applicant := &domain.Applicant{
			EventID:     event.ID,
			EventUserID: user.ID,
			CancelToken: cancelToken,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Applicants.Create(ctx, applicant); err != nil {
			return fmt.Errorf("create applicant: %w", err)
		}
		result = &domain.RegistrationResult{
			Type:        domain.RegistrationTypeApplied,
			User:        user,
			Event:       event.Summary(),
			CancelToken: cancelToken,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, result)
	return result, nil
}

// notify sends the registration outcome email after commit. Delivery failure
// does not undo the registration; it is logged for the operator.
func (s *registrationService) notify(ctx context.Context, result *domain.RegistrationResult) {
	if s.emailService == nil {
		return
	}
	data := &domain.RegistrationEmailData{
		Name:        result.User.Name,
		Email:       result.User.Email,
		EventName:   result.Event.Name,
		Description: result.Event.Description,
		Place:       result.Event.Place,
		StartTime:   formatDatetime(&result.Event.StartTime),
		EndTime:     formatDatetime(&result.Event.EndTime),
	}
	var err error
	switch result.Type {
	case domain.RegistrationTypeParticipating:
		data.CancelURL = s.links.ParticipatingCancelURL(result.CancelToken)
		err = s.emailService.SendRegistrationConfirmed(ctx, data)
	case domain.RegistrationTypeApplied:
		data.CancelURL = s.links.AppliedCancelURL(result.CancelToken)
		err = s.emailService.SendWaitlisted(ctx, data)
	}
	if err != nil {
		s.logger.Warn("registration notification failed",
			"email", result.User.Email, "event", result.Event.ID, "err", err)
	}
}

// formatDatetime renders timestamps for email substitutions; nil renders as
// the empty string.
func formatDatetime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
