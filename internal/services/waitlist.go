package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventsquare/internal/domain"
)

type waitlistService struct {
	store  domain.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewWaitlistService creates a WaitlistService.
func NewWaitlistService(store domain.Store, logger *slog.Logger) domain.WaitlistService {
	return &waitlistService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// PromoteApplicants offers freed participant slots to the oldest waitlisted
// applicants of each upcoming event. A promoted applicant gets a confirmation
// deadline and is marked notified in the same transaction, so a rerun before
// the applicant acts selects nobody a second time. Only applicants never
// offered before are candidates; an event never hands out more offers than it
// has open slots.
func (s *waitlistService) PromoteApplicants(ctx context.Context, eventIDs []string) (*domain.BatchOutcome, error) {
	now := s.now()
	deadline := domain.DeadlineFrom(now)

	outcome := &domain.BatchOutcome{OK: true}
	err := s.store.WithinTx(ctx, func(ctx context.Context, r domain.Repos) error {
		events, err := r.Events.ListPromotable(ctx, eventIDs, now)
		if err != nil {
			return fmt.Errorf("list promotable events: %w", err)
		}
		if len(events) == 0 {
			outcome.Message = domain.BatchMessageNoEvents
			return nil
		}

		promoted := make([]*domain.ApplicantRecord, 0)
		for _, event := range events {
			participantCount, err := r.Participants.CountActiveByEvent(ctx, event.ID)
			if err != nil {
				return fmt.Errorf("count participants: %w", err)
			}
			openSlots := domain.Remaining(event.AttendanceLimit, participantCount)
			if openSlots <= 0 {
				continue
			}

			eligible, err := r.Applicants.ListEligibleByEvent(ctx, event.ID, now)
			if err != nil {
				return fmt.Errorf("list eligible applicants: %w", err)
			}
			if len(eligible) == 0 {
				continue
			}
			if len(eligible) > openSlots {
				eligible = eligible[:openSlots]
			}

			for _, a := range eligible {
				if err := r.Applicants.Promote(ctx, a.Applicant.ID, deadline, now); err != nil {
					return fmt.Errorf("promote applicant %s: %w", a.Applicant.ID, err)
				}
				a.Applicant.Deadline = &deadline
				a.Applicant.ParticipantableNotifiedAt = &now
				a.Applicant.UpdatedAt = now
				promoted = append(promoted, &domain.ApplicantRecord{
					Applicant: a.Applicant,
					User:      a.User,
					Event:     event.Summary(),
				})
			}
		}

		if len(promoted) == 0 {
			outcome.Message = domain.BatchMessageNoPromotableEvents
			return nil
		}
		outcome.Message = domain.BatchMessageSuccess
		outcome.Result = promoted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(outcome.Result) > 0 {
		s.logger.Info("applicants promoted", "count", len(outcome.Result))
	}
	return outcome, nil
}

// CancelOverDeadline cancels applicants whose confirmation deadline elapsed
// without action. Cancellation and the notified marker are written together,
// so a rerun returns the already-processed rows to nobody.
func (s *waitlistService) CancelOverDeadline(ctx context.Context, eventIDs []string) (*domain.BatchOutcome, error) {
	now := s.now()

	outcome := &domain.BatchOutcome{OK: true}
	err := s.store.WithinTx(ctx, func(ctx context.Context, r domain.Repos) error {
		expired, err := r.Applicants.ListOverDeadline(ctx, eventIDs, now)
		if err != nil {
			return fmt.Errorf("list applicants over deadline: %w", err)
		}
		if len(expired) == 0 {
			outcome.Message = domain.BatchMessageNoExpiredApplicants
			return nil
		}

		for _, rec := range expired {
			if err := r.Applicants.Expire(ctx, rec.Applicant.ID, now); err != nil {
				return fmt.Errorf("expire applicant %s: %w", rec.Applicant.ID, err)
			}
			rec.Applicant.CanceledAt = &now
			rec.Applicant.DeadlineNotifiedAt = &now
			rec.Applicant.UpdatedAt = now
		}

		outcome.Message = domain.BatchMessageSuccess
		outcome.Result = expired
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(outcome.Result) > 0 {
		s.logger.Info("expired applicants canceled", "count", len(outcome.Result))
	}
	return outcome, nil
}
