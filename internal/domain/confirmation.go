package domain

import (
	"context"
	"time"
)

// ConfirmableReason explains why a promoted applicant can or cannot confirm
// participation right now.
type ConfirmableReason string

const (
	ReasonConfirmable          ConfirmableReason = "confirmable"
	ReasonAlreadyParticipating ConfirmableReason = "already_participating"
	ReasonCanceled             ConfirmableReason = "canceled"
	ReasonWaiting              ConfirmableReason = "waiting"
	ReasonExpired              ConfirmableReason = "expired"
)

// ConfirmableStatus is the read-only confirmation eligibility of an applicant.
// An applicant row persists after confirmation; only the presence of a
// sibling participant for the same registration identity distinguishes
// "confirmed" from "still waiting".
type ConfirmableStatus struct {
	Confirmable bool              `json:"confirmable"`
	Reason      ConfirmableReason `json:"reason"`
	Deadline    *time.Time        `json:"deadline"`
	Event       *EventSummary     `json:"event"`
}

// CancelableStatus is the read-only cancellation eligibility of a
// registration looked up by its bearer cancel token.
type CancelableStatus struct {
	Cancelable bool          `json:"cancelable"`
	CanceledAt *time.Time    `json:"canceled_at"`
	Deadline   *time.Time    `json:"deadline,omitempty"`
	Event      *EventSummary `json:"event"`
}

// ConfirmationService converts promoted applicants into participants and
// handles self-service cancellation by bearer token.
type ConfirmationService interface {
	// ConfirmParticipation creates a participant for the applicant's
	// registration identity with a fresh cancel token. The applicant row is
	// kept untouched for audit. Fails with ErrNotFound when the applicant or
	// its event is missing.
	ConfirmParticipation(ctx context.Context, applicantID string) (*EventSummary, error)
	ConfirmableParticipation(ctx context.Context, applicantID string) (*ConfirmableStatus, error)
	// CancelApplicant marks the applicant cancelled; cancelling twice is a
	// no-op that keeps the first cancellation timestamp.
	CancelApplicant(ctx context.Context, cancelToken string) (*EventSummary, error)
	CancelParticipant(ctx context.Context, cancelToken string) (*EventSummary, error)
	CancelableApplicant(ctx context.Context, cancelToken string) (*CancelableStatus, error)
	CancelableParticipant(ctx context.Context, cancelToken string) (*CancelableStatus, error)
}
