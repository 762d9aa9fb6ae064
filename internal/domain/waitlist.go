package domain

import "context"

// Batch outcome messages. The "nothing to do" outcomes are successes, not
// errors; callers distinguish them from store faults, which propagate as
// returned errors.
const (
	BatchMessageSuccess             = "success"
	BatchMessageNoEvents            = "No events were found to process."
	BatchMessageNoPromotableEvents  = "No shouldApplicantToParticipateEvents were found to process."
	BatchMessageNoExpiredApplicants = "No users were found to process."
)

// BatchOutcome is the result of one batch engine invocation. Result carries
// the processed applicant tuples for caller-side notification dispatch and is
// nil for the "nothing to do" outcomes.
type BatchOutcome struct {
	OK      bool              `json:"ok"`
	Message string            `json:"message"`
	Result  []*ApplicantRecord `json:"result,omitempty"`
}

// WaitlistService runs the batch-triggered waitlist engines. Both operations
// are idempotent: re-running with unchanged state processes nothing. Expiry
// does not re-promote freed slots within the same call; the scheduler invokes
// promotion separately.
type WaitlistService interface {
	// PromoteApplicants offers open slots to the oldest eligible waitlisted
	// applicants of upcoming events, assigning each a confirmation deadline.
	// eventIDs restricts the scan when non-empty.
	PromoteApplicants(ctx context.Context, eventIDs []string) (*BatchOutcome, error)
	// CancelOverDeadline cancels promoted applicants whose confirmation
	// deadline passed without action.
	CancelOverDeadline(ctx context.Context, eventIDs []string) (*BatchOutcome, error)
}
