package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegistrationType tags the outcome of a registration: placed directly as a
// participant, or waitlisted as an applicant.
type RegistrationType string

const (
	RegistrationTypeParticipating RegistrationType = "participating"
	RegistrationTypeApplied       RegistrationType = "applied"
)

// RegistrationInput is the payload for registering a person for an event.
type RegistrationInput struct {
	EventID    string     `json:"event_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Department Department `json:"department"`
	Grade      Grade      `json:"grade"`
}

// Validate checks the payload against the affiliation taxonomy. Registrants
// from student departments must use an address under studentEmailDomain.
func (in *RegistrationInput) Validate(studentEmailDomain string) error {
	if in.EventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !ValidAffiliation(in.Department, in.Grade) {
		return fmt.Errorf("%w: department %q does not allow grade %q", ErrInvalidInput, in.Department, in.Grade)
	}
	email := strings.TrimSpace(in.Email)
	if in.Department.IsStudentDepartment() {
		if !strings.HasSuffix(email, studentEmailDomain) {
			return fmt.Errorf("%w: students must register with an address ending in %s", ErrInvalidInput, studentEmailDomain)
		}
	} else if !emailShape.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

// RegistrationResult is the tagged outcome of RegisterForEvent.
type RegistrationResult struct {
	Type        RegistrationType `json:"type"`
	User        *EventUser       `json:"user"`
	Event       *EventSummary    `json:"event"`
	CancelToken string           `json:"cancel_token"`
}

// RegistrationService decides participant-or-applicant placement for new
// registrants.
type RegistrationService interface {
	// RegisterForEvent atomically places the registrant as a participant
	// when capacity remains, or as a waitlisted applicant otherwise.
	// Fails with ErrInvalidInput before any store mutation, or ErrNotFound
	// when the event does not exist.
	RegisterForEvent(ctx context.Context, in *RegistrationInput) (*RegistrationResult, error)
}
