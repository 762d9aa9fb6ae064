package services

import (
	"context"
	"fmt"
	"log"

	"eventsquare/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRegistrationConfirmed notifies a registrant that their seat is held,
// using the "registration_confirmed" template.
func (s *emailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration email data is nil")
	}
	return s.send("registration_confirmed", data.Email, data)
}

// SendWaitlisted notifies a registrant that they joined the waitlist, using
// the "waitlisted" template.
func (s *emailService) SendWaitlisted(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist email data is nil")
	}
	return s.send("waitlisted", data.Email, data)
}

// SendPromotionOffer notifies a promoted applicant that a seat opened and a
// confirmation deadline is running, using the "promotion_offer" template.
func (s *emailService) SendPromotionOffer(ctx context.Context, data *domain.PromotionOfferEmailData) error {
	if data == nil {
		return fmt.Errorf("promotion offer email data is nil")
	}
	return s.send("promotion_offer", data.Email, data)
}

// SendDeadlineExpired notifies an applicant that their confirmation window
// elapsed and the offer was withdrawn, using the "deadline_expired" template.
func (s *emailService) SendDeadlineExpired(ctx context.Context, data *domain.DeadlineExpiredEmailData) error {
	if data == nil {
		return fmt.Errorf("deadline expired email data is nil")
	}
	return s.send("deadline_expired", data.Email, data)
}

func (s *emailService) send(templateName, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	log.Printf("[EMAIL] %s email sent to %s", templateName, to)
	return nil
}
