package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds substitutions for the two registration
// outcome emails: seat confirmed, or waitlisted.
type RegistrationEmailData struct {
	Name        string
	Email       string
	EventName   string
	Description string
	Place       string
	StartTime   string
	EndTime     string
	CancelURL   string
}

// PromotionOfferEmailData holds substitutions for the promotion offer email
// sent when a waitlisted applicant may confirm participation.
type PromotionOfferEmailData struct {
	Name        string
	Email       string
	EventName   string
	Description string
	Place       string
	StartTime   string
	EndTime     string
	ConfirmURL  string
	CancelURL   string
	Deadline    string
}

// DeadlineExpiredEmailData holds substitutions for the expiry notification
// sent when a confirmation deadline passed without action.
type DeadlineExpiredEmailData struct {
	Name        string
	Email       string
	EventName   string
	Description string
	Place       string
	StartTime   string
	EndTime     string
	Deadline    string
	CanceledAt  string
}

// EmailService defines the contract for sending registration and waitlist
// notification emails. The core only produces the substitution payloads; the
// final text lives in templates.
type EmailService interface {
	SendRegistrationConfirmed(ctx context.Context, data *RegistrationEmailData) error
	SendWaitlisted(ctx context.Context, data *RegistrationEmailData) error
	SendPromotionOffer(ctx context.Context, data *PromotionOfferEmailData) error
	SendDeadlineExpired(ctx context.Context, data *DeadlineExpiredEmailData) error
}
