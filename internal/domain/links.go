package domain

import "strings"

// LinkBuilder constructs the self-service cancel and confirm URLs embedded in
// notification emails from a configured base URL plus the bearer token or
// applicant id.
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder returns a LinkBuilder for the given base URL (trailing slash
// stripped).
func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// AppliedCancelURL is the cancel link for a waitlisted applicant.
func (b *LinkBuilder) AppliedCancelURL(cancelToken string) string {
	return b.baseURL + "/events/cancel/applied/" + cancelToken
}

// ParticipatingCancelURL is the cancel link for a confirmed participant.
func (b *LinkBuilder) ParticipatingCancelURL(cancelToken string) string {
	return b.baseURL + "/events/cancel/participating/" + cancelToken
}

// ConfirmParticipatingURL is the confirmation link for a promoted applicant.
func (b *LinkBuilder) ConfirmParticipatingURL(applicantID string) string {
	return b.baseURL + "/events/confirm/participating/" + applicantID
}
