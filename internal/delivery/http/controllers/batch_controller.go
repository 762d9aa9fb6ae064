package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"eventsquare/internal/delivery/http/helpers"
	"eventsquare/internal/domain"
)

// BatchController serves the scheduler-triggered batch endpoints. Each run
// drives one engine pass and dispatches the notification emails for the rows
// it processed.
type BatchController struct {
	Logger       *slog.Logger
	Waitlist     domain.WaitlistService
	EmailService domain.EmailService
	Links        *domain.LinkBuilder
}

func NewBatchController(logger *slog.Logger, waitlist domain.WaitlistService, emailService domain.EmailService, links *domain.LinkBuilder) *BatchController {
	return &BatchController{
		Logger:       logger,
		Waitlist:     waitlist,
		EmailService: emailService,
		Links:        links,
	}
}

// BatchRequest is the optional request body for the batch endpoints. An empty
// body or empty event_ids processes all candidate events.
type BatchRequest struct {
	EventIDs []string `json:"event_ids"`
}

// BatchOutcomeResponse is the success envelope for the batch endpoints.
type BatchOutcomeResponse struct {
	Data  *domain.BatchOutcome `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

func decodeBatchRequest(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable body")
		return nil, false
	}
	if len(body) == 0 {
		return nil, true
	}
	var req BatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return nil, false
	}
	return req.EventIDs, true
}

// PromoteApplicants godoc
// @Summary Promote waitlisted applicants into freed seats
// @Description Scans upcoming events for open seats and offers them to the oldest waitlisted applicants. Each promoted applicant gets a confirmation deadline and a promotion offer email. Safe to re-run.
// @Tags batch
// @Accept json
// @Produce json
// @Param body body controllers.BatchRequest false "Optional event filter"
// @Success 200 {object} controllers.BatchOutcomeResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /batch/applicants-to-participants [post]
func (c *BatchController) PromoteApplicants(w http.ResponseWriter, r *http.Request) {
	eventIDs, ok := decodeBatchRequest(w, r)
	if !ok {
		return
	}

	outcome, err := c.Waitlist.PromoteApplicants(r.Context(), eventIDs)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "promotion batch failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	for _, rec := range outcome.Result {
		data := &domain.PromotionOfferEmailData{
			Name:        rec.User.Name,
			Email:       rec.User.Email,
			EventName:   rec.Event.Name,
			Description: rec.Event.Description,
			Place:       rec.Event.Place,
			StartTime:   formatEmailTime(&rec.Event.StartTime),
			EndTime:     formatEmailTime(&rec.Event.EndTime),
			ConfirmURL:  c.Links.ConfirmParticipatingURL(rec.Applicant.ID),
			CancelURL:   c.Links.AppliedCancelURL(rec.Applicant.CancelToken),
			Deadline:    formatEmailTime(rec.Applicant.Deadline),
		}
		if err := c.EmailService.SendPromotionOffer(r.Context(), data); err != nil {
			c.Logger.WarnContext(r.Context(), "promotion offer email failed",
				"applicant", rec.Applicant.ID, "email", rec.User.Email, "err", err)
		}
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, outcome)
}

// CancelOverDeadline godoc
// @Summary Cancel applicants whose confirmation deadline elapsed
// @Description Cancels promotion offers that were not confirmed in time and notifies the affected applicants. Safe to re-run.
// @Tags batch
// @Accept json
// @Produce json
// @Param body body controllers.BatchRequest false "Optional event filter"
// @Success 200 {object} controllers.BatchOutcomeResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /batch/cancel-over-deadline [post]
func (c *BatchController) CancelOverDeadline(w http.ResponseWriter, r *http.Request) {
	eventIDs, ok := decodeBatchRequest(w, r)
	if !ok {
		return
	}

	outcome, err := c.Waitlist.CancelOverDeadline(r.Context(), eventIDs)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "expiry batch failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	for _, rec := range outcome.Result {
		data := &domain.DeadlineExpiredEmailData{
			Name:        rec.User.Name,
			Email:       rec.User.Email,
			EventName:   rec.Event.Name,
			Description: rec.Event.Description,
			Place:       rec.Event.Place,
			StartTime:   formatEmailTime(&rec.Event.StartTime),
			EndTime:     formatEmailTime(&rec.Event.EndTime),
			Deadline:    formatEmailTime(rec.Applicant.Deadline),
			CanceledAt:  formatEmailTime(rec.Applicant.CanceledAt),
		}
		if err := c.EmailService.SendDeadlineExpired(r.Context(), data); err != nil {
			c.Logger.WarnContext(r.Context(), "expiry notification email failed",
				"applicant", rec.Applicant.ID, "email", rec.User.Email, "err", err)
		}
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, outcome)
}

func formatEmailTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
