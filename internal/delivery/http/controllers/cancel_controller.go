package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventsquare/internal/delivery/http/helpers"
	"eventsquare/internal/domain"
)

// CancelController serves the self-service cancel and confirm endpoints
// reached from notification emails. Lookups use opaque bearer tokens, not
// authenticated sessions.
type CancelController struct {
	Logger  *slog.Logger
	Service domain.ConfirmationService
}

func NewCancelController(logger *slog.Logger, svc domain.ConfirmationService) *CancelController {
	return &CancelController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *CancelController) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// CancelResultResponse is the success envelope for the cancel and confirm endpoints.
type CancelResultResponse struct {
	Data  *domain.EventSummary `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CancelableApplicant godoc
// @Summary Check whether a waitlist entry can be cancelled
// @Tags cancellations
// @Produce json
// @Param cancelToken path string true "Cancel token"
// @Success 200 {object} helpers.APIResponse "data: CancelableStatus"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/applied/{cancelToken} [get]
func (c *CancelController) CancelableApplicant(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("cancelToken")
	status, err := c.Service.CancelableApplicant(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err, "registration not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}

// CancelApplicant godoc
// @Summary Cancel a waitlist entry
// @Description Cancels the waitlisted registration behind the token. Repeating the call is a no-op.
// @Tags cancellations
// @Produce json
// @Param cancelToken path string true "Cancel token"
// @Success 200 {object} controllers.CancelResultResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/applied/{cancelToken} [delete]
func (c *CancelController) CancelApplicant(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("cancelToken")
	event, err := c.Service.CancelApplicant(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err, "registration not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CancelableParticipant godoc
// @Summary Check whether a seat can be cancelled
// @Tags cancellations
// @Produce json
// @Param cancelToken path string true "Cancel token"
// @Success 200 {object} helpers.APIResponse "data: CancelableStatus"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/participating/{cancelToken} [get]
func (c *CancelController) CancelableParticipant(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("cancelToken")
	status, err := c.Service.CancelableParticipant(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err, "registration not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}

// CancelParticipant godoc
// @Summary Cancel a held seat
// @Description Cancels the participant registration behind the token, freeing the seat for the next promotion run. Repeating the call is a no-op.
// @Tags cancellations
// @Produce json
// @Param cancelToken path string true "Cancel token"
// @Success 200 {object} controllers.CancelResultResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/participating/{cancelToken} [delete]
func (c *CancelController) CancelParticipant(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("cancelToken")
	event, err := c.Service.CancelParticipant(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err, "registration not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ConfirmableParticipation godoc
// @Summary Check whether a promotion offer can still be confirmed
// @Tags confirmations
// @Produce json
// @Param applicantID path string true "Applicant ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data: ConfirmableStatus"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /applicants/{applicantID}/confirmation [get]
func (c *CancelController) ConfirmableParticipation(w http.ResponseWriter, r *http.Request) {
	applicantID := r.PathValue("applicantID")
	status, err := c.Service.ConfirmableParticipation(r.Context(), applicantID)
	if err != nil {
		c.writeError(w, r, err, "applicant not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}

// ConfirmParticipation godoc
// @Summary Confirm a promotion offer
// @Description Converts the promoted applicant into a participant.
// @Tags confirmations
// @Produce json
// @Param applicantID path string true "Applicant ID (UUID)"
// @Success 201 {object} controllers.CancelResultResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /applicants/{applicantID}/confirmation [post]
func (c *CancelController) ConfirmParticipation(w http.ResponseWriter, r *http.Request) {
	applicantID := r.PathValue("applicantID")
	event, err := c.Service.ConfirmParticipation(r.Context(), applicantID)
	if err != nil {
		c.writeError(w, r, err, "applicant not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}
