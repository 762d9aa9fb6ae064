package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventsquare/internal/delivery/http/helpers"
	"eventsquare/internal/delivery/http/middleware"
	"eventsquare/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// EventRequest is the request body for creating or updating an event.
type EventRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Place           string     `json:"place"`
	Hidden          bool       `json:"hidden"`
	PublishedAt     *time.Time `json:"published_at"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	AttendanceLimit int        `json:"attendance_limit"`
}

func (req *EventRequest) toInput() *domain.EventInput {
	return &domain.EventInput{
		Name:            req.Name,
		Description:     req.Description,
		Place:           req.Place,
		Hidden:          req.Hidden,
		PublishedAt:     req.PublishedAt,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AttendanceLimit: req.AttendanceLimit,
	}
}

// EventListResponse is the paginated dashboard event list payload.
type EventListResponse struct {
	Events []*domain.EventWithCounts `json:"events"`
	Page   domain.PageInfo           `json:"page"`
}

// ListPublicEvents godoc
// @Summary List events open to visitors
// @Description Published, non-hidden events that have not ended, with remaining seat figures.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data: []EventWithCounts"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListPublicEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListPublicEvents(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetPublicEvent godoc
// @Summary Get one public event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data: EventWithCounts"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetPublicEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events for the organizer dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param hidden query bool false "Filter by hidden flag"
// @Success 200 {object} helpers.APIResponse "data: EventListResponse"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /dashboard/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	var hidden *bool
	if s := r.URL.Query().Get("hidden"); s == "true" || s == "false" {
		v := s == "true"
		hidden = &v
	}

	events, page, err := c.Service.ListEvents(r.Context(), hidden, helpers.ParsePagination(r))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{Events: events, Page: page})
}

// GetEvent godoc
// @Summary Get one event with its rosters
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data: EventDetail"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /dashboard/events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := c.Service.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// CreateEvent godoc
// @Summary Create an event
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.EventRequest true "Event details"
// @Success 201 {object} helpers.APIResponse "data: Event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /dashboard/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.CreateEvent(r.Context(), userID, req.toInput())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.EventRequest true "Event details"
// @Success 200 {object} helpers.APIResponse "data: Event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /dashboard/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.UpdateEvent(r.Context(), r.PathValue("eventID"), req.toInput())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
