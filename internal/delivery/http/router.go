package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventsquare/internal/delivery/http/controllers"
	"eventsquare/internal/delivery/http/middleware"
	"eventsquare/internal/domain"
)

// RouterConfig bundles the controllers and cross-cutting dependencies the
// router wires together.
type RouterConfig struct {
	Logger          *slog.Logger
	TokenVerifier   domain.TokenVerifier
	BatchSigningKey string
	AllowedOrigins  []string

	Registration *controllers.RegistrationController
	Cancel       *controllers.CancelController
	Batch        *controllers.BatchController
	Events       *controllers.EventController
	Auth         *controllers.AuthController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.TokenVerifier, cfg.Logger)
	requireSignature := middleware.RequireSignature(cfg.BatchSigningKey)

	// Public
	mux.HandleFunc("GET /events", cfg.Events.ListPublicEvents)
	mux.HandleFunc("GET /events/{eventID}", cfg.Events.GetPublicEvent)
	mux.HandleFunc("POST /events/{eventID}/registrations", cfg.Registration.Register)

	// Self-service cancel/confirm, reached from notification emails
	mux.HandleFunc("GET /registrations/applied/{cancelToken}", cfg.Cancel.CancelableApplicant)
	mux.HandleFunc("DELETE /registrations/applied/{cancelToken}", cfg.Cancel.CancelApplicant)
	mux.HandleFunc("GET /registrations/participating/{cancelToken}", cfg.Cancel.CancelableParticipant)
	mux.HandleFunc("DELETE /registrations/participating/{cancelToken}", cfg.Cancel.CancelParticipant)
	mux.HandleFunc("GET /applicants/{applicantID}/confirmation", cfg.Cancel.ConfirmableParticipation)
	mux.HandleFunc("POST /applicants/{applicantID}/confirmation", cfg.Cancel.ConfirmParticipation)

	// Scheduler-triggered batch runs
	mux.HandleFunc("POST /batch/applicants-to-participants", requireSignature(cfg.Batch.PromoteApplicants))
	mux.HandleFunc("POST /batch/cancel-over-deadline", requireSignature(cfg.Batch.CancelOverDeadline))

	// Auth
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Organizer dashboard
	mux.HandleFunc("GET /dashboard/events", requireAuth(cfg.Events.ListEvents))
	mux.HandleFunc("POST /dashboard/events", requireAuth(cfg.Events.CreateEvent))
	mux.HandleFunc("GET /dashboard/events/{eventID}", requireAuth(cfg.Events.GetEvent))
	mux.HandleFunc("PUT /dashboard/events/{eventID}", requireAuth(cfg.Events.UpdateEvent))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
