// cmd/api is the application entry point. It wires the adapters, services,
// and controllers together and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventsquare/config"
	_ "eventsquare/docs"
	authadapter "eventsquare/internal/adapters/auth"
	emailadapter "eventsquare/internal/adapters/email"
	httpdelivery "eventsquare/internal/delivery/http"
	"eventsquare/internal/delivery/http/controllers"
	"eventsquare/internal/domain"
	"eventsquare/internal/repository/postgres"
	"eventsquare/internal/services"
)

// @title EventSquare API
// @version 1.0
// @description Event registration with waitlist promotion and confirmation deadlines.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	store := postgres.NewStore(db)
	links := domain.NewLinkBuilder(cfg.BaseURL)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("mailer setup failed", "err", err)
		os.Exit(1)
	}
	renderer := emailadapter.NewTemplateRenderer()
	emailService := services.NewEmailService(mailer, renderer)

	hasher := authadapter.NewBcryptHasher(10)
	issuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	registrationService := services.NewRegistrationService(store, emailService, links, cfg.StudentEmailDomain, logger)
	waitlistService := services.NewWaitlistService(store, logger)
	confirmationService := services.NewConfirmationService(store)
	eventService := services.NewEventService(store)
	authService := services.NewAuthService(store.Repos().Users, hasher, issuer, cfg.JWTExpiry)

	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:          logger,
		TokenVerifier:   verifier,
		BatchSigningKey: cfg.BatchSigningKey,
		AllowedOrigins:  cfg.AllowedOrigins,
		Registration:    controllers.NewRegistrationController(logger, registrationService),
		Cancel:          controllers.NewCancelController(logger, confirmationService),
		Batch:           controllers.NewBatchController(logger, waitlistService, emailService, links),
		Events:          controllers.NewEventController(logger, eventService),
		Auth:            controllers.NewAuthController(logger, authService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
