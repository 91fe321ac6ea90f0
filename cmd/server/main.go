// Package main runs the community events backend HTTP server.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"communityevents/config"
	_ "communityevents/docs"
	"communityevents/internal/adapters/auth"
	"communityevents/internal/adapters/cms"
	"communityevents/internal/adapters/email"
	"communityevents/internal/adapters/slack"
	httpdelivery "communityevents/internal/delivery/http"
	"communityevents/internal/delivery/http/controllers"
	"communityevents/internal/delivery/http/middleware"
	"communityevents/internal/repository/postgres"
	"communityevents/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Community Events API
// @version 1.0
// @description Registration, stats, feedback, and speaker notification backend for community events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	registrationRepo := postgres.NewRegistrationRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	// Adapters
	content := cms.NewHTTPClient(nil, cfg.CMSBaseURL, cfg.CMSToken)
	messenger := slack.NewMessenger(cfg.SlackBotToken)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	issuer, verifier := auth.NewJWTTokens(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	registrationService := services.NewRegistrationService(registrationRepo, emailService, logger, serviceTimeout)
	feedbackService := services.NewFeedbackService(feedbackRepo, serviceTimeout)
	nudgeService := services.NewNudgeService(content, messenger, services.NudgeConfig{
		Environment:   cfg.Environment,
		PublicBaseURL: cfg.PublicBaseURL,
		Organizers:    cfg.Organizers,
	}, logger, serviceTimeout)
	authService := services.NewAuthService(services.AdminCredentials{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
	}, hasher, issuer, 24*time.Hour)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	registrationController := controllers.NewRegistrationController(logger, registrationService, content)
	statsController := controllers.NewStatsController(logger, registrationService, feedbackService, content)
	feedbackController := controllers.NewFeedbackController(logger, feedbackService)
	nudgeController := controllers.NewNudgeController(logger, nudgeService)

	mux := httpdelivery.NewRouter(
		logger,
		verifier,
		authController,
		registrationController,
		statsController,
		feedbackController,
		nudgeController,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}
