package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communityevents/internal/delivery/http/controllers"
	"communityevents/internal/delivery/http/middleware"
	"communityevents/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes. Admin
// routes are wrapped with RequireAuth.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	registrationController *controllers.RegistrationController,
	statsController *controllers.StatsController,
	feedbackController *controllers.FeedbackController,
	nudgeController *controllers.NudgeController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Public
	mux.HandleFunc("POST /events/{slug}/registrations", registrationController.Register)
	mux.HandleFunc("GET /events/{slug}/registrations/{slackUserID}", registrationController.IsRegistered)
	mux.HandleFunc("GET /events/{slug}/stats", statsController.GetEventStats)
	mux.HandleFunc("GET /events/{slug}/organizations", statsController.GetOrganizationBreakdown)
	mux.HandleFunc("POST /events/{slug}/feedback", feedbackController.Submit)

	// Admin
	mux.HandleFunc("GET /events/{slug}/registrations", requireAuth(registrationController.ListByEvent))
	mux.HandleFunc("PATCH /registrations/{id}/status", requireAuth(registrationController.UpdateStatus))
	mux.HandleFunc("POST /registrations/bulk-status", requireAuth(registrationController.BulkUpdateStatus))
	mux.HandleFunc("DELETE /registrations/{id}", requireAuth(registrationController.Delete))
	mux.HandleFunc("GET /registrations/by-event", requireAuth(registrationController.ListGroupedByEvent))
	mux.HandleFunc("POST /users/{slackUserID}/anonymize", requireAuth(registrationController.Anonymize))
	mux.HandleFunc("POST /events/{slug}/nudge-speakers", requireAuth(nudgeController.NudgeSpeakers))

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
