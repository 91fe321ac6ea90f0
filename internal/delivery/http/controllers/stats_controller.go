package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"
	"communityevents/internal/services"
)

type StatsController struct {
	Logger        *slog.Logger
	Registrations domain.RegistrationService
	Feedback      domain.FeedbackService
	Content       domain.EventProvider
}

func NewStatsController(logger *slog.Logger, regs domain.RegistrationService, feedback domain.FeedbackService, content domain.EventProvider) *StatsController {
	return &StatsController{
		Logger:        logger,
		Registrations: regs,
		Feedback:      feedback,
		Content:       content,
	}
}

// GetEventStats godoc
// @Summary Get resolved event stats
// @Description Returns the event's registration and feedback stats. Live data wins per section; when a section has no live data the legacy snapshot on the event record is used instead. The two sections switch independently.
// @Tags stats
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse "data contains the resolved stats"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/stats [get]
func (c *StatsController) GetEventStats(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}

	// A missing event record only removes the legacy fallback; live data
	// still resolves.
	event, err := c.Content.GetEvent(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.Logger.WarnContext(r.Context(), "event lookup failed, resolving stats without legacy data", "slug", slug, "err", err)
		}
		event = nil
	}

	regs, err := c.Registrations.ListEventRegistrations(r.Context(), slug, "")
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to resolve stats")
		return
	}

	feedback, err := c.Feedback.GetSummary(r.Context(), slug)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to resolve stats")
		return
	}

	stats := services.ResolveEventStats(event, regs, feedback)
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// GetOrganizationBreakdown godoc
// @Summary Get organization breakdown
// @Description Returns per-organization counts of active registrations for the event, largest first.
// @Tags stats
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse "data is an array of organization counts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/organizations [get]
func (c *StatsController) GetOrganizationBreakdown(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	breakdown, err := c.Registrations.GetOrganizationBreakdown(r.Context(), slug)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to get organization breakdown")
		return
	}
	if breakdown == nil {
		breakdown = []domain.OrganizationCount{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, breakdown)
}
