package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"
)

// SubmitFeedbackRequest is the request body for POST /events/{slug}/feedback.
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type FeedbackController struct {
	Logger  *slog.Logger
	Service domain.FeedbackService
}

func NewFeedbackController(logger *slog.Logger, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{
		Logger:  logger,
		Service: svc,
	}
}

// Submit godoc
// @Summary Submit event feedback
// @Description Submit an anonymous rating (1-5) with an optional comment for an event.
// @Tags feedback
// @Accept json
// @Produce json
// @Param slug path string true "Event slug"
// @Param body body SubmitFeedbackRequest true "Rating and optional comment"
// @Success 201 {object} helpers.APIResponse "data contains the stored feedback"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/feedback [post]
func (c *FeedbackController) Submit(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	var req SubmitFeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	fb, err := c.Service.SubmitFeedback(r.Context(), slug, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to submit feedback")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, fb)
}
