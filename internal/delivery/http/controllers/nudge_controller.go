package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"
)

// NudgeRequest is the request body for POST /events/{slug}/nudge-speakers.
type NudgeRequest struct {
	OnlyWithoutAttachments bool `json:"only_without_attachments"`
}

// NudgeNoopResponse is returned when the schedule yields no speakers to
// remind, so the caller can tell "nothing to do" apart from "all sends
// failed".
type NudgeNoopResponse struct {
	Message    string   `json:"message"`
	Sent       int      `json:"sent"`
	Failed     int      `json:"failed"`
	SpeakerIDs []string `json:"speaker_ids"`
}

type NudgeController struct {
	Logger  *slog.Logger
	Service domain.NudgeService
}

func NewNudgeController(logger *slog.Logger, svc domain.NudgeService) *NudgeController {
	return &NudgeController{
		Logger:  logger,
		Service: svc,
	}
}

// NudgeSpeakers godoc
// @Summary Send speaker reminders
// @Description Sends one Slack direct message per unique speaker on the event's schedule, listing all their talks. With only_without_attachments set, speakers whose every talk already has attachments are skipped. Requires authentication.
// @Tags nudge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Param body body NudgeRequest true "Dispatch options"
// @Success 200 {object} helpers.APIResponse "data contains sent/failed counts and speaker IDs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (sends blocked outside production)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/nudge-speakers [post]
func (c *NudgeController) NudgeSpeakers(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	var req NudgeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.SendSpeakerNudges(r.Context(), slug, req.OnlyWithoutAttachments)
	if err != nil {
		if errors.Is(err, domain.ErrSendBlocked) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to send nudge")
		return
	}
	if result.Sent == 0 && result.Failed == 0 {
		helpers.WriteJSONSuccess(w, http.StatusOK, NudgeNoopResponse{
			Message:    "No speakers to nudge",
			SpeakerIDs: []string{},
		})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
