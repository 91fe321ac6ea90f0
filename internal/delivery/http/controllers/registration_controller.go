package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"
)

// RegisterRequest is the request body for POST /events/{slug}/registrations.
// The event slug comes from the path, not the body.
type RegisterRequest struct {
	SlackUserID          string                `json:"slack_user_id"`
	Name                 string                `json:"name"`
	Email                string                `json:"email"`
	Organisation         string                `json:"organisation"`
	AttendanceType       domain.AttendanceType `json:"attendance_type"`
	AttendingSocialEvent *bool                 `json:"attending_social_event"`
	Dietary              string                `json:"dietary"`
	Comments             string                `json:"comments"`
}

// UpdateStatusRequest is the request body for PATCH /registrations/{id}/status.
type UpdateStatusRequest struct {
	Status domain.RegistrationStatus `json:"status"`
}

// Validate implements Validator.
func (u UpdateStatusRequest) Validate() []string {
	if u.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

// BulkStatusRequest is the request body for POST /registrations/bulk-status.
type BulkStatusRequest struct {
	IDs    []string                  `json:"ids"`
	Status domain.RegistrationStatus `json:"status"`
}

// Validate implements Validator.
func (b BulkStatusRequest) Validate() []string {
	var errs []string
	if len(b.IDs) == 0 {
		errs = append(errs, "ids is required")
	}
	if b.Status == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// IsRegisteredResponse is the data payload for GET /events/{slug}/registrations/{slackUserID}.
type IsRegisteredResponse struct {
	Registered bool `json:"registered"`
}

// AnonymizeResponse is the data payload for POST /users/{slackUserID}/anonymize.
type AnonymizeResponse struct {
	Anonymized int `json:"anonymized"`
}

// DeleteRegistrationResponse is the data payload for DELETE /registrations/{id}.
type DeleteRegistrationResponse struct {
	Status string `json:"status"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
	Content domain.EventProvider
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService, content domain.EventProvider) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
		Content: content,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Register a Slack user for an event. Physical registrations beyond the event's max capacity are waitlisted; digital ones are always confirmed. Re-registering after a cancellation re-activates the existing registration.
// @Tags registrations
// @Accept json
// @Produce json
// @Param slug path string true "Event slug"
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	input := domain.RegistrationInput{
		EventSlug:            slug,
		SlackUserID:          req.SlackUserID,
		Name:                 req.Name,
		Email:                req.Email,
		Organisation:         req.Organisation,
		AttendanceType:       req.AttendanceType,
		AttendingSocialEvent: req.AttendingSocialEvent,
		Dietary:              req.Dietary,
		Comments:             req.Comments,
	}

	// Capacity comes from the CMS event record. A missing or unreachable
	// record disables capacity enforcement rather than blocking signups.
	event, err := c.Content.GetEvent(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.Logger.WarnContext(r.Context(), "event lookup failed, registering without capacity check", "slug", slug, "err", err)
		}
		event = nil
	}

	reg, err := c.Service.RegisterForEvent(r.Context(), input, event)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to register")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListByEvent godoc
// @Summary List registrations for an event
// @Description Returns registrations for the event, oldest first. Optional status query param filters by lifecycle state. Requires authentication.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Param status query string false "Filter by status (confirmed, waitlist, cancelled, attended, no-show)"
// @Success 200 {object} helpers.APIResponse "data is an array of registrations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/registrations [get]
func (c *RegistrationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	status := domain.RegistrationStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Invalid status")
		return
	}
	regs, err := c.Service.ListEventRegistrations(r.Context(), slug, status)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to list registrations")
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// IsRegistered godoc
// @Summary Check whether a user is registered
// @Description Returns whether the Slack user has a non-cancelled registration for the event.
// @Tags registrations
// @Produce json
// @Param slug path string true "Event slug"
// @Param slackUserID path string true "Slack user ID"
// @Success 200 {object} helpers.APIResponse "data contains registered flag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/registrations/{slackUserID} [get]
func (c *RegistrationController) IsRegistered(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	slackUserID := r.PathValue("slackUserID")
	if slug == "" || slackUserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug or slackUserID")
		return
	}
	registered, err := c.Service.IsUserRegistered(r.Context(), slug, slackUserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to check registration")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, IsRegisteredResponse{Registered: registered})
}

// UpdateStatus godoc
// @Summary Update registration status
// @Description Moves a registration to the given lifecycle state. Confirming a waitlisted registration also sends the promotion email. Requires authentication.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{id}/status [patch]
func (c *RegistrationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req UpdateStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	var reg *domain.Registration
	var err error
	switch req.Status {
	case domain.StatusConfirmed:
		reg, err = c.Service.ConfirmFromWaitlist(r.Context(), id)
	case domain.StatusAttended:
		reg, err = c.Service.MarkAsAttended(r.Context(), id)
	case domain.StatusNoShow:
		reg, err = c.Service.MarkAsNoShow(r.Context(), id)
	case domain.StatusCancelled:
		reg, err = c.Service.CancelRegistration(r.Context(), id)
	default:
		reg, err = c.Service.UpdateRegistrationStatus(r.Context(), id, req.Status)
	}
	if err != nil {
		c.writeUpdateError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

func (c *RegistrationController) writeUpdateError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to update registration")
}

// BulkUpdateStatus godoc
// @Summary Bulk update registration statuses
// @Description Applies the given status to every listed registration. Items are processed independently; the response lists updated IDs and per-item failures. Requires authentication.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkStatusRequest true "Registration IDs and target status"
// @Success 200 {object} helpers.APIResponse "data contains updated and failed lists"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/bulk-status [post]
func (c *RegistrationController) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req BulkStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.BulkUpdateStatus(r.Context(), req.IDs, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to update registrations")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a registration
// @Description Permanently removes a registration. Requires authentication.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{id} [delete]
func (c *RegistrationController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.DeleteRegistration(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to delete registration")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteRegistrationResponse{Status: "deleted"})
}

// ListGroupedByEvent godoc
// @Summary List all registrations grouped by event
// @Description Returns every registration, grouped by event slug. Requires authentication.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data maps event slug to registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/by-event [get]
func (c *RegistrationController) ListGroupedByEvent(w http.ResponseWriter, r *http.Request) {
	grouped, err := c.Service.GetRegistrationsByEvent(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to list registrations")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, grouped)
}

// Anonymize godoc
// @Summary Anonymize a user's registrations
// @Description Scrubs personal data from every registration the Slack user has, across all events. Safe to call repeatedly. Requires authentication.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param slackUserID path string true "Slack user ID"
// @Success 200 {object} helpers.APIResponse "data contains the number of registrations scrubbed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{slackUserID}/anonymize [post]
func (c *RegistrationController) Anonymize(w http.ResponseWriter, r *http.Request) {
	slackUserID := r.PathValue("slackUserID")
	if slackUserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slackUserID")
		return
	}
	count, err := c.Service.AnonymizeUserData(r.Context(), slackUserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to anonymize user data")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnonymizeResponse{Anonymized: count})
}
