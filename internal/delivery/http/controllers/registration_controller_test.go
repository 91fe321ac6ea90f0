package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on
// log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeRegistrationService implements domain.RegistrationService for handler
// tests. Only the fields a test sets are consulted.
type fakeRegistrationService struct {
	registerResult *domain.Registration
	registerErr    error
	lastInput      domain.RegistrationInput
	lastEvent      *domain.Event

	listResult []*domain.Registration
	listErr    error

	updateResult *domain.Registration
	updateErr    error
	lastUpdateID string
	lastStatus   domain.RegistrationStatus
	lastMethod   string

	bulkResult *domain.BulkUpdateResult
	bulkErr    error

	deleteErr error

	anonymizeCount int
	anonymizeErr   error

	isRegistered    bool
	isRegisteredErr error

	groupedResult map[string][]*domain.Registration
	groupedErr    error

	breakdownResult []domain.OrganizationCount
	breakdownErr    error
}

func (f *fakeRegistrationService) RegisterForEvent(ctx context.Context, input domain.RegistrationInput, event *domain.Event) (*domain.Registration, error) {
	f.lastInput = input
	f.lastEvent = event
	return f.registerResult, f.registerErr
}

func (f *fakeRegistrationService) GetRegistration(ctx context.Context, id string) (*domain.Registration, error) {
	return f.updateResult, f.updateErr
}

func (f *fakeRegistrationService) ListEventRegistrations(ctx context.Context, eventSlug string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	f.lastStatus = status
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) UpdateRegistrationStatus(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	f.lastMethod, f.lastUpdateID, f.lastStatus = "update", id, status
	return f.updateResult, f.updateErr
}

func (f *fakeRegistrationService) ConfirmFromWaitlist(ctx context.Context, id string) (*domain.Registration, error) {
	f.lastMethod, f.lastUpdateID = "confirm", id
	return f.updateResult, f.updateErr
}

func (f *fakeRegistrationService) MarkAsAttended(ctx context.Context, id string) (*domain.Registration, error) {
	f.lastMethod, f.lastUpdateID = "attended", id
	return f.updateResult, f.updateErr
}

func (f *fakeRegistrationService) MarkAsNoShow(ctx context.Context, id string) (*domain.Registration, error) {
	f.lastMethod, f.lastUpdateID = "no-show", id
	return f.updateResult, f.updateErr
}

func (f *fakeRegistrationService) CancelRegistration(ctx context.Context, id string) (*domain.Registration, error) {
	f.lastMethod, f.lastUpdateID = "cancel", id
	return f.updateResult, f.updateErr
}

func (f *fakeRegistrationService) BulkUpdateStatus(ctx context.Context, ids []string, status domain.RegistrationStatus) (*domain.BulkUpdateResult, error) {
	f.lastStatus = status
	return f.bulkResult, f.bulkErr
}

func (f *fakeRegistrationService) DeleteRegistration(ctx context.Context, id string) error {
	f.lastUpdateID = id
	return f.deleteErr
}

func (f *fakeRegistrationService) AnonymizeUserData(ctx context.Context, slackUserID string) (int, error) {
	return f.anonymizeCount, f.anonymizeErr
}

func (f *fakeRegistrationService) GetEventRegistrationStats(ctx context.Context, eventSlug string) (domain.RegistrationBreakdown, error) {
	return domain.RegistrationBreakdown{}, nil
}

func (f *fakeRegistrationService) GetActiveRegistrationCount(ctx context.Context, eventSlug string) (int, error) {
	return 0, nil
}

func (f *fakeRegistrationService) GetRegistrationCountsByCategory(ctx context.Context, eventSlug string) (domain.CategoryCounts, error) {
	return domain.CategoryCounts{}, nil
}

func (f *fakeRegistrationService) GetOrganizationBreakdown(ctx context.Context, eventSlug string) ([]domain.OrganizationCount, error) {
	return f.breakdownResult, f.breakdownErr
}

func (f *fakeRegistrationService) IsUserRegistered(ctx context.Context, eventSlug, slackUserID string) (bool, error) {
	return f.isRegistered, f.isRegisteredErr
}

func (f *fakeRegistrationService) GetRegistrationsByEvent(ctx context.Context) (map[string][]*domain.Registration, error) {
	return f.groupedResult, f.groupedErr
}

// fakeEventProvider implements domain.EventProvider for handler tests.
type fakeEventProvider struct {
	event    *domain.Event
	eventErr error
}

func (f *fakeEventProvider) GetEvent(ctx context.Context, slug string) (*domain.Event, error) {
	return f.event, f.eventErr
}

func (f *fakeEventProvider) GetEventSchedule(ctx context.Context, slug string) ([]domain.ScheduleItem, error) {
	return nil, nil
}

func (f *fakeEventProvider) GetAllEventAttachments(ctx context.Context, slug string) (map[string][]domain.Attachment, error) {
	return nil, nil
}

func newRegistrationRig(svc *fakeRegistrationService, provider *fakeEventProvider) *RegistrationController {
	if provider == nil {
		provider = &fakeEventProvider{eventErr: domain.ErrNotFound}
	}
	return NewRegistrationController(testLogger, svc, provider)
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

func TestRegister_Success(t *testing.T) {
	svc := &fakeRegistrationService{
		registerResult: &domain.Registration{ID: "reg-1", EventSlug: "fagdag-2025", Status: domain.StatusConfirmed},
	}
	provider := &fakeEventProvider{event: &domain.Event{Slug: "fagdag-2025", Title: "Fagdag"}}
	c := newRegistrationRig(svc, provider)

	rr := doJSON(t, c.Register, http.MethodPost, "/events/fagdag-2025/registrations", map[string]any{
		"slack_user_id":   "U100",
		"name":            "Kari Nordmann",
		"email":           "kari@example.com",
		"organisation":    "Org A",
		"attendance_type": "physical",
	}, map[string]string{"slug": "fagdag-2025"})

	require.Equal(t, http.StatusCreated, rr.Code)
	envelope := decodeEnvelope(t, rr)
	assert.Nil(t, envelope.Error)
	assert.Equal(t, "fagdag-2025", svc.lastInput.EventSlug)
	require.NotNil(t, svc.lastEvent)
	assert.Equal(t, "Fagdag", svc.lastEvent.Title)
}

func TestRegister_EventLookupFailureDisablesCapacity(t *testing.T) {
	svc := &fakeRegistrationService{
		registerResult: &domain.Registration{ID: "reg-1"},
	}
	c := newRegistrationRig(svc, &fakeEventProvider{eventErr: domain.ErrNotFound})

	rr := doJSON(t, c.Register, http.MethodPost, "/events/unknown/registrations", map[string]any{
		"slack_user_id":   "U100",
		"name":            "Kari",
		"email":           "kari@example.com",
		"organisation":    "Org A",
		"attendance_type": "physical",
	}, map[string]string{"slug": "unknown"})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Nil(t, svc.lastEvent)
}

func TestRegister_ValidationError(t *testing.T) {
	svc := &fakeRegistrationService{
		registerErr: domain.NewValidationError("Name is required"),
	}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.Register, http.MethodPost, "/events/fagdag-2025/registrations", map[string]any{
		"slack_user_id":   "U100",
		"email":           "kari@example.com",
		"organisation":    "Org A",
		"attendance_type": "physical",
	}, map[string]string{"slug": "fagdag-2025"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
	assert.Equal(t, "Name is required", envelope.Error.Message)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &fakeRegistrationService{registerErr: domain.ErrAlreadyRegistered}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.Register, http.MethodPost, "/events/fagdag-2025/registrations", map[string]any{
		"slack_user_id":   "U100",
		"name":            "Kari",
		"email":           "kari@example.com",
		"organisation":    "Org A",
		"attendance_type": "physical",
	}, map[string]string{"slug": "fagdag-2025"})

	require.Equal(t, http.StatusConflict, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeConflict, envelope.Error.Code)
	assert.Equal(t, "User is already registered for this event", envelope.Error.Message)
}

func TestRegister_UnknownFieldRejected(t *testing.T) {
	svc := &fakeRegistrationService{}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.Register, http.MethodPost, "/events/fagdag-2025/registrations", map[string]any{
		"bogus": true,
	}, map[string]string{"slug": "fagdag-2025"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateStatus_RoutesToLifecycleMethods(t *testing.T) {
	tests := []struct {
		status     domain.RegistrationStatus
		wantMethod string
	}{
		{domain.StatusConfirmed, "confirm"},
		{domain.StatusAttended, "attended"},
		{domain.StatusNoShow, "no-show"},
		{domain.StatusCancelled, "cancel"},
		{domain.StatusWaitlist, "update"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc := &fakeRegistrationService{
				updateResult: &domain.Registration{ID: "reg-1", Status: tt.status},
			}
			c := newRegistrationRig(svc, nil)

			rr := doJSON(t, c.UpdateStatus, http.MethodPatch, "/registrations/reg-1/status",
				map[string]any{"status": tt.status}, map[string]string{"id": "reg-1"})

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantMethod, svc.lastMethod)
			assert.Equal(t, "reg-1", svc.lastUpdateID)
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := &fakeRegistrationService{updateErr: domain.ErrNotFound}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.UpdateStatus, http.MethodPatch, "/registrations/reg-404/status",
		map[string]any{"status": "attended"}, map[string]string{"id": "reg-404"})

	require.Equal(t, http.StatusNotFound, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := &fakeRegistrationService{updateErr: domain.NewValidationError("Invalid status")}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.UpdateStatus, http.MethodPatch, "/registrations/reg-1/status",
		map[string]any{"status": "bogus"}, map[string]string{"id": "reg-1"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "Invalid status", envelope.Error.Message)
}

func TestBulkUpdateStatus(t *testing.T) {
	svc := &fakeRegistrationService{
		bulkResult: &domain.BulkUpdateResult{
			Updated: []string{"reg-1"},
			Failed:  []domain.BulkUpdateFailure{{ID: "reg-2", Error: "not found"}},
		},
	}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.BulkUpdateStatus, http.MethodPost, "/registrations/bulk-status",
		map[string]any{"ids": []string{"reg-1", "reg-2"}, "status": "attended"}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	assert.Nil(t, envelope.Error)

	rr = doJSON(t, c.BulkUpdateStatus, http.MethodPost, "/registrations/bulk-status",
		map[string]any{"ids": []string{}, "status": "attended"}, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDelete(t *testing.T) {
	svc := &fakeRegistrationService{}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.Delete, http.MethodDelete, "/registrations/reg-1", nil,
		map[string]string{"id": "reg-1"})
	require.Equal(t, http.StatusOK, rr.Code)

	svc.deleteErr = domain.ErrNotFound
	rr = doJSON(t, c.Delete, http.MethodDelete, "/registrations/reg-404", nil,
		map[string]string{"id": "reg-404"})
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestIsRegistered(t *testing.T) {
	svc := &fakeRegistrationService{isRegistered: true}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.IsRegistered, http.MethodGet, "/events/fagdag-2025/registrations/U100", nil,
		map[string]string{"slug": "fagdag-2025", "slackUserID": "U100"})

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["registered"])
}

func TestAnonymize(t *testing.T) {
	svc := &fakeRegistrationService{anonymizeCount: 3}
	c := newRegistrationRig(svc, nil)

	rr := doJSON(t, c.Anonymize, http.MethodPost, "/users/U100/anonymize", nil,
		map[string]string{"slackUserID": "U100"})

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["anonymized"])
}

func TestListByEvent_InvalidStatusFilter(t *testing.T) {
	svc := &fakeRegistrationService{}
	c := newRegistrationRig(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/events/fagdag-2025/registrations?status=bogus", nil)
	req.SetPathValue("slug", "fagdag-2025")
	rr := httptest.NewRecorder()
	c.ListByEvent(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_RepositoryErrorHidden(t *testing.T) {
	svc := &fakeRegistrationService{registerErr: errors.New("create registration: pq: connection refused")}
	provider := &fakeEventProvider{event: &domain.Event{Slug: "fagdag-2025"}}
	c := newRegistrationRig(svc, provider)

	rr := doJSON(t, c.Register, http.MethodPost, "/events/fagdag-2025/registrations", map[string]any{
		"slack_user_id":   "U100",
		"name":            "Kari Nordmann",
		"email":           "kari@example.com",
		"organisation":    "Org A",
		"attendance_type": "physical",
	}, map[string]string{"slug": "fagdag-2025"})

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "pq:", "repository details must not reach the client")
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeInternalError, envelope.Error.Code)
	assert.Equal(t, "Failed to register", envelope.Error.Message)
}

func TestListByEvent_RepositoryErrorHidden(t *testing.T) {
	svc := &fakeRegistrationService{listErr: errors.New("list registrations: pq: connection refused")}
	c := newRegistrationRig(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/events/fagdag-2025/registrations", nil)
	req.SetPathValue("slug", "fagdag-2025")
	rr := httptest.NewRecorder()
	c.ListByEvent(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "Failed to list registrations", envelope.Error.Message)
}
