package domain

import (
	"context"
	"time"
)

// AttendanceType says whether an attendee joins in person or remotely.
type AttendanceType string

const (
	AttendancePhysical AttendanceType = "physical"
	AttendanceDigital  AttendanceType = "digital"
)

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusWaitlist  RegistrationStatus = "waitlist"
	StatusCancelled RegistrationStatus = "cancelled"
	StatusAttended  RegistrationStatus = "attended"
	StatusNoShow    RegistrationStatus = "no-show"
)

// AllStatuses lists every registration status in a stable order.
var AllStatuses = []RegistrationStatus{
	StatusConfirmed, StatusWaitlist, StatusCancelled, StatusAttended, StatusNoShow,
}

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlist, StatusCancelled, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

// Registration represents a user's registration for an event. There is at
// most one non-cancelled registration per (event_slug, slack_user_id) pair;
// cancelling and re-registering updates the row in place.
// swagger:model Registration
type Registration struct {
	ID                   string             `json:"id"`
	EventSlug            string             `json:"event_slug"`
	SlackUserID          string             `json:"slack_user_id"`
	Name                 string             `json:"name"`
	Email                string             `json:"email"`
	Organisation         string             `json:"organisation"`
	AttendanceType       AttendanceType     `json:"attendance_type"`
	AttendingSocialEvent *bool              `json:"attending_social_event,omitempty"`
	Dietary              string             `json:"dietary,omitempty"`
	Comments             string             `json:"comments,omitempty"`
	Status               RegistrationStatus `json:"status"`
	RegisteredAt         time.Time          `json:"registered_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	Metadata             map[string]string  `json:"metadata,omitempty"`
}

// RegistrationInput is the payload for creating (or re-activating) a
// registration.
type RegistrationInput struct {
	EventSlug            string         `json:"event_slug"`
	SlackUserID          string         `json:"slack_user_id"`
	Name                 string         `json:"name"`
	Email                string         `json:"email"`
	Organisation         string         `json:"organisation"`
	AttendanceType       AttendanceType `json:"attendance_type"`
	AttendingSocialEvent *bool          `json:"attending_social_event,omitempty"`
	Dietary              string         `json:"dietary,omitempty"`
	Comments             string         `json:"comments,omitempty"`
}

// RegistrationFilter narrows List queries. Zero values mean "no filter".
type RegistrationFilter struct {
	EventSlug   string
	SlackUserID string
	Status      RegistrationStatus
	Limit       int
	Offset      int
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*Registration, error)
	List(ctx context.Context, filter RegistrationFilter) ([]*Registration, error)
	Update(ctx context.Context, reg *Registration) error
	Delete(ctx context.Context, id string) error
	// CountPhysicalAttendees returns the number of physical registrations
	// with status confirmed or attended for the event.
	CountPhysicalAttendees(ctx context.Context, eventSlug string) (int, error)
}

// OrganizationCount is one row of the organization breakdown.
// swagger:model OrganizationCount
type OrganizationCount struct {
	Organization string `json:"organization"`
	Count        int    `json:"count"`
}

// CategoryCounts summarizes active registrations for an event.
// swagger:model CategoryCounts
type CategoryCounts struct {
	Total         int `json:"total"`
	Persons       int `json:"persons"`
	Organizations int `json:"organizations"`
}

// BulkUpdateFailure describes a single failed item of a bulk status update.
type BulkUpdateFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkUpdateResult reports the outcome of a bulk status update. Items are
// processed independently; one failure does not roll back the others.
// swagger:model BulkUpdateResult
type BulkUpdateResult struct {
	Updated []string            `json:"updated"`
	Failed  []BulkUpdateFailure `json:"failed"`
}

// RegistrationService defines the registration lifecycle and its aggregate
// queries.
type RegistrationService interface {
	// RegisterForEvent validates the input and creates a registration, or
	// re-activates a cancelled one. event may be nil when the event record
	// is unavailable; capacity is then not enforced.
	RegisterForEvent(ctx context.Context, input RegistrationInput, event *Event) (*Registration, error)
	GetRegistration(ctx context.Context, id string) (*Registration, error)
	ListEventRegistrations(ctx context.Context, eventSlug string, status RegistrationStatus) ([]*Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id string, status RegistrationStatus) (*Registration, error)
	ConfirmFromWaitlist(ctx context.Context, id string) (*Registration, error)
	MarkAsAttended(ctx context.Context, id string) (*Registration, error)
	MarkAsNoShow(ctx context.Context, id string) (*Registration, error)
	CancelRegistration(ctx context.Context, id string) (*Registration, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status RegistrationStatus) (*BulkUpdateResult, error)
	DeleteRegistration(ctx context.Context, id string) error
	// AnonymizeUserData scrubs personal fields on every registration the
	// user has, across all events, and returns the number of rows touched.
	AnonymizeUserData(ctx context.Context, slackUserID string) (int, error)
	GetEventRegistrationStats(ctx context.Context, eventSlug string) (RegistrationBreakdown, error)
	GetActiveRegistrationCount(ctx context.Context, eventSlug string) (int, error)
	GetRegistrationCountsByCategory(ctx context.Context, eventSlug string) (CategoryCounts, error)
	GetOrganizationBreakdown(ctx context.Context, eventSlug string) ([]OrganizationCount, error)
	IsUserRegistered(ctx context.Context, eventSlug, slackUserID string) (bool, error)
	GetRegistrationsByEvent(ctx context.Context) (map[string][]*Registration, error)
}
