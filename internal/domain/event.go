package domain

import (
	"context"
	"time"
)

// Event is the event record as served by the CMS. Only the fields the
// backend needs are modeled; rendering data stays in the CMS.
// swagger:model Event
type Event struct {
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Date        time.Time         `json:"date"`
	Location    string            `json:"location,omitempty"`
	MaxCapacity *int              `json:"max_capacity,omitempty"`
	Organizers  []string          `json:"organizers,omitempty"`
	Stats       *LegacyEventStats `json:"stats,omitempty"`
}

// LegacyEventStats is the manually maintained snapshot embedded on older
// event records. It is only consulted when no live data exists.
type LegacyEventStats struct {
	Registrations int             `json:"registrations"`
	Participants  int             `json:"participants"`
	Organisations int             `json:"organisations"`
	Feedback      *LegacyFeedback `json:"feedback,omitempty"`
}

// LegacyFeedback is the historical feedback snapshot on a legacy event.
type LegacyFeedback struct {
	AverageRating float64  `json:"average_rating"`
	Respondents   int      `json:"respondents"`
	Comments      []string `json:"comments,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// EventProvider fetches event content from the CMS (or a test double).
type EventProvider interface {
	GetEvent(ctx context.Context, slug string) (*Event, error)
	GetEventSchedule(ctx context.Context, slug string) ([]ScheduleItem, error)
	// GetAllEventAttachments returns the attachment index for the event,
	// keyed by exact talk title.
	GetAllEventAttachments(ctx context.Context, slug string) (map[string][]Attachment, error)
}
