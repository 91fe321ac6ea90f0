package domain

import (
	"context"
	"time"
)

// EventFeedback is one anonymous feedback response for an event.
// swagger:model EventFeedback
type EventFeedback struct {
	ID        string    `json:"id"`
	EventSlug string    `json:"event_slug"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackSummary aggregates feedback responses for an event.
// swagger:model FeedbackSummary
type FeedbackSummary struct {
	AverageRating  float64 `json:"average_rating"`
	TotalResponses int     `json:"total_responses"`
}

// FeedbackRepository defines storage operations for event feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *EventFeedback) error
	// GetSummaryByEvent returns the aggregate over all responses for the
	// event. Zero responses yields an all-zero summary, not an error.
	GetSummaryByEvent(ctx context.Context, eventSlug string) (*FeedbackSummary, error)
}

// FeedbackService defines the feedback operations.
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, eventSlug string, rating int, comment string) (*EventFeedback, error)
	GetSummary(ctx context.Context, eventSlug string) (*FeedbackSummary, error)
}
