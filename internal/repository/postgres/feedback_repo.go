package postgres

import (
	"context"
	"database/sql"

	"communityevents/internal/domain"
)

type feedbackRepository struct {
	DB *sql.DB
}

// NewFeedbackRepository creates a FeedbackRepository backed by postgres.
func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{DB: db}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *domain.EventFeedback) error {
	query := `
		INSERT INTO event_feedback (event_slug, rating, comment, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, fb.EventSlug, fb.Rating, fb.Comment, fb.CreatedAt).
		Scan(&fb.ID)
}

func (r *feedbackRepository) GetSummaryByEvent(ctx context.Context, eventSlug string) (*domain.FeedbackSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM event_feedback
		WHERE event_slug = $1
	`
	summary := &domain.FeedbackSummary{}
	err := r.DB.QueryRowContext(ctx, query, eventSlug).
		Scan(&summary.AverageRating, &summary.TotalResponses)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
