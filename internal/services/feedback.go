package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"communityevents/internal/domain"
)

type feedbackService struct {
	repo           domain.FeedbackRepository
	contextTimeout time.Duration
}

// NewFeedbackService creates a FeedbackService over the given repository.
func NewFeedbackService(repo domain.FeedbackRepository, timeout time.Duration) domain.FeedbackService {
	return &feedbackService{repo: repo, contextTimeout: timeout}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, eventSlug string, rating int, comment string) (*domain.EventFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(eventSlug) == "" {
		return nil, domain.NewValidationError("Event slug is required")
	}
	if rating < 1 || rating > 5 {
		return nil, domain.NewValidationError("Rating must be between 1 and 5")
	}

	fb := &domain.EventFeedback{
		EventSlug: eventSlug,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

func (s *feedbackService) GetSummary(ctx context.Context, eventSlug string) (*domain.FeedbackSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summary, err := s.repo.GetSummaryByEvent(ctx, eventSlug)
	if err != nil {
		return nil, fmt.Errorf("get feedback summary: %w", err)
	}
	return summary, nil
}
