package services

import (
	"context"
	"fmt"
	"log"

	"communityevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRegistrationConfirmation sends the registration receipt using the
// "registration_confirmed" template.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("registration_confirmed", data)
	if err != nil {
		return fmt.Errorf("failed to render registration_confirmed template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	log.Printf("[EMAIL] Registration confirmation sent for %s", data.EventSlug)
	return nil
}

// SendWaitlistPromotion notifies an attendee moved from the waitlist using
// the "waitlist_promoted" template.
func (s *emailService) SendWaitlistPromotion(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist promotion data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("waitlist_promoted", data)
	if err != nil {
		return fmt.Errorf("failed to render waitlist_promoted template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send waitlist promotion email: %w", err)
	}
	log.Printf("[EMAIL] Waitlist promotion sent for %s", data.EventSlug)
	return nil
}
