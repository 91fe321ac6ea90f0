package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"communityevents/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	anonymizedName  = "Anonymisert bruker"
	anonymizedEmail = "anonymisert@example.com"
)

type registrationService struct {
	repo           domain.RegistrationRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService. emailService may be
// nil; lifecycle emails are then skipped.
func NewRegistrationService(
	repo domain.RegistrationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		repo:           repo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// validateInput checks required fields in a fixed order so that the first
// offending field decides the message.
func validateInput(input domain.RegistrationInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError("Name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return domain.NewValidationError("Email is required")
	}
	if !emailPattern.MatchString(input.Email) {
		return domain.NewValidationError("Invalid email format")
	}
	if strings.TrimSpace(input.Organisation) == "" {
		return domain.NewValidationError("Organisation is required")
	}
	if input.AttendanceType == "" {
		return domain.NewValidationError("Attendance type is required")
	}
	if strings.TrimSpace(input.SlackUserID) == "" {
		return domain.NewValidationError("Slack user id is required")
	}
	if strings.TrimSpace(input.EventSlug) == "" {
		return domain.NewValidationError("Event slug is required")
	}
	return nil
}

// resolveStatus applies the capacity rule. Only physical attendance against
// an event with a capacity ceiling can land on the waitlist.
func (s *registrationService) resolveStatus(ctx context.Context, input domain.RegistrationInput, event *domain.Event) (domain.RegistrationStatus, error) {
	if input.AttendanceType != domain.AttendancePhysical || event == nil || event.MaxCapacity == nil {
		return domain.StatusConfirmed, nil
	}
	count, err := s.repo.CountPhysicalAttendees(ctx, input.EventSlug)
	if err != nil {
		return "", fmt.Errorf("count physical attendees: %w", err)
	}
	if count < *event.MaxCapacity {
		return domain.StatusConfirmed, nil
	}
	return domain.StatusWaitlist, nil
}

// RegisterForEvent creates a registration, or re-activates a cancelled one
// for the same (event, user) pair. The capacity check reads the current
// attendee count and writes without a transaction, so two registrations
// racing at the boundary can both be confirmed; this mirrors the behavior
// the rest of the system is calibrated to.
func (s *registrationService) RegisterForEvent(ctx context.Context, input domain.RegistrationInput, event *domain.Event) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEventAndUser(ctx, input.EventSlug, input.SlackUserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if existing != nil && existing.Status != domain.StatusCancelled {
		return nil, domain.ErrAlreadyRegistered
	}

	status, err := s.resolveStatus(ctx, input, event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var reg *domain.Registration
	if existing != nil {
		// Re-activate the cancelled row in place instead of inserting a
		// second one; RegisteredAt keeps the original signup time.
		existing.Name = input.Name
		existing.Email = input.Email
		existing.Organisation = input.Organisation
		existing.AttendanceType = input.AttendanceType
		existing.AttendingSocialEvent = input.AttendingSocialEvent
		existing.Dietary = input.Dietary
		existing.Comments = input.Comments
		existing.Status = status
		existing.UpdatedAt = now
		if existing.Metadata == nil {
			existing.Metadata = map[string]string{}
		}
		existing.Metadata["reregisteredAt"] = now.UTC().Format(time.RFC3339)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update registration: %w", err)
		}
		reg = existing
	} else {
		reg = &domain.Registration{
			EventSlug:            input.EventSlug,
			SlackUserID:          input.SlackUserID,
			Name:                 input.Name,
			Email:                input.Email,
			Organisation:         input.Organisation,
			AttendanceType:       input.AttendanceType,
			AttendingSocialEvent: input.AttendingSocialEvent,
			Dietary:              input.Dietary,
			Comments:             input.Comments,
			Status:               status,
			RegisteredAt:         now,
			UpdatedAt:            now,
		}
		if err := s.repo.Create(ctx, reg); err != nil {
			return nil, fmt.Errorf("create registration: %w", err)
		}
	}

	if status == domain.StatusConfirmed {
		s.sendConfirmationEmail(ctx, reg, event)
	}
	return reg, nil
}

func (s *registrationService) sendConfirmationEmail(ctx context.Context, reg *domain.Registration, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	title := reg.EventSlug
	if event != nil && event.Title != "" {
		title = event.Title
	}
	data := &domain.RegistrationEmailData{
		Email:      reg.Email,
		Name:       reg.Name,
		EventTitle: title,
		EventSlug:  reg.EventSlug,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "event", reg.EventSlug, "err", err)
	}
}

func (s *registrationService) GetRegistration(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListEventRegistrations(ctx context.Context, eventSlug string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{EventSlug: eventSlug, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

// UpdateRegistrationStatus sets the new status unconditionally: any state
// may move to any other state, by admin action.
func (s *registrationService) UpdateRegistrationStatus(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.updateStatus(ctx, id, status)
}

func (s *registrationService) updateStatus(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("Invalid status")
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	reg.Status = status
	reg.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ConfirmFromWaitlist(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.updateStatus(ctx, id, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if s.emailService != nil {
		data := &domain.RegistrationEmailData{
			Email:      reg.Email,
			Name:       reg.Name,
			EventTitle: reg.EventSlug,
			EventSlug:  reg.EventSlug,
		}
		if err := s.emailService.SendWaitlistPromotion(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "waitlist promotion email failed", "event", reg.EventSlug, "err", err)
		}
	}
	return reg, nil
}

func (s *registrationService) MarkAsAttended(ctx context.Context, id string) (*domain.Registration, error) {
	return s.UpdateRegistrationStatus(ctx, id, domain.StatusAttended)
}

func (s *registrationService) MarkAsNoShow(ctx context.Context, id string) (*domain.Registration, error) {
	return s.UpdateRegistrationStatus(ctx, id, domain.StatusNoShow)
}

func (s *registrationService) CancelRegistration(ctx context.Context, id string) (*domain.Registration, error) {
	return s.UpdateRegistrationStatus(ctx, id, domain.StatusCancelled)
}

// BulkUpdateStatus applies the single-item update to each id concurrently.
// Items are independent: one NotFound does not roll back the others, and
// side-effect ordering across ids is unspecified.
func (s *registrationService) BulkUpdateStatus(ctx context.Context, ids []string, status domain.RegistrationStatus) (*domain.BulkUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, domain.NewValidationError("Invalid status")
	}

	result := &domain.BulkUpdateResult{
		Updated: []string{},
		Failed:  []domain.BulkUpdateFailure{},
	}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.updateStatus(ctx, id, status)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, domain.BulkUpdateFailure{ID: id, Error: err.Error()})
				return
			}
			result.Updated = append(result.Updated, id)
		}(id)
	}
	wg.Wait()
	return result, nil
}

func (s *registrationService) DeleteRegistration(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

const anonymousIDSuffixLength = 6

var anonymousIDAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func generateAnonymousID(now time.Time) (string, error) {
	b := make([]rune, anonymousIDSuffixLength)
	max := big.NewInt(int64(len(anonymousIDAlphabet)))
	for i := 0; i < anonymousIDSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = anonymousIDAlphabet[n.Int64()]
	}
	return fmt.Sprintf("anonymized_%d_%s", now.UnixMilli(), string(b)), nil
}

// AnonymizeUserData overwrites personal fields on every registration the
// user has, across all events. Rows are kept so capacity and statistics
// stay intact. Running it again finds nothing (the Slack user id has been
// replaced) and returns 0.
func (s *registrationService) AnonymizeUserData(ctx context.Context, slackUserID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{SlackUserID: slackUserID})
	if err != nil {
		return 0, fmt.Errorf("list registrations: %w", err)
	}

	count := 0
	for _, reg := range regs {
		now := time.Now()
		anonID, err := generateAnonymousID(now)
		if err != nil {
			return count, fmt.Errorf("generate anonymous id: %w", err)
		}
		reg.Name = anonymizedName
		reg.Email = anonymizedEmail
		reg.SlackUserID = anonID
		reg.Dietary = ""
		reg.Comments = ""
		reg.UpdatedAt = now
		if reg.Metadata == nil {
			reg.Metadata = map[string]string{}
		}
		reg.Metadata["anonymized"] = "true"
		reg.Metadata["anonymizedAt"] = now.UTC().Format(time.RFC3339)
		if err := s.repo.Update(ctx, reg); err != nil {
			return count, fmt.Errorf("anonymize registration %s: %w", reg.ID, err)
		}
		count++
	}
	return count, nil
}

func (s *registrationService) GetEventRegistrationStats(ctx context.Context, eventSlug string) (domain.RegistrationBreakdown, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{EventSlug: eventSlug})
	if err != nil {
		return domain.RegistrationBreakdown{}, fmt.Errorf("list registrations: %w", err)
	}
	return ComputeStatsFromRegistrations(regs), nil
}

func (s *registrationService) GetActiveRegistrationCount(ctx context.Context, eventSlug string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{EventSlug: eventSlug})
	if err != nil {
		return 0, fmt.Errorf("list registrations: %w", err)
	}
	count := 0
	for _, reg := range regs {
		if isActive(reg) {
			count++
		}
	}
	return count, nil
}

func (s *registrationService) GetRegistrationCountsByCategory(ctx context.Context, eventSlug string) (domain.CategoryCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{EventSlug: eventSlug})
	if err != nil {
		return domain.CategoryCounts{}, fmt.Errorf("list registrations: %w", err)
	}

	counts := domain.CategoryCounts{}
	orgs := make(map[string]struct{})
	for _, reg := range regs {
		if !isActive(reg) {
			continue
		}
		counts.Total++
		counts.Persons++
		if org := strings.TrimSpace(reg.Organisation); org != "" {
			orgs[org] = struct{}{}
		}
	}
	counts.Organizations = len(orgs)
	return counts, nil
}

// GetOrganizationBreakdown counts active registrations per trimmed
// organization name, sorted by count descending. Tie order follows the
// first appearance in the underlying list and is stable but not guaranteed.
func (s *registrationService) GetOrganizationBreakdown(ctx context.Context, eventSlug string) ([]domain.OrganizationCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{EventSlug: eventSlug})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	index := make(map[string]int)
	breakdown := []domain.OrganizationCount{}
	for _, reg := range regs {
		if !isActive(reg) {
			continue
		}
		org := strings.TrimSpace(reg.Organisation)
		if org == "" {
			continue
		}
		if i, ok := index[org]; ok {
			breakdown[i].Count++
			continue
		}
		index[org] = len(breakdown)
		breakdown = append(breakdown, domain.OrganizationCount{Organization: org, Count: 1})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})
	return breakdown, nil
}

// IsUserRegistered reports whether a non-cancelled registration exists for
// the pair. Waitlisted and no-show registrations count as registered; the
// predicate exists to block duplicate signups.
func (s *registrationService) IsUserRegistered(ctx context.Context, eventSlug, slackUserID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.repo.GetByEventAndUser(ctx, eventSlug, slackUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get registration: %w", err)
	}
	return reg.Status != domain.StatusCancelled, nil
}

func (s *registrationService) GetRegistrationsByEvent(ctx context.Context) (map[string][]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.repo.List(ctx, domain.RegistrationFilter{})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	byEvent := make(map[string][]*domain.Registration)
	for _, reg := range regs {
		byEvent[reg.EventSlug] = append(byEvent[reg.EventSlug], reg)
	}
	return byEvent, nil
}

func isActive(reg *domain.Registration) bool {
	return reg.Status == domain.StatusConfirmed || reg.Status == domain.StatusAttended
}
