package services

import (
	"strings"

	"communityevents/internal/domain"
)

// ComputeStatsFromRegistrations tallies registrations into the five status
// buckets. Absent statuses stay zero-filled.
func ComputeStatsFromRegistrations(regs []*domain.Registration) domain.RegistrationBreakdown {
	var b domain.RegistrationBreakdown
	for _, reg := range regs {
		switch reg.Status {
		case domain.StatusConfirmed:
			b.Confirmed++
		case domain.StatusWaitlist:
			b.Waitlist++
		case domain.StatusCancelled:
			b.Cancelled++
		case domain.StatusAttended:
			b.Attended++
		case domain.StatusNoShow:
			b.NoShow++
		}
	}
	return b
}

// ComputeCountsFromRegistrations summarizes active (confirmed or attended)
// registrations: totals, unique trimmed organizations, attendance split,
// and social-event signups. Cancelled rows never contribute.
func ComputeCountsFromRegistrations(regs []*domain.Registration) domain.RegistrationCounts {
	var c domain.RegistrationCounts
	orgs := make(map[string]struct{})
	for _, reg := range regs {
		if !isActive(reg) {
			continue
		}
		c.Total++
		c.Persons++
		if org := strings.TrimSpace(reg.Organisation); org != "" {
			orgs[org] = struct{}{}
		}
		switch reg.AttendanceType {
		case domain.AttendancePhysical:
			c.Physical++
		case domain.AttendanceDigital:
			c.Digital++
		}
		if reg.AttendingSocialEvent != nil && *reg.AttendingSocialEvent {
			c.SocialEvent++
		}
	}
	c.Organizations = len(orgs)
	return c
}

// ResolveEventStats merges live registration and feedback data with the
// event's legacy snapshot. The two domains switch independently: live
// registrations win whenever any exist, and live feedback wins whenever it
// has responses — so an event can report live registration counts next to
// legacy feedback numbers.
func ResolveEventStats(event *domain.Event, regs []*domain.Registration, feedback *domain.FeedbackSummary) domain.EventDynamicStats {
	stats := domain.EventDynamicStats{
		Feedback: domain.FeedbackStats{HistoricalComments: []string{}},
	}

	var legacy *domain.LegacyEventStats
	if event != nil {
		legacy = event.Stats
	}

	if len(regs) > 0 {
		stats.Registrations = ComputeStatsFromRegistrations(regs)
		stats.Counts = ComputeCountsFromRegistrations(regs)
	} else if legacy != nil {
		stats.Counts = domain.RegistrationCounts{
			Total:         legacy.Registrations,
			Persons:       legacy.Participants,
			Organizations: legacy.Organisations,
		}
	}

	if feedback != nil && feedback.TotalResponses > 0 {
		stats.Feedback.AverageRating = feedback.AverageRating
		stats.Feedback.TotalResponses = feedback.TotalResponses
	} else if legacy != nil && legacy.Feedback != nil {
		stats.Feedback.AverageRating = legacy.Feedback.AverageRating
		stats.Feedback.TotalResponses = legacy.Feedback.Respondents
		stats.Feedback.HasLegacyData = true
		stats.Feedback.URL = legacy.Feedback.URL
		if len(legacy.Feedback.Comments) > 0 {
			stats.Feedback.HistoricalComments = legacy.Feedback.Comments
		}
	}

	return stats
}
