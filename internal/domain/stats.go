package domain

// RegistrationBreakdown tallies registrations per status. All five buckets
// are always present; a struct keeps the zero-fill structural.
// swagger:model RegistrationBreakdown
type RegistrationBreakdown struct {
	Confirmed int `json:"confirmed"`
	Waitlist  int `json:"waitlist"`
	Cancelled int `json:"cancelled"`
	Attended  int `json:"attended"`
	NoShow    int `json:"no-show"`
}

// RegistrationCounts summarizes active (confirmed or attended)
// registrations. Cancelled rows never contribute.
// swagger:model RegistrationCounts
type RegistrationCounts struct {
	Total         int `json:"total"`
	Persons       int `json:"persons"`
	Organizations int `json:"organizations"`
	Physical      int `json:"physical"`
	Digital       int `json:"digital"`
	SocialEvent   int `json:"social_event"`
}

// FeedbackStats is the feedback part of the resolved event stats. When no
// live responses exist the legacy snapshot is carried over and
// HasLegacyData is set.
// swagger:model FeedbackStats
type FeedbackStats struct {
	AverageRating      float64  `json:"average_rating"`
	TotalResponses     int      `json:"total_responses"`
	HasLegacyData      bool     `json:"has_legacy_data"`
	HistoricalComments []string `json:"historical_comments"`
	URL                string   `json:"url,omitempty"`
}

// EventDynamicStats is the per-request view merging live registration and
// feedback data with the legacy snapshot. Derived, never stored.
// swagger:model EventDynamicStats
type EventDynamicStats struct {
	Registrations RegistrationBreakdown `json:"registrations"`
	Counts        RegistrationCounts    `json:"counts"`
	Feedback      FeedbackStats         `json:"feedback"`
}
