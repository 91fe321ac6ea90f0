package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"communityevents/internal/domain"
)

// speakerIDPattern extracts the Slack user id from the trailing /team/<id>
// segment of a speaker profile URL.
var speakerIDPattern = regexp.MustCompile(`/team/([A-Za-z0-9._-]+)/?$`)

// NudgeConfig carries the environment values the nudge service needs.
// Explicit config instead of ambient env reads keeps the guard testable.
type NudgeConfig struct {
	Environment   string
	PublicBaseURL string
	Organizers    []string
}

type nudgeService struct {
	content        domain.EventProvider
	messenger      domain.Messenger
	cfg            NudgeConfig
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewNudgeService creates a NudgeService over the CMS content provider and
// the chat messenger.
func NewNudgeService(
	content domain.EventProvider,
	messenger domain.Messenger,
	cfg NudgeConfig,
	logger *slog.Logger,
	timeout time.Duration,
) domain.NudgeService {
	return &nudgeService{
		content:        content,
		messenger:      messenger,
		cfg:            cfg,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// SendSpeakerNudges sends one reminder per unique speaker on the event
// schedule. Dispatches run concurrently; sent/failed counts are summed
// across all of them.
func (s *nudgeService) SendSpeakerNudges(ctx context.Context, eventSlug string, onlyWithoutAttachments bool) (*domain.NudgeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Fail closed: a non-production instance pointed at a loopback URL
	// would push real messages containing dead localhost links.
	if s.cfg.Environment != "production" && isLoopbackURL(s.cfg.PublicBaseURL) {
		return nil, domain.ErrSendBlocked
	}

	schedule, err := s.content.GetEventSchedule(ctx, eventSlug)
	if err != nil {
		return nil, fmt.Errorf("get event schedule: %w", err)
	}
	attachments, err := s.content.GetAllEventAttachments(ctx, eventSlug)
	if err != nil {
		return nil, fmt.Errorf("get event attachments: %w", err)
	}

	groups := BuildSpeakerTalkGroups(schedule, attachments, onlyWithoutAttachments)
	result := &domain.NudgeResult{SpeakerIDs: []string{}}
	if len(groups) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	notified := make([]bool, len(groups))
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group *domain.SpeakerTalkGroup) {
			defer wg.Done()
			text := s.composeMessage(group)
			res, err := s.messenger.SendBulkDirectMessages(ctx, []string{group.SlackUserID}, text)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.ErrorContext(ctx, "nudge dispatch failed", "speaker", group.SlackUserID, "err", err)
				result.Failed++
				return
			}
			result.Sent += res.Sent
			result.Failed += res.Failed
			notified[i] = res.Failed == 0
		}(i, group)
	}
	wg.Wait()

	// SpeakerIDs lists only the speakers whose message went out, in
	// schedule order.
	for i, group := range groups {
		if notified[i] {
			result.SpeakerIDs = append(result.SpeakerIDs, group.SlackUserID)
		}
	}
	return result, nil
}

// nudgeableTypes are the schedule item types that have speakers to remind.
var nudgeableTypes = map[domain.ScheduleItemType]struct{}{
	domain.SchedulePresentation: {},
	domain.SchedulePanel:        {},
	domain.ScheduleWorkshop:     {},
}

// BuildSpeakerTalkGroups filters the schedule to talks with speakers,
// resolves attachment presence by exact title match, and groups the
// surviving talks per unique speaker id so that a speaker giving several
// talks gets a single group. Speakers without an extractable id are
// skipped. Group order follows first appearance in the schedule.
func BuildSpeakerTalkGroups(schedule []domain.ScheduleItem, attachments map[string][]domain.Attachment, onlyWithoutAttachments bool) []*domain.SpeakerTalkGroup {
	index := make(map[string]int)
	groups := []*domain.SpeakerTalkGroup{}

	for _, item := range schedule {
		if _, ok := nudgeableTypes[item.Type]; !ok {
			continue
		}
		if len(item.Speakers) == 0 {
			continue
		}
		hasAttachments := len(attachments[item.Title]) > 0
		if onlyWithoutAttachments && hasAttachments {
			continue
		}
		talk := domain.SpeakerTalk{
			Title:          item.Title,
			Time:           item.Time,
			HasAttachments: hasAttachments,
		}
		for _, speaker := range item.Speakers {
			id := ExtractSpeakerID(speaker.URL)
			if id == "" {
				continue
			}
			if i, ok := index[id]; ok {
				groups[i].Talks = append(groups[i].Talks, talk)
				continue
			}
			index[id] = len(groups)
			groups = append(groups, &domain.SpeakerTalkGroup{
				SlackUserID: id,
				Name:        speaker.Name,
				Talks:       []domain.SpeakerTalk{talk},
			})
		}
	}
	return groups
}

// ExtractSpeakerID returns the Slack user id encoded in a speaker profile
// URL, or "" when the URL has no trailing /team/<id> segment.
func ExtractSpeakerID(profileURL string) string {
	if profileURL == "" {
		return ""
	}
	m := speakerIDPattern.FindStringSubmatch(profileURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// composeMessage builds the Norwegian reminder text for one speaker group.
func (s *nudgeService) composeMessage(group *domain.SpeakerTalkGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hei %s! :wave:\n\n", group.Name)

	withAttachments := 0
	for _, talk := range group.Talks {
		if talk.HasAttachments {
			withAttachments++
		}
	}

	if len(group.Talks) > 1 {
		fmt.Fprintf(&b, "Du er satt opp med %d foredrag:\n", len(group.Talks))
		for _, talk := range group.Talks {
			fmt.Fprintf(&b, "• «%s» (kl. %s)\n", talk.Title, talk.Time)
		}
		b.WriteString("\n")
		switch {
		case withAttachments == len(group.Talks):
			b.WriteString("Vi ser at du har lastet opp vedlegg til alle foredragene dine. Tusen takk!")
		case withAttachments > 0:
			fmt.Fprintf(&b, "Noen av foredragene dine mangler fortsatt vedlegg. Husk å laste opp resten på %s.", s.cfg.PublicBaseURL)
		default:
			fmt.Fprintf(&b, "Husk å laste opp presentasjonene dine på %s.", s.cfg.PublicBaseURL)
		}
	} else {
		talk := group.Talks[0]
		fmt.Fprintf(&b, "Du er satt opp med foredraget «%s» (kl. %s).\n\n", talk.Title, talk.Time)
		if talk.HasAttachments {
			b.WriteString("Vi ser at du allerede har lastet opp vedlegg. Tusen takk!")
		} else {
			fmt.Fprintf(&b, "Husk å laste opp presentasjonen din på %s.", s.cfg.PublicBaseURL)
		}
	}

	if len(s.cfg.Organizers) > 0 {
		fmt.Fprintf(&b, "\n\nVennlig hilsen\n%s", JoinNames(s.cfg.Organizers))
	}
	return b.String()
}

// JoinNames joins names with commas and "og" before the last one:
// "A", "A og B", "A, B og C".
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " og " + names[len(names)-1]
}

// isLoopbackURL reports whether the URL's host resolves lexically to a
// loopback address (localhost, 127.0.0.0/8, ::1).
func isLoopbackURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
