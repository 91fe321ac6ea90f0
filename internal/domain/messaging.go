package domain

import "context"

// MessageResult is the per-recipient outcome of a bulk send.
type MessageResult struct {
	UserID string `json:"user_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// BulkMessageResult sums the outcomes of one bulk send.
type BulkMessageResult struct {
	Sent    int             `json:"sent"`
	Failed  int             `json:"failed"`
	Results []MessageResult `json:"results"`
}

// Messenger sends direct messages to chat-platform users (infrastructure
// port; the production implementation talks to Slack).
type Messenger interface {
	SendBulkDirectMessages(ctx context.Context, userIDs []string, text string) (*BulkMessageResult, error)
}

// NudgeResult reports a speaker nudge run: one dispatch per unique speaker.
// SpeakerIDs holds only the speakers whose message was delivered; failed
// dispatches count in Failed but do not appear in the list.
// swagger:model NudgeResult
type NudgeResult struct {
	Sent       int      `json:"sent"`
	Failed     int      `json:"failed"`
	SpeakerIDs []string `json:"speaker_ids"`
}

// NudgeService composes and dispatches speaker reminder messages.
type NudgeService interface {
	// SendSpeakerNudges groups the event's talks by speaker and sends one
	// reminder per unique speaker. With onlyWithoutAttachments set, talks
	// that already have attachments are skipped.
	SendSpeakerNudges(ctx context.Context, eventSlug string, onlyWithoutAttachments bool) (*NudgeResult, error)
}
