package domain

// ScheduleItemType classifies an entry in an event schedule.
type ScheduleItemType string

const (
	SchedulePresentation ScheduleItemType = "presentation"
	SchedulePanel        ScheduleItemType = "panel"
	ScheduleWorkshop     ScheduleItemType = "workshop"
	SchedulePause        ScheduleItemType = "pause"
	ScheduleInfo         ScheduleItemType = "info"
)

// ScheduleItem is one entry in an event schedule as served by the CMS.
type ScheduleItem struct {
	Title    string           `json:"title"`
	Time     string           `json:"time"`
	Type     ScheduleItemType `json:"type"`
	Speakers []Speaker        `json:"speakers,omitempty"`
}

// Speaker is a talk speaker. URL points at the speaker's profile page; the
// trailing /team/<id> segment carries the Slack user id.
type Speaker struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Attachment is a slide deck or other file uploaded for a talk.
type Attachment struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SpeakerTalk is one talk in a speaker's nudge group.
type SpeakerTalk struct {
	Title          string
	Time           string
	HasAttachments bool
}

// SpeakerTalkGroup collects all talks for one unique speaker. Built fresh
// per notification run, never persisted.
type SpeakerTalkGroup struct {
	SlackUserID string
	Name        string
	Talks       []SpeakerTalk
}
