package slack

import (
	"context"
	"log"
	"sync"

	"github.com/slack-go/slack"

	"communityevents/internal/domain"
)

// slackAPI is the subset of the Slack client the messenger needs.
type slackAPI interface {
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type messenger struct {
	api slackAPI
}

// NewMessenger returns a Messenger backed by the Slack Web API. An empty bot
// token yields a no-op messenger that only logs, so local setups work without
// Slack credentials.
func NewMessenger(botToken string) domain.Messenger {
	if botToken == "" {
		log.Printf("[SLACK] No bot token configured, using noop messenger")
		return &noopMessenger{}
	}
	return &messenger{api: slack.New(botToken)}
}

func (m *messenger) SendBulkDirectMessages(ctx context.Context, userIDs []string, text string) (*domain.BulkMessageResult, error) {
	result := &domain.BulkMessageResult{Results: make([]domain.MessageResult, len(userIDs))}

	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			if err := m.sendDirectMessage(ctx, userID, text); err != nil {
				result.Results[i] = domain.MessageResult{UserID: userID, Error: err.Error()}
				return
			}
			result.Results[i] = domain.MessageResult{UserID: userID, OK: true}
		}(i, userID)
	}
	wg.Wait()

	for _, r := range result.Results {
		if r.OK {
			result.Sent++
		} else {
			result.Failed++
		}
	}
	return result, nil
}

func (m *messenger) sendDirectMessage(ctx context.Context, userID, text string) error {
	channel, _, _, err := m.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return err
	}
	_, _, err = m.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false))
	return err
}

type noopMessenger struct{}

func (n *noopMessenger) SendBulkDirectMessages(ctx context.Context, userIDs []string, text string) (*domain.BulkMessageResult, error) {
	log.Printf("[SLACK] Direct message would be sent (noop) to %d users", len(userIDs))
	result := &domain.BulkMessageResult{Sent: len(userIDs)}
	for _, userID := range userIDs {
		result.Results = append(result.Results, domain.MessageResult{UserID: userID, OK: true})
	}
	return result, nil
}
