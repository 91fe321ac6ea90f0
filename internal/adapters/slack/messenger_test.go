package slack

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlackAPI struct {
	mu       sync.Mutex
	opened   []string
	posted   map[string]string
	failOpen map[string]error
	failPost map[string]error
}

func newFakeSlackAPI() *fakeSlackAPI {
	return &fakeSlackAPI{
		posted:   map[string]string{},
		failOpen: map[string]error{},
		failPost: map[string]error{},
	}
}

func (f *fakeSlackAPI) OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID := params.Users[0]
	f.opened = append(f.opened, userID)
	if err := f.failOpen[userID]; err != nil {
		return nil, false, false, err
	}
	channel := &slack.Channel{}
	channel.ID = "D-" + userID
	return channel, false, false, nil
}

func (f *fakeSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failPost[channelID]; err != nil {
		return "", "", err
	}
	f.posted[channelID] = "sent"
	return channelID, "ts", nil
}

func TestSendBulkDirectMessages(t *testing.T) {
	api := newFakeSlackAPI()
	m := &messenger{api: api}

	result, err := m.SendBulkDirectMessages(context.Background(), []string{"U1", "U2"}, "hei")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, result.Results, 2)
	assert.Contains(t, api.posted, "D-U1")
	assert.Contains(t, api.posted, "D-U2")
}

func TestSendBulkDirectMessages_PartialFailure(t *testing.T) {
	api := newFakeSlackAPI()
	api.failOpen["U2"] = errors.New("user_not_found")
	m := &messenger{api: api}

	result, err := m.SendBulkDirectMessages(context.Background(), []string{"U1", "U2", "U3"}, "hei")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)

	byUser := map[string]bool{}
	for _, r := range result.Results {
		byUser[r.UserID] = r.OK
	}
	assert.True(t, byUser["U1"])
	assert.False(t, byUser["U2"])
	assert.True(t, byUser["U3"])
}

func TestNewMessenger_EmptyTokenIsNoop(t *testing.T) {
	m := NewMessenger("")

	result, err := m.SendBulkDirectMessages(context.Background(), []string{"U1"}, "hei")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
}
