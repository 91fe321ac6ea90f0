package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"communityevents/internal/domain"
)

type httpClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewHTTPClient returns an EventProvider that calls the CMS REST API at
// baseURL. token is optional; when set it is sent as a bearer token.
func NewHTTPClient(client *http.Client, baseURL, token string) domain.EventProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *httpClient) GetEvent(ctx context.Context, slug string) (*domain.Event, error) {
	event := &domain.Event{}
	if err := c.getJSON(ctx, "/api/events/"+slug, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (c *httpClient) GetEventSchedule(ctx context.Context, slug string) ([]domain.ScheduleItem, error) {
	var schedule []domain.ScheduleItem
	if err := c.getJSON(ctx, "/api/events/"+slug+"/schedule", &schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (c *httpClient) GetAllEventAttachments(ctx context.Context, slug string) (map[string][]domain.Attachment, error) {
	attachments := map[string][]domain.Attachment{}
	if err := c.getJSON(ctx, "/api/events/"+slug+"/attachments", &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch from cms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cms api returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode cms response: %w", err)
	}
	return nil
}
