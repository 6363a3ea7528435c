package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/notification"
)

// Client is an HTTP Fetcher against the notifications API. Identity and role
// are carried by the JWT, so the userID/role arguments are ignored on the
// wire and only serve the Fetcher contract.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Fetcher = (*Client)(nil)

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context, _ string, _ notification.Role) ([]notification.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/notifications", nil)
	if err != nil {
		return nil, errors.Wrap(err, "preparing notifications request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching notifications")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching notifications: %s", resp.Status)
	}

	var events []notification.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, errors.Wrap(err, "decoding notifications")
	}
	return events, nil
}

func (c *Client) Clear(ctx context.Context, _ string, _ notification.Role) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/notifications/clear", nil)
	if err != nil {
		return errors.Wrap(err, "preparing clear request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "clearing notifications")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("clearing notifications: %s", resp.Status)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrap(err, "decoding clear response")
	}
	if !body.Success {
		return errors.New("clearing notifications: server returned success=false")
	}
	return nil
}
