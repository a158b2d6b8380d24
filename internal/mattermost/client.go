package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Version is set at build time via -ldflags and reported in the User-Agent.
var Version = "dev"

const defaultTimeout = 3 * time.Second

const iconBaseURL = "https://xd3coder.github.io/image-host/sentry-mattermost/64/"

// Message is the payload accepted by a Mattermost incoming webhook.
type Message struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
	Channel  string `json:"channel,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

// Client posts messages to a single Mattermost incoming webhook URL.
// One POST per message, no retries; a transport error or non-2xx response is
// returned to the caller.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a Client for the given incoming webhook URL.
func NewClient(webhookURL string) *Client {
	return &Client{
		url:    webhookURL,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Send delivers msg to the webhook. It reports only the outcome of this
// single call.
func (c *Client) Send(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "sentry-webhooks/"+Version)

	resp, err := c.client.Do(req) // #nosec G107 -- url is the user-configured Mattermost incoming webhook
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// IconURL picks the bot avatar for a notification. With matchLevel set the
// icon follows the event's logging level; otherwise the warning icon is used.
func IconURL(level string, matchLevel bool) string {
	if matchLevel && level != "" {
		return iconBaseURL + level + ".jpg"
	}
	return iconBaseURL + "warning.jpg"
}
