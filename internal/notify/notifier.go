package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/event"
	"github.com/mesteruh/sentry-mattermost/internal/format"
	"github.com/mesteruh/sentry-mattermost/internal/mattermost"
)

// Sender delivers one formatted message. Satisfied by *mattermost.Client.
type Sender interface {
	Send(ctx context.Context, msg mattermost.Message) error
}

// Notifier turns an event Record into a chat message and delivers it.
// Stateless; each Notify call is independent.
type Notifier struct {
	cfg    config.MattermostConfig
	sender Sender
}

// New creates a Notifier from cfg, posting to the configured webhook.
func New(cfg config.MattermostConfig) *Notifier {
	return &Notifier{cfg: cfg, sender: mattermost.NewClient(cfg.Webhook)}
}

// NewWithSender creates a Notifier with a custom Sender. Used in tests.
func NewWithSender(cfg config.MattermostConfig, s Sender) *Notifier {
	return &Notifier{cfg: cfg, sender: s}
}

// IsConfigured reports whether a webhook URL is set. Nothing is sent while
// it returns false.
func (n *Notifier) IsConfigured() bool {
	return n.cfg.Webhook != ""
}

// Template returns the effective message template.
func (n *Notifier) Template() string {
	if n.cfg.CustomFormat != "" {
		return n.cfg.CustomFormat
	}
	return format.DefaultTemplate
}

// Render produces the message text for rec without sending it.
func (n *Notifier) Render(rec event.Record) (string, error) {
	fields := rec.Fields()
	fields["tags"] = format.TagLine(rec.Tags, format.TagOptions{
		IncludeKeys:  n.cfg.IncludeKeysWithTags,
		IncludedKeys: format.SplitTagKeys(n.cfg.IncludedTagKeys),
		ExcludedKeys: format.SplitTagKeys(n.cfg.ExcludedTagKeys),
	})
	text, err := format.Render(n.Template(), fields)
	if err != nil {
		return "", fmt.Errorf("rendering notification: %w", err)
	}
	return text, nil
}

// Notify formats rec and posts it to the webhook. The outcome of the single
// delivery attempt is returned; failures are logged, never retried.
func (n *Notifier) Notify(ctx context.Context, rec event.Record) error {
	text, err := n.Render(rec)
	if err != nil {
		return err
	}

	msg := mattermost.Message{
		Text:     text,
		Username: n.cfg.Username,
		Channel:  n.cfg.Channel,
		IconURL:  mattermost.IconURL(rec.Level, n.cfg.LogoMatchLevel),
	}
	if msg.Username == "" {
		msg.Username = "Sentry"
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		slog.Warn("notify: webhook send failed",
			"project", rec.ProjectSlug, "event", rec.ID, "error", err)
		return err
	}
	slog.Debug("notify: delivered", "project", rec.ProjectSlug, "event", rec.ID)
	return nil
}
