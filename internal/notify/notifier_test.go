package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/event"
	"github.com/mesteruh/sentry-mattermost/internal/format"
	"github.com/mesteruh/sentry-mattermost/internal/mattermost"
)

type fakeSender struct {
	sent []mattermost.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mattermost.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func testRecord() event.Record {
	return event.Record{
		ProjectSlug: "checkout",
		ProjectName: "Checkout",
		Env:         "prod",
		Title:       "NullPointer",
		Link:        "https://sentry.io/issue/123",
		Level:       "error",
		Culprit:     "PaymentService.charge",
		Tags:        []event.Tag{{Key: "severity", Value: "#bug"}, {Key: "priority", Value: "#urgent"}},
	}
}

func TestNotifyDefaultTemplate(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(config.MattermostConfig{Webhook: "https://mm.example.com/hooks/x"}, sender)

	if err := n.Notify(context.Background(), testRecord()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	want := "#### Checkout - prod\n`#bug` `#urgent`\n\nPaymentService.charge\n[NullPointer](https://sentry.io/issue/123)"
	if msg.Text != want {
		t.Fatalf("unexpected text:\n got: %q\nwant: %q", msg.Text, want)
	}
	if msg.Username != "Sentry" {
		t.Fatalf("default bot name wrong: %q", msg.Username)
	}
}

func TestNotifyUsesConfiguredAppearance(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(config.MattermostConfig{
		Webhook:        "https://mm.example.com/hooks/x",
		Username:       "errbot",
		Channel:        "alerts",
		LogoMatchLevel: true,
		CustomFormat:   "{level}: {title}",
	}, sender)

	if err := n.Notify(context.Background(), testRecord()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	msg := sender.sent[0]
	if msg.Text != "error: NullPointer" {
		t.Fatalf("custom format ignored: %q", msg.Text)
	}
	if msg.Username != "errbot" || msg.Channel != "alerts" {
		t.Fatalf("appearance wrong: %+v", msg)
	}
	if msg.IconURL != mattermost.IconURL("error", true) {
		t.Fatalf("icon should match level: %q", msg.IconURL)
	}
}

func TestNotifyTagFiltering(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(config.MattermostConfig{
		Webhook:             "https://mm.example.com/hooks/x",
		CustomFormat:        "{tags}",
		IncludeKeysWithTags: true,
		ExcludedTagKeys:     "priority",
	}, sender)

	if err := n.Notify(context.Background(), testRecord()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got := sender.sent[0].Text; got != "`severity: #bug`" {
		t.Fatalf("tag filtering wrong: %q", got)
	}
}

func TestNotifyBadTemplateIsConfigError(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(config.MattermostConfig{
		Webhook:      "https://mm.example.com/hooks/x",
		CustomFormat: "{nope}",
	}, sender)

	err := n.Notify(context.Background(), testRecord())
	if err == nil {
		t.Fatal("expected render error")
	}
	if !errors.Is(err, format.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should be sent on a render error, got %d messages", len(sender.sent))
	}
}

func TestNotifySendFailureIsSurfaced(t *testing.T) {
	sender := &fakeSender{err: errors.New("webhook returned 500")}
	n := NewWithSender(config.MattermostConfig{Webhook: "https://mm.example.com/hooks/x"}, sender)

	if err := n.Notify(context.Background(), testRecord()); err == nil {
		t.Fatal("send failure must not be swallowed")
	}
}

func TestIsConfigured(t *testing.T) {
	if New(config.MattermostConfig{}).IsConfigured() {
		t.Fatal("empty webhook should not be configured")
	}
	if !New(config.MattermostConfig{Webhook: "https://mm.example.com/hooks/x"}).IsConfigured() {
		t.Fatal("webhook set should be configured")
	}
}
