package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/event"
	"github.com/mesteruh/sentry-mattermost/internal/format"
	"github.com/mesteruh/sentry-mattermost/internal/notify"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Interactive setup wizard for sentry-mattermost",
	Long: `Walks you through configuring sentry-mattermost:
  - Mattermost incoming webhook URL
  - Bot name, target channel and avatar behaviour
  - Message template and tag rendering

Finishes by offering to post a test message to the channel.`,
	RunE: runOnboard,
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED")).
	MarginBottom(1)

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#10B981"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

func runOnboard(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println(headerStyle.Render("  sentry-mattermost — Sentry alerts in your Mattermost channel"))
	fmt.Println(dimStyle.Render("  Formats Sentry events and posts them to an incoming webhook.\n"))

	// Load existing config or start fresh.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = &config.Config{}
	}

	// --- Step 1: Webhook ---
	fmt.Println(headerStyle.Render("  Step 1/3 · Mattermost webhook"))
	fmt.Println(dimStyle.Render("  Create one under Integrations → Incoming Webhooks in Mattermost,"))
	fmt.Println(dimStyle.Render("  then paste the generated URL here.\n"))

	webhook := cfg.Mattermost.Webhook
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Webhook URL").
			Placeholder("https://mattermost.example.com/hooks/...").
			Validate(func(s string) error {
				s = strings.TrimSpace(s)
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must be an http(s) URL")
				}
				return nil
			}).
			Value(&webhook),
	)).Run(); err != nil {
		return err
	}
	cfg.Mattermost.Webhook = strings.TrimSpace(webhook)

	// --- Step 2: Appearance ---
	fmt.Println(headerStyle.Render("  Step 2/3 · Message appearance"))

	username := cfg.Mattermost.Username
	if username == "" {
		username = "Sentry"
	}
	channel := cfg.Mattermost.Channel
	logoMatch := cfg.Mattermost.LogoMatchLevel
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Bot name").
			Description("The name shown in the channel when publishing notifications.").
			Value(&username),
		huh.NewInput().
			Title("Channel").
			Description("Leave empty to use the webhook's default channel.").
			Value(&channel),
		huh.NewConfirm().
			Title("Match avatar colour to the event level?").
			Value(&logoMatch),
	)).Run(); err != nil {
		return err
	}
	cfg.Mattermost.Username = strings.TrimSpace(username)
	cfg.Mattermost.Channel = strings.TrimSpace(channel)
	cfg.Mattermost.LogoMatchLevel = logoMatch

	// --- Step 3: Template and tags ---
	fmt.Println(headerStyle.Render("  Step 3/3 · Message template"))
	fmt.Println(dimStyle.Render("  Placeholders: {project_slug} {project_name} {env} {title} {id}"))
	fmt.Println(dimStyle.Render("  {link} {level} {tags} {message} {culprit} {release}\n"))

	customFormat := cfg.Mattermost.CustomFormat
	includeKeys := cfg.Mattermost.IncludeKeysWithTags
	includedKeys := cfg.Mattermost.IncludedTagKeys
	excludedKeys := cfg.Mattermost.ExcludedTagKeys
	if err := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("Custom format").
			Description("Markdown is supported. Leave empty for the default layout.").
			Placeholder(format.DefaultTemplate).
			Value(&customFormat),
		huh.NewConfirm().
			Title("Include tag keys in messages?").
			Description("Renders `key: value` instead of `value`.").
			Value(&includeKeys),
		huh.NewInput().
			Title("Included tag keys").
			Description("Comma separated. Leave empty to include all tags.").
			Value(&includedKeys),
		huh.NewInput().
			Title("Excluded tag keys").
			Description("Comma separated.").
			Value(&excludedKeys),
	)).Run(); err != nil {
		return err
	}
	cfg.Mattermost.CustomFormat = customFormat
	cfg.Mattermost.IncludeKeysWithTags = includeKeys
	cfg.Mattermost.IncludedTagKeys = includedKeys
	cfg.Mattermost.ExcludedTagKeys = excludedKeys

	// Reject templates that would fail on every alert before saving them.
	if _, err := notify.New(cfg.Mattermost).Render(sampleRecord()); err != nil {
		fmt.Println(warnStyle.Render("  Template problem: " + err.Error()))
		return fmt.Errorf("custom format is invalid: %w", err)
	}

	if err := config.Save(cfg, cfgFile); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	path, _ := config.ConfigPath(cfgFile)
	fmt.Println(successStyle.Render("  ✓ Configuration saved to " + path))

	// --- Optional test message ---
	var sendTest bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Post a test message to the channel now?").
			Value(&sendTest),
	)).Run(); err != nil {
		return err
	}
	if sendTest {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notify.New(cfg.Mattermost).Notify(ctx, sampleRecord()); err != nil {
			fmt.Println(warnStyle.Render("  Test message failed: " + err.Error()))
			return err
		}
		fmt.Println(successStyle.Render("  ✓ Test message delivered"))
	}
	return nil
}

// sampleRecord is the fixture used by the onboarding template check and test
// message.
func sampleRecord() event.Record {
	return event.Record{
		ProjectSlug: "internal",
		ProjectName: "Internal",
		Env:         "prod",
		Title:       "This is an example Sentry alert",
		ID:          "c6710b28a9cb4f0c8b2b2f3f5d2a9e01",
		Link:        "https://sentry.example.com/organizations/acme/issues/1/",
		Level:       "warning",
		Message:     "This is an example Sentry alert",
		Culprit:     "example.handler in process",
		Tags: []event.Tag{
			{Key: "level", Value: "warning"},
			{Key: "server_name", Value: "web-1"},
		},
	}
}
