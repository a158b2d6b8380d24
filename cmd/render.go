package cmd

import (
	"fmt"

	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/notify"
	"github.com/spf13/cobra"
)

var (
	renderEventFile string
	renderTemplate  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Preview a rendered message without sending it",
	Long: `Renders an event payload through the configured (or --template
supplied) message template and prints the result to stdout. Nothing is sent.

Useful for testing custom formats before saving them:
  sentry-mattermost render --event alert.json --template '{level}: {title} ({link})'`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderEventFile, "event", "",
		"path to the event payload JSON, or - for stdin (required)")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "",
		"template to render with (overrides config)")
	_ = renderCmd.MarkFlagRequired("event")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if renderTemplate != "" {
		cfg.Mattermost.CustomFormat = renderTemplate
	}

	rec, err := readEvent(renderEventFile)
	if err != nil {
		return err
	}

	text, err := notify.New(cfg.Mattermost).Render(rec)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
