package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/event"
	"github.com/mesteruh/sentry-mattermost/internal/notify"
	"github.com/spf13/cobra"
)

var sendEventFile string

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Format a single event payload and post it to Mattermost",
	Long: `Reads one Sentry webhook payload from a JSON file (or stdin with
--event -), renders it through the configured template and posts the result
to the configured webhook.

Examples:
  sentry-mattermost send --event alert.json
  curl -s $SENTRY_EXPORT_URL | sentry-mattermost send --event -`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendEventFile, "event", "",
		"path to the event payload JSON, or - for stdin (required)")
	_ = sendCmd.MarkFlagRequired("event")
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	n := notify.New(cfg.Mattermost)
	if !n.IsConfigured() {
		return fmt.Errorf("no webhook URL configured; run 'sentry-mattermost onboard' first")
	}

	rec, err := readEvent(sendEventFile)
	if err != nil {
		return err
	}

	if err := n.Notify(context.Background(), rec); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	fmt.Printf("Sent alert %s for project %s\n", rec.ID, rec.ProjectSlug)
	return nil
}

func readEvent(path string) (event.Record, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return event.Record{}, fmt.Errorf("opening event file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return event.DecodePayload(r)
}
