package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mesteruh/sentry-mattermost/internal/mattermost"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sentry-mattermost",
	Short: "Forward Sentry alerts to a Mattermost channel",
	Long: `sentry-mattermost receives alert events from Sentry's webhook
integration, renders them through a configurable message template and posts
the result to a Mattermost incoming webhook.

Get started:
  sentry-mattermost onboard   Interactive setup wizard
  sentry-mattermost serve     Run the webhook ingress
  sentry-mattermost send      Format and send a single event payload
  sentry-mattermost render    Preview a rendered message without sending`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.sentry-mattermost/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	mattermost.Version = Version
	rootCmd.AddCommand(
		onboardCmd,
		serveCmd,
		sendCmd,
		renderCmd,
		configCmd,
	)
}

func initLogging() {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
}
