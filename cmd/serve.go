package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/gateway"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Sentry webhook ingress",
	Long: `Starts a local HTTP server that accepts Sentry webhook payloads and
forwards each alert to the configured Mattermost channel.

Point Sentry's webhook integration at:

  http://127.0.0.1:6190/hooks/sentry

Each alert is formatted and delivered synchronously; the response reports
the outcome of that single delivery (202 sent, 502 webhook failure).

Endpoints:
  GET  /health         liveness check
  POST /hooks/sentry   Sentry alert payload`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"HTTP port to listen on (default 6190, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort != 0 {
		cfg.Gateway.Port = servePort
	}

	return gateway.New(cfg).Start(ctx)
}
