package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mesteruh/sentry-mattermost/internal/config"
	"github.com/mesteruh/sentry-mattermost/internal/notify"
)

// Gateway is the thin HTTP ingress between Sentry's webhook integration and
// the notifier. It holds no state beyond its configuration; every incoming
// alert is formatted and dispatched synchronously inside its request.
type Gateway struct {
	cfg      *config.Config
	notifier *notify.Notifier
}

// New creates a Gateway. Call Start() to begin serving.
func New(cfg *config.Config) *Gateway {
	return &Gateway{
		cfg:      cfg,
		notifier: notify.New(cfg.Mattermost),
	}
}

// Start binds the HTTP server and blocks until ctx is cancelled.
func (gw *Gateway) Start(ctx context.Context) error {
	port := gw.cfg.Gateway.Port
	if port == 0 {
		port = 6190
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: buildHandler(gw),
	}

	// Shut down when ctx is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if !gw.notifier.IsConfigured() {
		slog.Warn("gateway: no webhook URL configured, incoming alerts will be rejected")
	}
	slog.Info("gateway: listening", "addr", "http://"+addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
