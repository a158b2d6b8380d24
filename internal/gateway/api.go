package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mesteruh/sentry-mattermost/internal/event"
	"github.com/mesteruh/sentry-mattermost/internal/format"
)

// buildHandler wires the ingress routes onto a new ServeMux.
// Uses Go 1.22+ method-prefixed patterns ("GET /path", "POST /path").
func buildHandler(gw *Gateway) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("POST /hooks/sentry", gw.handleSentryHook)
	return mux
}

func (gw *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSentryHook accepts one Sentry alert payload, formats it and posts it
// to the Mattermost webhook before responding. 202 on delivered, 400 on an
// undecodable payload or a broken template, 502 when the webhook call fails.
func (gw *Gateway) handleSentryHook(w http.ResponseWriter, r *http.Request) {
	if !gw.notifier.IsConfigured() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no webhook URL configured",
		})
		return
	}

	rec, err := event.DecodePayload(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := gw.notifier.Notify(r.Context(), rec); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, format.ErrUnknownField) {
			// Template misconfiguration, not a delivery problem.
			status = http.StatusBadRequest
		}
		slog.Warn("gateway: alert not delivered",
			"project", rec.ProjectSlug, "event", rec.ID, "error", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "sent",
		"project": rec.ProjectSlug,
		"event":   rec.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
