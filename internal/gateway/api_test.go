package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mesteruh/sentry-mattermost/internal/config"
)

const hookBody = `{
  "id": "42",
  "project_slug": "checkout",
  "project_name": "Checkout",
  "culprit": "PaymentService.charge",
  "level": "error",
  "message": "NullPointer in charge",
  "url": "https://sentry.io/issue/123",
  "event": {
    "event_id": "abc",
    "title": "NullPointer",
    "environment": "prod",
    "tags": [["level", "error"]]
  }
}`

func newTestGateway(webhookURL string) *Gateway {
	return New(&config.Config{
		Mattermost: config.MattermostConfig{Webhook: webhookURL},
	})
}

func postHook(t *testing.T, gw *Gateway, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hooks/sentry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	buildHandler(gw).ServeHTTP(rr, req)
	return rr
}

func TestHookDeliversToWebhook(t *testing.T) {
	var received map[string]any
	mm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &received); err != nil {
			t.Errorf("webhook body not json: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer mm.Close()

	rr := postHook(t, newTestGateway(mm.URL), hookBody)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	text, _ := received["text"].(string)
	want := "#### Checkout - prod\n`error`\n\nPaymentService.charge\n[NullPointer](https://sentry.io/issue/123)"
	if text != want {
		t.Fatalf("unexpected message text:\n got: %q\nwant: %q", text, want)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "sent" || resp["project"] != "checkout" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestHookWebhookFailureReturns502(t *testing.T) {
	mm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mm.Close()

	rr := postHook(t, newTestGateway(mm.URL), hookBody)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHookMalformedPayloadReturns400(t *testing.T) {
	mm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("webhook must not be called for a malformed payload")
	}))
	defer mm.Close()

	rr := postHook(t, newTestGateway(mm.URL), "not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHookBadTemplateReturns400(t *testing.T) {
	mm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("webhook must not be called when the template is broken")
	}))
	defer mm.Close()

	gw := New(&config.Config{
		Mattermost: config.MattermostConfig{
			Webhook:      mm.URL,
			CustomFormat: "{no_such_field}",
		},
	})
	rr := postHook(t, gw, hookBody)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for template config error, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHookUnconfiguredReturns503(t *testing.T) {
	rr := postHook(t, newTestGateway(""), hookBody)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	buildHandler(newTestGateway("")).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
