package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookEnricherExtractsText(t *testing.T) {
	var received webhookRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"llmResponse": "Descansa y toma líquidos."})
	}))
	defer server.Close()

	e := NewWebhookEnricher(server.URL, time.Second)
	text, err := e.Enrich(context.Background(), "tengo fiebre", "triage-cita")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if text != "Descansa y toma líquidos." {
		t.Fatalf("text: want=%q got=%q", "Descansa y toma líquidos.", text)
	}
	if received.Action != "solicitud_triage" {
		t.Fatalf("Action: want=%q got=%q", "solicitud_triage", received.Action)
	}
	if received.Data.Symptoms != "tengo fiebre" || received.Data.Context != "triage-cita" {
		t.Fatalf("Data: got %+v", received.Data)
	}
	if received.Timestamp == "" {
		t.Fatalf("Timestamp: want non-empty")
	}
}

func TestWebhookEnricherOpaqueSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}))
	defer server.Close()

	e := NewWebhookEnricher(server.URL, time.Second)
	text, err := e.Enrich(context.Background(), "tengo fiebre", "")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if text != "" {
		t.Fatalf("text: want empty for opaque payload got=%q", text)
	}
}

func TestWebhookEnricherNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	e := NewWebhookEnricher(server.URL, time.Second)
	if _, err := e.Enrich(context.Background(), "tengo fiebre", ""); err == nil {
		t.Fatalf("Enrich: want error on 500")
	}
}

func TestWebhookEnricherMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	e := NewWebhookEnricher(server.URL, time.Second)
	if _, err := e.Enrich(context.Background(), "tengo fiebre", ""); err == nil {
		t.Fatalf("Enrich: want error on malformed body")
	}
}

func TestWebhookEnricherUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	e := NewWebhookEnricher(server.URL, 100*time.Millisecond)
	if _, err := e.Enrich(context.Background(), "tengo fiebre", ""); err == nil {
		t.Fatalf("Enrich: want transport error")
	}
}
