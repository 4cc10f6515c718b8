package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookEnricher is the mediated-mode adapter: symptoms are posted to an
// automation endpoint (an n8n-style workflow) that may itself call the
// completion API and fan out notifications. The response body is opaque
// JSON; any of the usual text fields is accepted as the enrichment.
type WebhookEnricher struct {
	url    string
	client *http.Client
}

// NewWebhookEnricher constructs a mediated-mode enricher. The timeout also
// caps the whole request in case the caller's context carries none.
func NewWebhookEnricher(url string, timeout time.Duration) *WebhookEnricher {
	return &WebhookEnricher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookRequest struct {
	Action    string      `json:"action"`
	Data      webhookData `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type webhookData struct {
	Symptoms string `json:"symptoms"`
	Context  string `json:"context,omitempty"`
}

func (e *WebhookEnricher) Enrich(ctx context.Context, symptoms, scope string) (string, error) {
	payload, err := json.Marshal(webhookRequest{
		Action:    "solicitud_triage",
		Data:      webhookData{Symptoms: symptoms, Context: scope},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llm: automation endpoint returned %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("llm: decode automation response: %w", err)
	}
	for _, key := range []string{"llmResponse", "content", "message"} {
		if text, ok := body[key].(string); ok && text != "" {
			return text, nil
		}
	}
	// A 2xx with no recognised text field is a successful notification
	// with nothing to append.
	return "", nil
}
