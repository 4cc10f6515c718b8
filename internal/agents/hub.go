// Package agents models the product's inter-agent coordination as an
// observer on the conversation orchestrator. The registry is immutable
// configuration loaded at process start; events change no verdict and no
// reply, and every failure is swallowed.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"salud-chatbot/internal/logger"
	"salud-chatbot/pkg"
)

// Agent describes one collaborating role in the system.
type Agent struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// Registry returns the fixed set of product agents.
func Registry() []Agent {
	return []Agent{
		{ID: "clinico", Name: "Agente Clínico", Skills: []string{"analizar_sintomas", "hacer_triage", "dar_consejos"}},
		{ID: "operacional", Name: "Agente Operacional", Skills: []string{"enviar_sms", "enviar_email", "crear_recordatorios"}},
		{ID: "supervisor", Name: "Agente Supervisor", Skills: []string{"revisar_casos_urgentes", "escalar_casos"}},
	}
}

// UrgentNotifier publishes an urgent-case escalation to whatever channel
// the deployment provides (Postgres NOTIFY in database mode).
type UrgentNotifier interface {
	Notify(ctx context.Context, conversationID string) error
}

// Hub receives turn events from the orchestrator. Urgent verdicts are
// escalated to the supervisor: logged, published through the notifier when
// one is configured, and posted to the automation webhook when one is set.
type Hub struct {
	log        *logger.Logger
	webhookURL string
	client     *http.Client
	notifier   UrgentNotifier
}

func NewHub(log *logger.Logger, webhookURL string, notifier UrgentNotifier) *Hub {
	return &Hub{
		log:        log,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		notifier:   notifier,
	}
}

type event struct {
	AgentType string                 `json:"agentType"`
	Data      map[string]interface{} `json:"data"`
	Timestamp string                 `json:"timestamp"`
}

// TurnCompleted records the outcome of one conversation turn. It returns
// immediately; all work happens on a detached goroutine with its own
// deadline so a slow webhook cannot delay the reply.
func (h *Hub) TurnCompleted(conversationID string, verdict pkg.Verdict) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.log.Info("agente clinico -> operacional: solicitud_triage",
			"conversation_id", conversationID,
			"level", verdict.Level,
			"confidence", verdict.Confidence,
		)
		if verdict.Level != pkg.LevelUrgent {
			return
		}

		h.log.Warn("agente supervisor: escalación de caso urgente",
			"conversation_id", conversationID,
		)
		if h.notifier != nil {
			if err := h.notifier.Notify(ctx, conversationID); err != nil {
				h.log.Warn("escalation notify failed", "error", err)
			}
		}
		if h.webhookURL != "" {
			h.postEvent(ctx, event{
				AgentType: "supervisor",
				Data: map[string]interface{}{
					"conversation_id": conversationID,
					"level":           verdict.Level,
					"explanation":     verdict.Explanation,
				},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}
	}()
}

func (h *Hub) postEvent(ctx context.Context, ev event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("agent webhook unreachable", "error", err)
		return
	}
	// The response payload is opaque; only delivery matters.
	_ = resp.Body.Close()
}
