// Package core orchestrates conversation turns: it persists the trail,
// invokes the triage classifier, composes the tier-specific reply and
// hands the turn to the optional enrichment and agent-hub collaborators.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salud-chatbot/internal/agents"
	"salud-chatbot/internal/llm"
	"salud-chatbot/internal/logger"
	"salud-chatbot/internal/store"
	"salud-chatbot/internal/triage"
	"salud-chatbot/pkg"
)

// Service turns one patient message into a persisted trail, a reply and a
// triage verdict. It is request-scoped and stateless between turns except
// through the store.
type Service struct {
	store         store.Gateway
	enricher      llm.Enricher // nil disables enrichment
	hub           *agents.Hub  // nil disables agent events
	log           *logger.Logger
	threshold     float64
	enrichTimeout time.Duration
}

func NewService(gw store.Gateway, enricher llm.Enricher, hub *agents.Hub, log *logger.Logger, threshold float64, enrichTimeout time.Duration) *Service {
	return &Service{
		store:         gw,
		enricher:      enricher,
		hub:           hub,
		log:           log,
		threshold:     threshold,
		enrichTimeout: enrichTimeout,
	}
}

// HandleTurn processes one patient message. The classification itself
// never fails; an error here means the turn could not be persisted, in
// which case the caller must surface the generic apology instead of a
// verdict.
func (s *Service) HandleTurn(ctx context.Context, conversationID, text string) (string, pkg.Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return "", pkg.Verdict{}, ErrEmptyMessage
	}

	if _, err := s.persistWithRetry(ctx, conversationID, pkg.SenderUser, text); err != nil {
		// Best effort: leave the apology in the transcript, but never
		// loop if persistence is structurally broken.
		_, _ = s.store.CreateMessage(ctx, conversationID, pkg.SenderBot, apologyMessage)
		return "", pkg.Verdict{}, fmt.Errorf("persist user message: %w", err)
	}

	verdict := triage.Classify(text)
	s.log.Info("symptoms classified",
		"conversation_id", conversationID,
		"level", verdict.Level,
		"confidence", verdict.Confidence,
	)

	if verdict.Confidence > s.threshold {
		result := &pkg.TriageResult{
			ConversationID: conversationID,
			Level:          verdict.Level,
			Confidence:     verdict.Confidence,
			Explanation:    fmt.Sprintf("%s (confianza %.0f%%)", verdict.Explanation, verdict.Confidence*100),
			Advice:         verdict.Advice,
		}
		if _, err := s.store.CreateTriageResult(ctx, result); err != nil {
			s.log.Warn("triage result not persisted", "conversation_id", conversationID, "error", err)
		}
	}

	reply := composeReply(verdict, triage.ExtraAdvice(text))

	if s.hub != nil {
		s.hub.TurnCompleted(conversationID, verdict)
	}
	// Enrichment is awaited so the enriched text lands inside the
	// persisted bot message; the timeout bounds the added latency.
	if enriched := s.enrich(ctx, text, verdict); enriched != "" {
		reply = reply + "\n\n" + enrichmentHeader + "\n" + enriched
	}

	if _, err := s.persistWithRetry(ctx, conversationID, pkg.SenderBot, reply); err != nil {
		return "", pkg.Verdict{}, fmt.Errorf("persist bot message: %w", err)
	}
	return reply, verdict, nil
}

// persistWithRetry attempts a message insert twice. Validation-style
// failures (unknown conversation) are not retried.
func (s *Service) persistWithRetry(ctx context.Context, conversationID string, sender pkg.Sender, content string) (*pkg.Message, error) {
	msg, err := s.store.CreateMessage(ctx, conversationID, sender, content)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		return msg, err
	}
	s.log.Warn("message insert failed, retrying once", "conversation_id", conversationID, "error", err)
	return s.store.CreateMessage(ctx, conversationID, sender, content)
}

func (s *Service) enrich(ctx context.Context, symptoms string, verdict pkg.Verdict) string {
	if s.enricher == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()
	enriched, err := s.enricher.Enrich(ctx, symptoms, "triage-"+string(verdict.Level))
	if err != nil {
		s.log.Warn("enrichment unavailable, replying with local analysis", "error", err)
		return ""
	}
	return strings.TrimSpace(enriched)
}

// composeReply builds the reply text: tier header, explanation, advice
// list, symptom-specific extras and the tier closing instruction.
func composeReply(verdict pkg.Verdict, extra []string) string {
	var b strings.Builder
	b.WriteString(header(verdict.Level))
	b.WriteString("\n\n")
	b.WriteString(verdict.Explanation)
	b.WriteString("\n\n")
	for _, line := range verdict.Advice {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range extra {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(closing(verdict.Level))
	return b.String()
}

func header(level pkg.TriageLevel) string {
	switch level {
	case pkg.LevelUrgent:
		return headerUrgent
	case pkg.LevelAppointment:
		return headerAppointment
	default:
		return headerSelfCare
	}
}

func closing(level pkg.TriageLevel) string {
	switch level {
	case pkg.LevelUrgent:
		return closingUrgent
	case pkg.LevelAppointment:
		return closingAppointment
	default:
		return closingSelfCare
	}
}
