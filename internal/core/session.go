package core

import (
	"context"
	"errors"
	"strings"

	"salud-chatbot/internal/store"
	"salud-chatbot/pkg"
)

// minPhoneLength is the minimum plausible length for a phone number.
const minPhoneLength = 8

var (
	// ErrInvalidPhone rejects phone numbers below the minimum length.
	ErrInvalidPhone = errors.New("core: número de teléfono inválido")
	// ErrEmptyMessage rejects blank symptom reports before anything is
	// persisted.
	ErrEmptyMessage = errors.New("core: el mensaje está vacío")
)

// StartSession resolves the user for a phone number and their open
// conversation, creating either when absent. A user has at most one open
// conversation; an existing one is reused.
func (s *Service) StartSession(ctx context.Context, phone, name string) (*pkg.User, *pkg.Conversation, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) < minPhoneLength {
		return nil, nil, ErrInvalidPhone
	}

	user, err := s.store.FindUserByPhone(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.store.CreateUser(ctx, phone, defaultName(phone, name), "")
		if err == nil {
			s.log.Info("user created", "user_id", user.ID)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	conversation, err := s.store.FindOpenConversation(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		conversation, err = s.store.CreateConversation(ctx, user.ID)
		if err == nil {
			s.log.Info("conversation opened", "conversation_id", conversation.ID, "user_id", user.ID)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return user, conversation, nil
}

// Messages returns the transcript of a conversation, oldest first.
func (s *Service) Messages(ctx context.Context, conversationID string) ([]pkg.Message, error) {
	return s.store.ListMessages(ctx, conversationID)
}

// TriageHistory returns the persisted verdicts of a conversation, oldest
// first. A conversation accumulates one per turn that crossed the
// confidence threshold.
func (s *Service) TriageHistory(ctx context.Context, conversationID string) ([]pkg.TriageResult, error) {
	return s.store.ListTriageResults(ctx, conversationID)
}

// CloseConversation marks a conversation closed. The core never closes
// conversations on its own; this is the explicit external action.
func (s *Service) CloseConversation(ctx context.Context, conversationID string) error {
	return s.store.CloseConversation(ctx, conversationID)
}

// defaultName falls back to the phone suffix when the patient gave no name.
func defaultName(phone, name string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	suffix := phone
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "Usuario " + suffix
}
