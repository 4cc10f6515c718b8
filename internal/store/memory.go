package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"salud-chatbot/pkg"
)

// Memory is a self-contained in-memory Gateway with the same contract as
// the Postgres implementation. It backs the simulated mode (no DATABASE_URL
// configured) and the tests. Slices preserve insertion order, so listing is
// chronological even when two records share a timestamp.
type Memory struct {
	mu            sync.Mutex
	users         []pkg.User
	conversations []pkg.Conversation
	messages      []pkg.Message
	triage        []pkg.TriageResult
}

// NewMemory constructs an empty in-memory gateway.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) FindUserByPhone(_ context.Context, phone string) (*pkg.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(_ context.Context, phone, name, region string) (*pkg.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := pkg.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Name:      name,
		Region:    region,
		CreatedAt: time.Now(),
	}
	m.users = append(m.users, u)
	return &u, nil
}

func (m *Memory) FindOpenConversation(_ context.Context, userID string) (*pkg.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.conversations) - 1; i >= 0; i-- {
		c := m.conversations[i]
		if c.UserID == userID && c.Status == pkg.StatusOpen {
			conv := c
			return &conv, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateConversation(_ context.Context, userID string) (*pkg.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := pkg.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    pkg.StatusOpen,
		CreatedAt: time.Now(),
	}
	m.conversations = append(m.conversations, c)
	return &c, nil
}

func (m *Memory) CloseConversation(_ context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.conversations {
		if m.conversations[i].ID == conversationID {
			m.conversations[i].Status = pkg.StatusClosed
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CreateMessage(_ context.Context, conversationID string, sender pkg.Sender, content string) (*pkg.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.conversationExists(conversationID) {
		return nil, ErrNotFound
	}
	msg := pkg.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *Memory) ListMessages(_ context.Context, conversationID string) ([]pkg.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pkg.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *Memory) CreateTriageResult(_ context.Context, result *pkg.TriageResult) (*pkg.TriageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.conversationExists(result.ConversationID) {
		return nil, ErrNotFound
	}
	r := pkg.TriageResult{
		ID:             uuid.New().String(),
		ConversationID: result.ConversationID,
		Level:          result.Level,
		Confidence:     result.Confidence,
		Explanation:    result.Explanation,
		Advice:         append([]string(nil), result.Advice...),
		CreatedAt:      time.Now(),
	}
	m.triage = append(m.triage, r)
	return &r, nil
}

func (m *Memory) ListTriageResults(_ context.Context, conversationID string) ([]pkg.TriageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pkg.TriageResult
	for _, r := range m.triage {
		if r.ConversationID == conversationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// conversationExists must be called with the mutex held.
func (m *Memory) conversationExists(conversationID string) bool {
	for _, c := range m.conversations {
		if c.ID == conversationID {
			return true
		}
	}
	return false
}
