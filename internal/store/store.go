// Package store is the persistence gateway for users, conversations,
// messages and triage results. Two implementations share the Gateway
// contract: a Postgres repository and an in-memory fixture used when no
// database is configured and by tests.
package store

import (
	"context"
	"errors"

	"salud-chatbot/pkg"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("store: not found")

// Gateway exposes the create/read operations the chat core relies on.
// Inserts return the generated record; list operations order by creation
// time ascending.
type Gateway interface {
	FindUserByPhone(ctx context.Context, phone string) (*pkg.User, error)
	CreateUser(ctx context.Context, phone, name, region string) (*pkg.User, error)

	FindOpenConversation(ctx context.Context, userID string) (*pkg.Conversation, error)
	CreateConversation(ctx context.Context, userID string) (*pkg.Conversation, error)
	CloseConversation(ctx context.Context, conversationID string) error

	CreateMessage(ctx context.Context, conversationID string, sender pkg.Sender, content string) (*pkg.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]pkg.Message, error)

	CreateTriageResult(ctx context.Context, result *pkg.TriageResult) (*pkg.TriageResult, error)
	ListTriageResults(ctx context.Context, conversationID string) ([]pkg.TriageResult, error)
}
