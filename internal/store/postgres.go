package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"salud-chatbot/pkg"
)

// Postgres implements Gateway over a single Postgres database. The caller
// owns the *sql.DB lifecycle.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres gateway from an existing connection pool.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) FindUserByPhone(ctx context.Context, phone string) (*pkg.User, error) {
	var u pkg.User
	err := p.db.QueryRowContext(ctx,
		`SELECT id, phone, name, region, created_at
         FROM users
         WHERE phone = $1`,
		phone,
	).Scan(&u.ID, &u.Phone, &u.Name, &u.Region, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, phone, name, region string) (*pkg.User, error) {
	var u pkg.User
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users (id, phone, name, region)
         VALUES ($1, $2, $3, $4)
         RETURNING id, phone, name, region, created_at`,
		uuid.New().String(), phone, name, region,
	).Scan(&u.ID, &u.Phone, &u.Name, &u.Region, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (p *Postgres) FindOpenConversation(ctx context.Context, userID string) (*pkg.Conversation, error) {
	var c pkg.Conversation
	err := p.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, created_at
         FROM conversations
         WHERE user_id = $1 AND status = $2
         ORDER BY created_at DESC
         LIMIT 1`,
		userID, pkg.StatusOpen,
	).Scan(&c.ID, &c.UserID, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find open conversation: %w", err)
	}
	return &c, nil
}

func (p *Postgres) CreateConversation(ctx context.Context, userID string) (*pkg.Conversation, error) {
	var c pkg.Conversation
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO conversations (id, user_id, status)
         VALUES ($1, $2, $3)
         RETURNING id, user_id, status, created_at`,
		uuid.New().String(), userID, pkg.StatusOpen,
	).Scan(&c.ID, &c.UserID, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &c, nil
}

func (p *Postgres) CloseConversation(ctx context.Context, conversationID string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE conversations SET status = $1 WHERE id = $2`,
		pkg.StatusClosed, conversationID,
	)
	if err != nil {
		return fmt.Errorf("close conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateMessage(ctx context.Context, conversationID string, sender pkg.Sender, content string) (*pkg.Message, error) {
	// Verify the conversation exists so a bad id maps to ErrNotFound
	// instead of a foreign-key violation.
	var exists string
	err := p.db.QueryRowContext(ctx,
		`SELECT id FROM conversations WHERE id = $1`, conversationID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup conversation: %w", err)
	}

	var m pkg.Message
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender, content)
         VALUES ($1, $2, $3, $4)
         RETURNING id, conversation_id, sender, content, created_at`,
		uuid.New().String(), conversationID, sender, content,
	).Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &m, nil
}

func (p *Postgres) ListMessages(ctx context.Context, conversationID string) ([]pkg.Message, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, content, created_at
         FROM messages
         WHERE conversation_id = $1
         ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	var messages []pkg.Message
	for rows.Next() {
		var m pkg.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (p *Postgres) CreateTriageResult(ctx context.Context, result *pkg.TriageResult) (*pkg.TriageResult, error) {
	var r pkg.TriageResult
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO triage_results (id, conversation_id, level, confidence, explanation, advice)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, conversation_id, level, confidence, explanation, advice, created_at`,
		uuid.New().String(), result.ConversationID, result.Level,
		result.Confidence, result.Explanation, pq.Array(result.Advice),
	).Scan(&r.ID, &r.ConversationID, &r.Level, &r.Confidence, &r.Explanation,
		pq.Array(&r.Advice), &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create triage result: %w", err)
	}
	return &r, nil
}

func (p *Postgres) ListTriageResults(ctx context.Context, conversationID string) ([]pkg.TriageResult, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, conversation_id, level, confidence, explanation, advice, created_at
         FROM triage_results
         WHERE conversation_id = $1
         ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list triage results: %w", err)
	}
	defer rows.Close()
	var results []pkg.TriageResult
	for rows.Next() {
		var r pkg.TriageResult
		if err := rows.Scan(&r.ID, &r.ConversationID, &r.Level, &r.Confidence,
			&r.Explanation, pq.Array(&r.Advice), &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
