package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Notifier wraps Postgres LISTEN/NOTIFY for urgent triage escalations. When
// an urgent verdict is stored, Notify publishes the conversation id on the
// configured channel so a care-team dashboard can subscribe with Listen.
// It is only constructed in Postgres mode; the in-memory gateway has no
// equivalent and escalations fall back to log output.
type Notifier struct {
	db       *sql.DB
	conninfo string
	channel  string
}

// NewNotifier constructs a Notifier. The conninfo is the same DSN used to
// open the main pool; Listen opens its own dedicated connection from it.
func NewNotifier(db *sql.DB, conninfo, channel string) *Notifier {
	return &Notifier{db: db, conninfo: conninfo, channel: channel}
}

// Notify publishes a conversation id on the escalation channel.
func (n *Notifier) Notify(ctx context.Context, conversationID string) error {
	_, err := n.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.channel, conversationID)
	return err
}

// Listen yields conversation ids as escalations arrive on the channel. The
// returned channel is closed when ctx is cancelled.
func (n *Notifier) Listen(ctx context.Context) (<-chan string, error) {
	listener := pq.NewListener(n.conninfo, 10*time.Second, time.Minute, nil)
	if err := listener.Listen(n.channel); err != nil {
		_ = listener.Close()
		return nil, err
	}
	ch := make(chan string)
	go func() {
		defer func() {
			_ = listener.Close()
			close(ch)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case notification, ok := <-listener.Notify:
				if !ok {
					return
				}
				// nil notifications signal a reconnect; skip them.
				if notification == nil {
					continue
				}
				select {
				case ch <- notification.Extra:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
