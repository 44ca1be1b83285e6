package channel

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// SQLite is a durable channel backed by a single table. Publish
// inserts a row, Poll leases unacked rows for the visibility window,
// Ack marks them consumed. A crashed consumer's leases expire and the
// rows are polled again.
type SQLite struct {
	db         *sql.DB
	Visibility time.Duration
}

func NewSQLite(db *sql.DB, visibility time.Duration) *SQLite {
	return &SQLite{db: db, Visibility: visibility}
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS channel_messages (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			acked INTEGER NOT NULL DEFAULT 0,
			leased_until DATETIME,
			created_at DATETIME NOT NULL
		);
	`)
	return err
}

func (c *SQLite) Publish(ctx context.Context, topic, key, value string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO channel_messages (id, topic, key, value, acked, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`,
		uuid.NewString(),
		topic,
		key,
		value,
		time.Now().UTC(),
	)
	return err
}

func (c *SQLite) Poll(ctx context.Context, topic string, max int, wait time.Duration) ([]Message, error) {
	deadline := time.Now().Add(wait)

	for {
		msgs, err := c.lease(ctx, topic, max)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			return msgs, nil
		}

		if !time.Now().Before(deadline) {
			return nil, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (c *SQLite) lease(ctx context.Context, topic string, max int) ([]Message, error) {
	now := time.Now().UTC()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, key, value
		FROM channel_messages
		WHERE topic = ?
		  AND acked = 0
		  AND (leased_until IS NULL OR leased_until < ?)
		ORDER BY created_at
		LIMIT ?
	`, topic, now, max)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.Key, &msg.Value); err != nil {
			return nil, err
		}
		candidates = append(candidates, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The update repeats the lease guard: two pollers can select the
	// same candidate, but only the one whose update lands keeps it.
	leasedUntil := now.Add(c.Visibility)
	var msgs []Message
	for _, msg := range candidates {
		res, err := c.db.ExecContext(ctx, `
			UPDATE channel_messages
			SET leased_until = ?
			WHERE id = ?
			  AND acked = 0
			  AND (leased_until IS NULL OR leased_until < ?)
		`, leasedUntil, msg.ID, now)
		if err != nil {
			return nil, err
		}
		claimed, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if claimed == 1 {
			msgs = append(msgs, msg)
		}
	}

	return msgs, nil
}

func (c *SQLite) Ack(ctx context.Context, topic, id string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE channel_messages
		SET acked = 1
		WHERE id = ? AND topic = ?
	`, id, topic)
	return err
}
