package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

const messageColumns = "m.id, m.scope_type, m.scope_id, m.sender_id, m.body, m.is_read, m.created_at"

// MessageRepository implements secondary.MessageRepository with database/sql.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a new message.
func (r *MessageRepository) Create(ctx context.Context, message *secondary.MessageRecord) error {
	readInt := 0
	if message.IsRead {
		readInt = 1
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (id, scope_type, scope_id, sender_id, body, is_read, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		message.ID, message.ScopeType, message.ScopeID, nullString(message.SenderID), message.Body, readInt, message.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by its ID.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*secondary.MessageRecord, error) {
	record, err := scanMessage(r.db.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM messages m WHERE m.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("message %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return record, nil
}

// ListByScope retrieves the messages of one entity in creation order.
func (r *MessageRepository) ListByScope(ctx context.Context, scopeType, scopeID string) ([]*secondary.MessageRecord, error) {
	return r.query(ctx,
		"SELECT "+messageColumns+" FROM messages m WHERE m.scope_type = $1 AND m.scope_id = $2 ORDER BY m.created_at ASC, m.id ASC",
		scopeType, scopeID,
	)
}

// ListAll retrieves every message in creation order.
func (r *MessageRepository) ListAll(ctx context.Context) ([]*secondary.MessageRecord, error) {
	return r.query(ctx, "SELECT "+messageColumns+" FROM messages m ORDER BY m.created_at ASC, m.id ASC")
}

// ListForClient retrieves messages on quotes and orders owned by clientID.
func (r *MessageRepository) ListForClient(ctx context.Context, clientID string) ([]*secondary.MessageRecord, error) {
	return r.query(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		LEFT JOIN quotes q ON m.scope_type = 'quote' AND q.id = m.scope_id
		LEFT JOIN orders o ON m.scope_type = 'order' AND o.id = m.scope_id
		WHERE q.client_id = $1 OR o.client_id = $1
		ORDER BY m.created_at ASC, m.id ASC`,
		clientID,
	)
}

// MarkRead sets is_read on the given IDs and returns how many matched.
func (r *MessageRepository) MarkRead(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read = 1 WHERE id IN ("+placeholders(1, len(ids))+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages as read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count marked messages: %w", err)
	}
	return int(n), nil
}

func (r *MessageRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*secondary.MessageRecord
	for rows.Next() {
		record, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, record)
	}
	return messages, rows.Err()
}

func scanMessage(row rowScanner) (*secondary.MessageRecord, error) {
	var (
		record  secondary.MessageRecord
		sender  sql.NullString
		readInt int
	)
	if err := row.Scan(&record.ID, &record.ScopeType, &record.ScopeID, &sender, &record.Body, &readInt, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.SenderID = stringFromNull(sender)
	record.IsRead = readInt == 1
	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}

// Ensure MessageRepository implements the interface.
var _ secondary.MessageRepository = (*MessageRepository)(nil)
