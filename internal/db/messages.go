package db

import (
	"context"
	"time"
)

// Message roles. Only user and assistant turns are persisted; tool traffic
// lives inside a single request and is returned to the client, not stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation. Append-only: messages are never
// mutated or deleted, and readers see them strictly ordered by creation
// time (the autoincrement id breaks same-millisecond ties).
type Message struct {
	ID             int64
	ConversationID string
	Role           string
	Content        string
	CreatedAt      time.Time
}

// AppendMessage inserts a message and bumps the conversation's updated_at.
func (s *Store) AppendMessage(ctx context.Context, conversationID, role, content string) (*Message, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, role, content, now.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, now.UnixMilli(), conversationID)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}, nil
}

// ListRecentMessages returns up to limit messages, newest first. The
// history windower walks this slice accumulating token cost and reverses
// what it keeps.
func (s *Store) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*Message, 0)
	for rows.Next() {
		var m Message
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = time.UnixMilli(createdAt)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// CountMessages returns how many messages a conversation holds (used by tests).
func (s *Store) CountMessages(ctx context.Context, conversationID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID).Scan(&n)
	return n, err
}
