package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/apperr"
)

// Conversation is a user's chat thread. The steady state is one
// conversation per user, created lazily on the first message.
type Conversation struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolveOrCreate returns the conversation a message should go to.
//
// With an explicit id, the conversation must exist and belong to the caller;
// a missing id and a foreign id both yield the same AccessDenied, so callers
// can't probe whether someone else's conversation id exists. Without an id,
// the caller's single conversation is found or created.
func (s *Store) ResolveOrCreate(ctx context.Context, userID, conversationID string) (*Conversation, error) {
	if conversationID != "" {
		conv, err := s.getConversation(ctx, conversationID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.AccessDenied("conversation not accessible")
		}
		if err != nil {
			return nil, err
		}
		if conv.UserID != userID {
			return nil, apperr.AccessDenied("conversation not accessible")
		}
		return conv, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM conversations
		 WHERE user_id = ? ORDER BY created_at ASC LIMIT 1`, userID)
	conv, err := scanConversation(row)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	conv = &Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		conv.ID, conv.UserID, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Store) getConversation(ctx context.Context, id string) (*Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM conversations WHERE id = ?`, id)
	return scanConversation(row)
}

func scanConversation(row *sql.Row) (*Conversation, error) {
	var c Conversation
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &c.UserID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = time.UnixMilli(createdAt)
	c.UpdatedAt = time.UnixMilli(updatedAt)
	return &c, nil
}
