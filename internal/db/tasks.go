package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/taskpilot/taskpilot/internal/apperr"
)

// Task is a to-do item owned by exactly one user. Every query in this file
// filters on user_id; a task that exists under another owner is reported
// with the same NotFound as a task that doesn't exist at all.
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	// MaxTitleLen bounds task titles.
	MaxTitleLen = 500
	// MaxListResults caps how many tasks a single list call returns.
	MaxListResults = 100
)

func taskNotFound() error {
	return apperr.NotFound("task not found")
}

// AddTask creates a task for the given owner.
func (s *Store) AddTask(ctx context.Context, userID, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title", "title cannot be empty")
	}
	if len(title) > MaxTitleLen {
		return nil, apperr.Validation("title", "title must be 500 characters or less")
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		userID, title, strings.TrimSpace(description), now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, userID, id)
}

// ListTasks returns the owner's tasks, newest first, optionally filtered by
// completion state.
func (s *Store) ListTasks(ctx context.Context, userID string, completed *bool) ([]*Task, error) {
	query := `SELECT id, user_id, title, description, completed, created_at, updated_at
	          FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = ?`
		args = append(args, boolToInt(*completed))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, MaxListResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// GetTask returns a single task scoped to the owner.
func (s *Store) GetTask(ctx context.Context, userID string, taskID int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, taskNotFound()
	}
	return task, err
}

// ToggleTask flips the completed flag.
func (s *Store) ToggleTask(ctx context.Context, userID string, taskID int64) (*Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = NOT completed, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		time.Now().UnixMilli(), taskID, userID,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, taskNotFound()
	}
	return s.GetTask(ctx, userID, taskID)
}

// UpdateTask applies a partial update of the provided fields only.
func (s *Store) UpdateTask(ctx context.Context, userID string, taskID int64, title, description *string) (*Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UnixMilli()}

	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, apperr.Validation("title", "title cannot be empty")
		}
		if len(t) > MaxTitleLen {
			return nil, apperr.Validation("title", "title must be 500 characters or less")
		}
		sets = append(sets, "title = ?")
		args = append(args, t)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		args = append(args, strings.TrimSpace(*description))
	}

	args = append(args, taskID, userID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, taskNotFound()
	}
	return s.GetTask(ctx, userID, taskID)
}

// DeleteTask removes the task. A second delete of the same id reports
// NotFound, same as a delete of an id that never existed.
func (s *Store) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskNotFound()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var completed int
	var createdAt, updatedAt int64
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	t.CreatedAt = time.UnixMilli(createdAt)
	t.UpdatedAt = time.UnixMilli(updatedAt)
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
