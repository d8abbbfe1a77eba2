package db

import (
	"context"
	"strings"
	"testing"

	"github.com/taskpilot/taskpilot/internal/apperr"
)

func TestAddTask_Validation(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	if _, err := store.AddTask(ctx, user.ID, "   ", ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}
	if _, err := store.AddTask(ctx, user.ID, strings.Repeat("x", MaxTitleLen+1), ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for long title, got %v", err)
	}

	task, err := store.AddTask(ctx, user.ID, "  buy milk  ", " 2% ")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if task.Title != "buy milk" || task.Description != "2%" {
		t.Fatalf("fields not trimmed: %q %q", task.Title, task.Description)
	}
	if task.Completed {
		t.Fatal("new task must start incomplete")
	}
}

func TestToggleTask_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	task, err := store.AddTask(ctx, user.ID, "buy milk", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	toggled, err := store.ToggleTask(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected completed=true after first toggle")
	}

	// Toggle, not set: a second call flips it back
	toggled, err = store.ToggleTask(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if toggled.Completed {
		t.Fatal("expected completed=false after second toggle")
	}
}

func TestListTasks_FilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	first, _ := store.AddTask(ctx, user.ID, "first", "")
	second, _ := store.AddTask(ctx, user.ID, "second", "")
	if _, err := store.ToggleTask(ctx, user.ID, first.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	all, err := store.ListTasks(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	if all[0].ID != second.ID {
		t.Fatal("expected newest-first ordering")
	}

	done := true
	completed, err := store.ListTasks(ctx, user.ID, &done)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != first.ID {
		t.Fatalf("completed filter wrong: %+v", completed)
	}
}

func TestUpdateTask_PartialFields(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	task, _ := store.AddTask(ctx, user.ID, "buy milk", "whole")

	title := "buy oat milk"
	updated, err := store.UpdateTask(ctx, user.ID, task.ID, &title, nil)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "buy oat milk" || updated.Description != "whole" {
		t.Fatalf("partial update touched wrong fields: %+v", updated)
	}
}

func TestDeleteTask_Idempotence(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	task, _ := store.AddTask(ctx, user.ID, "buy milk", "")

	if err := store.DeleteTask(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.DeleteTask(ctx, user.ID, task.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("second delete should be NotFound, got %v", err)
	}
}

// Ownership mismatch must be indistinguishable from nonexistence across
// every operation.
func TestTaskOwnership_ForeignLooksLikeMissing(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "owner@example.com")
	other := newTestUser(t, store, "other@example.com")
	ctx := context.Background()

	task, _ := store.AddTask(ctx, owner.ID, "private", "")
	const missingID = int64(999999)

	type op func(userID string, taskID int64) error
	ops := map[string]op{
		"get": func(u string, id int64) error {
			_, err := store.GetTask(ctx, u, id)
			return err
		},
		"toggle": func(u string, id int64) error {
			_, err := store.ToggleTask(ctx, u, id)
			return err
		},
		"update": func(u string, id int64) error {
			title := "hijack"
			_, err := store.UpdateTask(ctx, u, id, &title, nil)
			return err
		},
		"delete": func(u string, id int64) error {
			return store.DeleteTask(ctx, u, id)
		},
	}

	for name, fn := range ops {
		foreignErr := fn(other.ID, task.ID)
		missingErr := fn(other.ID, missingID)
		if foreignErr == nil {
			t.Fatalf("%s: foreign task access succeeded", name)
		}
		if !apperr.IsKind(foreignErr, apperr.KindNotFound) {
			t.Fatalf("%s: foreign access should be NotFound, got %v", name, foreignErr)
		}
		if foreignErr.Error() != missingErr.Error() {
			t.Fatalf("%s: foreign and missing errors differ: %q vs %q", name, foreignErr, missingErr)
		}
	}

	// The owner is unaffected
	if _, err := store.GetTask(ctx, owner.ID, task.ID); err != nil {
		t.Fatalf("owner lost access: %v", err)
	}

	// list is owner-scoped too
	tasks, err := store.ListTasks(ctx, other.ID, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("foreign tasks leaked into list: %+v", tasks)
	}
}
