package db

import (
	"context"
	"testing"

	"github.com/taskpilot/taskpilot/internal/apperr"
)

func TestResolveOrCreate_SingleConversationPerUser(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	first, err := store.ResolveOrCreate(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := store.ResolveOrCreate(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected the same conversation on repeat resolve")
	}

	// Explicit id belonging to the caller is accepted as-is
	byID, err := store.ResolveOrCreate(ctx, user.ID, first.ID)
	if err != nil {
		t.Fatalf("resolve by id failed: %v", err)
	}
	if byID.ID != first.ID {
		t.Fatal("explicit id resolved to a different conversation")
	}
}

// A foreign conversation id and a nonexistent one must fail identically,
// so callers can't probe whether an id exists for another owner.
func TestResolveOrCreate_ForeignAndMissingIndistinguishable(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "owner@example.com")
	other := newTestUser(t, store, "other@example.com")
	ctx := context.Background()

	conv, err := store.ResolveOrCreate(ctx, owner.ID, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	foreignErr := func() error {
		_, err := store.ResolveOrCreate(ctx, other.ID, conv.ID)
		return err
	}()
	missingErr := func() error {
		_, err := store.ResolveOrCreate(ctx, other.ID, "no-such-conversation")
		return err
	}()

	if !apperr.IsKind(foreignErr, apperr.KindAccessDenied) {
		t.Fatalf("foreign id should be AccessDenied, got %v", foreignErr)
	}
	if !apperr.IsKind(missingErr, apperr.KindAccessDenied) {
		t.Fatalf("missing id should be AccessDenied, got %v", missingErr)
	}
	if foreignErr.Error() != missingErr.Error() {
		t.Fatalf("foreign and missing errors differ: %q vs %q", foreignErr, missingErr)
	}
}

func TestAppendMessage_OrderAndTouch(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "a@example.com")
	ctx := context.Background()

	conv, err := store.ResolveOrCreate(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if _, err := store.AppendMessage(ctx, conv.ID, RoleUser, "hello"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := store.AppendMessage(ctx, conv.ID, RoleAssistant, "hi there"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := store.AppendMessage(ctx, conv.ID, RoleUser, "add a task"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	recent, err := store.ListRecentMessages(ctx, conv.ID, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(recent))
	}
	// Newest first, even when appends land in the same millisecond
	if recent[0].Content != "add a task" || recent[2].Content != "hello" {
		t.Fatalf("wrong ordering: %q .. %q", recent[0].Content, recent[2].Content)
	}

	count, err := store.CountMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}
