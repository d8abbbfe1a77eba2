package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/taskpilot/taskpilot/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logging.Disable()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *Store, email string) *User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), email, "Test User", "not-a-real-hash")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
