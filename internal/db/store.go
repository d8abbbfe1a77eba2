package db

import "database/sql"

// Store wraps the database connection and exposes the query methods defined
// across users.go, tasks.go, conversations.go, messages.go, and ratelimit.go.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store from an open database connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection (used by tests)
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}
