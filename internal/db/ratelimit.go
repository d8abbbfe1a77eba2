package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// The login attempt governor. One row per email: failed attempt count,
// last attempt time, and an optional lockout deadline. The increment runs
// as a single upsert with RETURNING, and the store's single write
// connection serializes concurrent attempts, so the count can't race past
// the threshold or refresh an active lock prematurely.

// CheckLoginLock reports whether the email is currently locked out and, if
// so, how many seconds remain. Callers must not compare credentials while
// locked.
func (s *Store) CheckLoginLock(ctx context.Context, email string) (locked bool, retryAfter int, err error) {
	var lockedUntil sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT locked_until FROM rate_limits WHERE email = ?`, normalizeEmail(email)).Scan(&lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if !lockedUntil.Valid {
		return false, 0, nil
	}

	remaining := time.UnixMilli(lockedUntil.Int64).Sub(time.Now())
	if remaining <= 0 {
		return false, 0, nil
	}
	secs := int(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	return true, secs, nil
}

// RecordLoginFailure increments the failed attempt count and, when the
// count reaches threshold without an active lock, starts a new lockout
// window. Returns the new count.
func (s *Store) RecordLoginFailure(ctx context.Context, email string, threshold int, window time.Duration) (int, error) {
	now := time.Now()
	var count int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO rate_limits (email, failed_attempts, last_attempt, locked_until)
		 VALUES (?, 1, ?, NULL)
		 ON CONFLICT(email) DO UPDATE SET
		     failed_attempts = failed_attempts + 1,
		     last_attempt = excluded.last_attempt
		 RETURNING failed_attempts`,
		normalizeEmail(email), now.UnixMilli(),
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count >= threshold {
		// Only start a window when none is active; an in-flight lock is
		// never extended by further failures.
		_, err = s.db.ExecContext(ctx,
			`UPDATE rate_limits SET locked_until = ?
			 WHERE email = ? AND (locked_until IS NULL OR locked_until <= ?)`,
			now.Add(window).UnixMilli(), normalizeEmail(email), now.UnixMilli(),
		)
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

// ResetLoginFailures deletes the email's record entirely. Called on every
// successful login regardless of prior state.
func (s *Store) ResetLoginFailures(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM rate_limits WHERE email = ?`, normalizeEmail(email))
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
