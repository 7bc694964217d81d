package dbopen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SQLite rejects a write with BUSY when another connection holds the
// lock past busy_timeout. The daemon shares one observability file
// between the heartbeat writer, the call logger, and the retention
// pass, so brief contention is expected and absorbed here instead of
// surfacing to callers.
const (
	busyAttempts = 4
	busyBackoff  = 50 * time.Millisecond
)

// IsBusy reports whether err is an SQLite BUSY/locked condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"SQLITE_BUSY", "database is locked", "database table is locked"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// withBusyRetry runs op, retrying BUSY failures with doubling backoff.
// Any other error returns immediately.
func withBusyRetry(ctx context.Context, op func() error) error {
	backoff := busyBackoff
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !IsBusy(err) {
			return err
		}
		if attempt == busyAttempts {
			return fmt.Errorf("dbopen: still busy after %d attempts: %w", busyAttempts, err)
		}
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("dbopen: busy retry interrupted: %w", ctx.Err())
		case <-t.C:
		}
		backoff *= 2
	}
}

// RetryExec executes one statement, absorbing transient BUSY errors.
func RetryExec(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := withBusyRetry(ctx, func() error {
		var execErr error
		res, execErr = db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RunTx runs fn inside a transaction, retrying the whole transaction on
// BUSY. fn must be safe to re-run.
func RunTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	return withBusyRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("dbopen: begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("dbopen: commit: %w", err)
		}
		return nil
	})
}
