package connectivity

import (
	"database/sql"

	"github.com/hazyhaar/axbridge/dbopen"
)

// Schema defines the routes table that drives the router. Each row maps
// an operation name to a dispatch strategy.
//
// Strategies:
//   - "local": dispatch to an in-memory Handler registered via RegisterLocal.
//   - "http":  dispatch via the HTTP transport factory to a remote bridge host.
//   - "noop":  silently succeed without doing anything (operation disabled).
//
// The config column holds per-route JSON (timeout_ms, max_retries,
// backoff_ms, content_type). Any UPDATE to this table increments
// PRAGMA data_version, which the Watch loop detects to trigger a
// hot-reload.
const Schema = `
CREATE TABLE IF NOT EXISTS routes (
    operation  TEXT PRIMARY KEY,
    strategy   TEXT NOT NULL CHECK(strategy IN ('local', 'http', 'noop')),
    endpoint   TEXT,
    config     TEXT DEFAULT '{}',
    updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_routes_strategy ON routes(strategy);

CREATE TRIGGER IF NOT EXISTS trg_routes_updated_at
AFTER UPDATE ON routes
FOR EACH ROW
BEGIN
    UPDATE routes SET updated_at = strftime('%s', 'now') WHERE operation = NEW.operation;
END;
`

// OpenDB opens a SQLite database at path with production-safe pragmas
// (WAL, busy_timeout, foreign keys). Use this instead of sql.Open for
// any database shared between Admin writes, Router.Reload reads, and
// Watch polling.
func OpenDB(path string) (*sql.DB, error) {
	return dbopen.Open(path, dbopen.WithBusyTimeout(5000))
}

// Init creates the routes table if it doesn't exist.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
