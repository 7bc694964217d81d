package observability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/axbridge/dbopen"
	"github.com/hazyhaar/axbridge/idgen"
)

// ToolCall is one dispatched operation to record.
type ToolCall struct {
	Operation    string
	Transport    string // "native", "http", "mcp"
	RequestID    string
	TabID        string
	Duration     time.Duration
	Success      bool
	ErrorMessage string
}

// CallLogger writes per-call telemetry rows.
type CallLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// CallLoggerOption configures a CallLogger.
type CallLoggerOption func(*CallLogger)

// WithCallIDGenerator sets a custom ID generator for call IDs.
func WithCallIDGenerator(gen idgen.Generator) CallLoggerOption {
	return func(l *CallLogger) { l.newID = gen }
}

// NewCallLogger creates a logger backed by the given observability database.
func NewCallLogger(db *sql.DB, opts ...CallLoggerOption) *CallLogger {
	l := &CallLogger{
		db:    db,
		newID: idgen.Prefixed("tc_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log records one tool call. Non-blocking: errors are logged via slog
// but do not propagate, so a failing observability store never blocks
// the bridge. The insert rides dbopen's busy retry because the
// heartbeat writer shares the file.
func (l *CallLogger) Log(ctx context.Context, call ToolCall) {
	_, err := dbopen.RetryExec(ctx, l.db, `
		INSERT INTO tool_call_logs (
			call_id, operation, transport, request_id, tab_id,
			duration_ms, success, error_message, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		l.newID(), call.Operation, call.Transport, call.RequestID, call.TabID,
		call.Duration.Milliseconds(), call.Success, call.ErrorMessage, time.Now().Unix())
	if err != nil {
		slog.Error("observability call log failed", "error", err, "operation", call.Operation)
	}
}

// OperationStats aggregates tool_call_logs for one operation.
type OperationStats struct {
	Operation     string  `json:"operation"`
	Calls         int64   `json:"calls"`
	Failures      int64   `json:"failures"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

// Stats returns per-operation aggregates over the last `since` window.
func Stats(ctx context.Context, db *sql.DB, since time.Duration) ([]OperationStats, error) {
	cutoff := time.Now().Add(-since).Unix()
	rows, err := db.QueryContext(ctx, `
		SELECT operation,
		       COUNT(*),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		       COALESCE(AVG(duration_ms), 0)
		FROM tool_call_logs
		WHERE created_at >= ?
		GROUP BY operation
		ORDER BY operation`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("observability: query stats: %w", err)
	}
	defer rows.Close()

	var out []OperationStats
	for rows.Next() {
		var s OperationStats
		if err := rows.Scan(&s.Operation, &s.Calls, &s.Failures, &s.AvgDurationMs); err != nil {
			return nil, fmt.Errorf("observability: scan stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RetentionConfig specifies per-table retention in days. Zero means no
// cleanup for that table.
type RetentionConfig struct {
	ToolCallsDays  int  `json:"tool_calls_days" yaml:"tool_calls_days"`
	HeartbeatsDays int  `json:"heartbeats_days" yaml:"heartbeats_days"`
	RunVacuumAfter bool `json:"run_vacuum_after" yaml:"run_vacuum_after"`
}

// Cleanup deletes records exceeding the retention thresholds.
func Cleanup(ctx context.Context, db *sql.DB, cfg RetentionConfig) error {
	now := time.Now().Unix()

	type cleanupTarget struct {
		table  string
		column string
		days   int
	}
	targets := []cleanupTarget{
		{"tool_call_logs", "created_at", cfg.ToolCallsDays},
		{"worker_heartbeats", "timestamp", cfg.HeartbeatsDays},
	}

	for _, t := range targets {
		if t.days <= 0 {
			continue
		}
		cutoff := now - int64(t.days*86400)
		q := fmt.Sprintf("DELETE FROM %s WHERE %s < ?", t.table, t.column)
		if _, err := dbopen.RetryExec(ctx, db, q, cutoff); err != nil {
			return fmt.Errorf("cleanup %s: %w", t.table, err)
		}
	}

	if cfg.RunVacuumAfter {
		if _, err := dbopen.RetryExec(ctx, db, "VACUUM"); err != nil {
			return fmt.Errorf("vacuum: %w", err)
		}
	}
	return nil
}
