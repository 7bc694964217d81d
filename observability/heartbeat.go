package observability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/hazyhaar/axbridge/dbopen"
)

// RuntimeMetrics is a point-in-time sample of process health, stored
// alongside each heartbeat so a stale worker leaves a diagnosable trail.
type RuntimeMetrics struct {
	Goroutines  int
	HeapAllocMB float64
	HeapSysMB   float64
	GCCycles    uint32
}

func sampleRuntime() RuntimeMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return RuntimeMetrics{
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(ms.Alloc) / (1 << 20),
		HeapSysMB:   float64(ms.Sys) / (1 << 20),
		GCCycles:    ms.NumGC,
	}
}

// HeartbeatWriter periodically records that this host process is alive
// in the worker_heartbeats table.
type HeartbeatWriter struct {
	db       *sql.DB
	worker   string
	hostname string
	pid      int
	interval time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewHeartbeatWriter creates a writer for the named worker.
func NewHeartbeatWriter(db *sql.DB, worker string, interval time.Duration) *HeartbeatWriter {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &HeartbeatWriter{
		db:       db,
		worker:   worker,
		hostname: host,
		pid:      os.Getpid(),
		interval: interval,
		logger:   slog.Default(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// WriteHeartbeat records one beat with current runtime metrics. The
// insert rides dbopen's busy retry: the call logger shares the file.
func (hw *HeartbeatWriter) WriteHeartbeat(ctx context.Context) error {
	m := sampleRuntime()
	_, err := dbopen.RetryExec(ctx, hw.db, `
		INSERT INTO worker_heartbeats (
			worker_name, hostname, worker_pid, timestamp,
			goroutines_count, memory_alloc_mb, memory_sys_mb, gc_count
		) VALUES (?,?,?,?,?,?,?,?)`,
		hw.worker, hw.hostname, hw.pid, time.Now().Unix(),
		m.Goroutines, m.HeapAllocMB, m.HeapSysMB, m.GCCycles)
	if err != nil {
		return fmt.Errorf("observability: insert heartbeat: %w", err)
	}
	return nil
}

// Start launches the heartbeat loop: one beat immediately, then one per
// interval until Stop or context cancellation.
func (hw *HeartbeatWriter) Start(ctx context.Context) {
	go func() {
		defer close(hw.done)

		beat := func() {
			if err := hw.WriteHeartbeat(ctx); err != nil {
				hw.logger.Error("observability: heartbeat", "worker", hw.worker, "error", err)
			}
		}
		beat()

		ticker := time.NewTicker(hw.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-hw.stop:
				return
			case <-ticker.C:
				beat()
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it.
func (hw *HeartbeatWriter) Stop() {
	close(hw.stop)
	<-hw.done
}

// HeartbeatStatus is the most recent beat for a worker plus a computed
// alive/stale verdict.
type HeartbeatStatus struct {
	WorkerName  string         `json:"worker_name"`
	Hostname    string         `json:"hostname"`
	PID         int            `json:"pid"`
	Timestamp   time.Time      `json:"timestamp"`
	Goroutines  int            `json:"goroutines"`
	HeapAllocMB float64        `json:"heap_alloc_mb"`
	HeapSysMB   float64        `json:"heap_sys_mb"`
	GCCycles    int            `json:"gc_cycles"`
	Alive       bool           `json:"alive"`
	StaleSince  *time.Duration `json:"stale_since,omitempty"`
}

// LatestHeartbeat returns the newest beat for worker, or nil when none
// was ever recorded. staleness is the alive boundary, typically 3x the
// write interval.
func LatestHeartbeat(ctx context.Context, db *sql.DB, worker string, staleness time.Duration) (*HeartbeatStatus, error) {
	row := db.QueryRowContext(ctx, `
		SELECT worker_name, hostname, worker_pid, timestamp,
		       goroutines_count, memory_alloc_mb, memory_sys_mb, gc_count
		FROM worker_heartbeats
		WHERE worker_name = ?
		ORDER BY timestamp DESC LIMIT 1`, worker)

	var hs HeartbeatStatus
	var ts int64
	err := row.Scan(&hs.WorkerName, &hs.Hostname, &hs.PID, &ts,
		&hs.Goroutines, &hs.HeapAllocMB, &hs.HeapSysMB, &hs.GCCycles)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("observability: latest heartbeat: %w", err)
	}

	hs.Timestamp = time.Unix(ts, 0)
	if age := time.Since(hs.Timestamp); age > staleness {
		stale := age - staleness
		hs.StaleSince = &stale
	} else {
		hs.Alive = true
	}
	return &hs, nil
}

// CleanupHeartbeats deletes beats older than retentionDays and returns
// the number removed.
func CleanupHeartbeats(ctx context.Context, db *sql.DB, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
	res, err := dbopen.RetryExec(ctx, db, `DELETE FROM worker_heartbeats WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("observability: cleanup heartbeats: %w", err)
	}
	return res.RowsAffected()
}
