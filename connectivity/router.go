// CLAUDE:SUMMARY Tool-call router — local in-process dispatch by default, SQLite routes table can forward an operation to a remote bridge host.
// Package connectivity routes tool calls. Every front (native messaging
// host, HTTP, MCP) resolves an operation name through one Router, which
// dispatches either to the in-process handler or, when the routes table
// says so, to a remote bridge host over HTTP.
//
//	router := connectivity.New()
//	router.RegisterTransport("http", connectivity.HTTPFactory())
//	router.RegisterLocal("ax_capture", captureHandler)
//	go router.Watch(ctx, db, 200*time.Millisecond)
//
//	// Caller doesn't know or care whether this is local or remote:
//	resp, err := router.Call(ctx, "ax_capture", payload)
//
// The routes table in SQLite decides the strategy per operation. Change
// a row at runtime and the next Call picks up the new route without a
// restart.
package connectivity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Handler is a transport-agnostic operation: bytes in, bytes out. Both
// local Go functions and remote HTTP clients implement this signature.
type Handler func(ctx context.Context, payload []byte) ([]byte, error)

// TransportFactory creates a Handler for a remote endpoint. It receives
// the endpoint URL and the per-route config JSON. The returned close
// function is called when the route is removed or replaced during
// hot-reload; it may be nil if no cleanup is needed.
type TransportFactory func(endpoint string, config json.RawMessage) (handler Handler, close func(), err error)

// route is one row of the routes table.
type route struct {
	Operation string
	Strategy  string
	Endpoint  string
	Config    json.RawMessage
}

// fingerprint changes whenever the route's dispatch behavior changes.
func (rt route) fingerprint() string {
	return rt.Strategy + "|" + rt.Endpoint + "|" + string(rt.Config)
}

type remoteEntry struct {
	handler Handler
	close   func()
}

// Router dispatches tool calls by operation name. Thread-safe: reads
// use RLock, reloads use full Lock.
type Router struct {
	mu            sync.RWMutex
	localHandlers map[string]Handler
	remoteEntries map[string]remoteEntry
	routeSnap     map[string]route // last loaded snapshot for diffing
	factories     map[string]TransportFactory
	logger        *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets a custom logger for the router.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New creates a Router with no routes. Register transports and local
// handlers, then optionally call Watch to hot-reload from SQLite.
func New(opts ...Option) *Router {
	r := &Router{
		localHandlers: make(map[string]Handler),
		remoteEntries: make(map[string]remoteEntry),
		routeSnap:     make(map[string]route),
		factories:     make(map[string]TransportFactory),
		logger:        slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RegisterLocal registers the in-process handler for an operation. With
// no routes table, or with strategy="local", Call dispatches here with
// zero network overhead.
func (r *Router) RegisterLocal(operation string, h Handler) {
	r.mu.Lock()
	r.localHandlers[operation] = h
	r.mu.Unlock()
}

// RegisterTransport registers a factory for a transport protocol,
// e.g. "http". The factory is called during Reload when a route uses
// this protocol.
func (r *Router) RegisterTransport(protocol string, f TransportFactory) {
	r.mu.Lock()
	r.factories[protocol] = f
	r.mu.Unlock()
}

// Operations returns the names of all registered local operations.
func (r *Router) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.localHandlers))
	for name := range r.localHandlers {
		out = append(out, name)
	}
	return out
}

// Call dispatches an operation. Resolution order:
//  1. Noop route — silently succeeds (operation disabled).
//  2. Explicit remote route from the routes table.
//  3. Local handler.
//  4. Error — operation not routable.
func (r *Router) Call(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	r.mu.RLock()
	entry, hasRemote := r.remoteEntries[operation]
	localH := r.localHandlers[operation]
	snap, hasRoute := r.routeSnap[operation]
	r.mu.RUnlock()

	if hasRoute && snap.Strategy == "noop" {
		r.logger.DebugContext(ctx, "routing noop", "operation", operation)
		return nil, nil
	}

	if hasRemote {
		r.logger.DebugContext(ctx, "routing remote",
			"operation", operation, "strategy", snap.Strategy, "endpoint", snap.Endpoint)
		return entry.handler(ctx, payload)
	}

	if localH != nil {
		r.logger.DebugContext(ctx, "routing local", "operation", operation)
		return localH(ctx, payload)
	}

	return nil, &ErrOperationNotFound{Operation: operation}
}

// Reload reads the routes table and rebuilds the remote handler map.
// Routes with strategy "local" or "noop" never create remote handlers.
// Only routes whose (strategy, endpoint, config) changed are rebuilt;
// unchanged routes keep their existing connections. Remote handlers are
// wrapped with the timeout and retry policy from the route config.
//
// A route that cannot be built (ErrNoFactory, ErrFactoryFailed) is
// skipped, not fatal: the remaining routes still load and the build
// errors come back joined so the caller can decide.
func (r *Router) Reload(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		`SELECT operation, strategy, COALESCE(endpoint, ''), COALESCE(config, '{}') FROM routes`)
	if err != nil {
		return fmt.Errorf("connectivity: query routes: %w", err)
	}
	defer rows.Close()

	newRoutes := make(map[string]route)
	for rows.Next() {
		var rt route
		var cfgStr string
		if err := rows.Scan(&rt.Operation, &rt.Strategy, &rt.Endpoint, &cfgStr); err != nil {
			return fmt.Errorf("connectivity: scan route: %w", err)
		}
		rt.Config = json.RawMessage(cfgStr)
		newRoutes[rt.Operation] = rt
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("connectivity: rows: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	newEntries := make(map[string]remoteEntry, len(newRoutes))
	var buildErrs []error

	for name, rt := range newRoutes {
		switch rt.Strategy {
		case "local", "noop":
			continue
		default:
			if old, ok := r.routeSnap[name]; ok && old.fingerprint() == rt.fingerprint() {
				if existing, exists := r.remoteEntries[name]; exists {
					newEntries[name] = existing
					continue
				}
			}

			factory, ok := r.factories[rt.Strategy]
			if !ok {
				r.logger.Warn("no transport factory for strategy",
					"operation", name, "strategy", rt.Strategy)
				buildErrs = append(buildErrs, &ErrNoFactory{Operation: name, Strategy: rt.Strategy})
				continue
			}

			h, closeFn, err := factory(rt.Endpoint, rt.Config)
			if err != nil {
				r.logger.Error("factory failed",
					"operation", name, "strategy", rt.Strategy,
					"endpoint", rt.Endpoint, "error", err)
				buildErrs = append(buildErrs, &ErrFactoryFailed{
					Operation: name,
					Strategy:  rt.Strategy,
					Endpoint:  rt.Endpoint,
					Cause:     err,
				})
				continue
			}
			h = resilienceFromConfig(rt.Config, r.logger)(h)
			newEntries[name] = remoteEntry{handler: h, close: closeFn}
			r.logger.Info("route built",
				"operation", name, "strategy", rt.Strategy, "endpoint", rt.Endpoint)
		}
	}

	// Close old entries that were removed or whose config changed.
	for name, old := range r.remoteEntries {
		if old.close == nil {
			continue
		}
		if _, stillExists := newEntries[name]; !stillExists {
			old.close()
			continue
		}
		oldSnap := r.routeSnap[name]
		newRt := newRoutes[name]
		if oldSnap.fingerprint() != newRt.fingerprint() {
			old.close()
		}
	}

	r.remoteEntries = newEntries
	r.routeSnap = newRoutes

	r.logger.Info("routes reloaded",
		"total", len(newRoutes),
		"remote", len(newEntries),
		"local", countLocal(newRoutes))

	return errors.Join(buildErrs...)
}

// Close shuts down all remote handlers.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.remoteEntries {
		if entry.close != nil {
			entry.close()
		}
	}
	r.remoteEntries = make(map[string]remoteEntry)
	r.routeSnap = make(map[string]route)
	return nil
}

func countLocal(routes map[string]route) int {
	n := 0
	for _, rt := range routes {
		if rt.Strategy == "local" {
			n++
		}
	}
	return n
}

// resilienceFromConfig builds the middleware stack a remote route asked
// for in its config JSON. An empty config yields a pass-through with
// the default timeout only.
func resilienceFromConfig(cfg json.RawMessage, logger *slog.Logger) HandlerMiddleware {
	rc := parseRetryConfig(cfg)

	timeout := 30 * time.Second
	if rc.TimeoutMs > 0 {
		timeout = time.Duration(rc.TimeoutMs) * time.Millisecond
	}

	mws := []HandlerMiddleware{WithTimeout(timeout)}
	if rc.MaxRetries > 0 {
		backoff := 100 * time.Millisecond
		if rc.BackoffMs > 0 {
			backoff = time.Duration(rc.BackoffMs) * time.Millisecond
		}
		mws = append(mws, WithRetry(rc.MaxRetries, backoff, logger))
	}
	return Chain(mws...)
}
