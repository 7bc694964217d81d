// CLAUDE:SUMMARY Single error boundary — decodes envelopes, dispatches through the router, wraps every outcome as {id, success, ...}.
// Package bridge relays requests between an extension-facing transport
// and the capture engine. It speaks the envelope contract
// {id, action, params} → {id, success:true, ...payload} or
// {id, success:false, error}, and is the single place where typed core
// errors turn into wire errors: transports below it never see a Go
// error, callers above it never see a panic.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hazyhaar/axbridge/axtree"
	"github.com/hazyhaar/axbridge/connectivity"
	"github.com/hazyhaar/axbridge/idgen"
	"github.com/hazyhaar/axbridge/kit"
	"github.com/hazyhaar/axbridge/observability"
)

// Envelope actions accepted from the extension side.
const (
	ActionGetAXTree        = "GET_AX_TREE"
	ActionGetAXTreeCompact = "GET_AX_TREE_COMPACT"
	ActionGetPageText      = "GET_PAGE_TEXT"
	ActionExecuteAction    = "EXECUTE_ACTION"
	ActionToggleSidebar    = "TOGGLE_SIDEBAR"
	ActionPing             = "PING"
)

// actionOps maps envelope actions to router operations.
var actionOps = map[string]string{
	ActionGetAXTree:        axtree.OpCapture,
	ActionGetAXTreeCompact: axtree.OpCaptureCompact,
	ActionGetPageText:      axtree.OpPageText,
	ActionExecuteAction:    axtree.OpExecute,
}

// request is the incoming envelope. The id is echoed verbatim so the
// extension can correlate; it may be a number or a string.
type request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Dispatcher routes envelopes and accounts for them.
type Dispatcher struct {
	router *connectivity.Router
	logger *slog.Logger
	calls  *observability.CallLogger
	newID  idgen.Generator

	started    time.Time
	pings      atomic.Uint64
	dispatches atomic.Uint64
	failures   atomic.Uint64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithCallLogger enables per-call telemetry rows.
func WithCallLogger(cl *observability.CallLogger) DispatcherOption {
	return func(d *Dispatcher) { d.calls = cl }
}

// NewDispatcher creates a Dispatcher over a connectivity router on
// which the engine operations are already registered.
func NewDispatcher(router *connectivity.Router, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		router:  router,
		logger:  slog.Default(),
		newID:   idgen.Prefixed("req_", idgen.Default),
		started: time.Now(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch handles one raw envelope and always produces a response
// envelope — malformed input, unknown actions and handler failures all
// come back as {id, success:false, error}.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) []byte {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fail(nil, "malformed request: "+err.Error())
	}

	switch req.Action {
	case ActionPing:
		d.pings.Add(1)
		return succeed(req.ID, map[string]any{
			"pong":           true,
			"uptime_seconds": int64(time.Since(d.started).Seconds()),
			"pings":          d.pings.Load(),
			"dispatches":     d.dispatches.Load(),
		})
	case ActionToggleSidebar:
		// UI concern of the extension; the relay only acknowledges.
		return succeed(req.ID, map[string]any{"toggled": true})
	}

	op, ok := actionOps[req.Action]
	if !ok {
		return fail(req.ID, "unknown action: "+req.Action)
	}

	payload, err := d.Call(ctx, op, "native", req.Params)
	if err != nil {
		return fail(req.ID, err.Error())
	}

	var body map[string]any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &body); err != nil {
			return fail(req.ID, "encode response: "+err.Error())
		}
	}
	return succeed(req.ID, body)
}

// Call routes one operation and records its telemetry. The HTTP front
// uses it directly; Dispatch adds the envelope handling on top.
func (d *Dispatcher) Call(ctx context.Context, op, transport string, params []byte) ([]byte, error) {
	requestID := d.newID()
	ctx = kit.WithRequestID(kit.WithTransport(ctx, transport), requestID)

	start := time.Now()
	payload, err := d.router.Call(ctx, op, params)
	dur := time.Since(start)

	d.dispatches.Add(1)
	if err != nil {
		d.failures.Add(1)
		d.logger.WarnContext(ctx, "bridge: dispatch failed",
			"operation", op, "transport", transport, "duration_ms", dur.Milliseconds(), "error", err)
	} else {
		d.logger.DebugContext(ctx, "bridge: dispatched",
			"operation", op, "transport", transport, "duration_ms", dur.Milliseconds())
	}

	if d.calls != nil {
		call := observability.ToolCall{
			Operation: op,
			Transport: transport,
			RequestID: requestID,
			Duration:  dur,
			Success:   err == nil,
		}
		if err != nil {
			call.ErrorMessage = err.Error()
		}
		d.calls.Log(ctx, call)
	}
	return payload, err
}

// Status summarizes the dispatcher for the /status endpoint.
type Status struct {
	UptimeSeconds int64    `json:"uptime_seconds"`
	Pings         uint64   `json:"pings"`
	Dispatches    uint64   `json:"dispatches"`
	Failures      uint64   `json:"failures"`
	Operations    []string `json:"operations"`
}

// Status returns current counters.
func (d *Dispatcher) Status() Status {
	ops := d.router.Operations()
	return Status{
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		Pings:         d.pings.Load(),
		Dispatches:    d.dispatches.Load(),
		Failures:      d.failures.Load(),
		Operations:    ops,
	}
}

func succeed(id json.RawMessage, body map[string]any) []byte {
	if body == nil {
		body = map[string]any{}
	}
	if len(id) > 0 {
		body["id"] = id
	}
	body["success"] = true
	out, _ := json.Marshal(body)
	return out
}

func fail(id json.RawMessage, msg string) []byte {
	body := map[string]any{"success": false, "error": msg}
	if len(id) > 0 {
		body["id"] = id
	}
	out, _ := json.Marshal(body)
	return out
}
