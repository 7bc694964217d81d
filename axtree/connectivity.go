package axtree

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/axbridge/connectivity"
)

// Operation names as registered on the connectivity router. Every front
// (native host, HTTP, MCP) resolves through these.
const (
	OpCapture        = "ax_capture"
	OpCaptureCompact = "ax_capture_compact"
	OpPageText       = "ax_page_text"
	OpExecute        = "ax_execute"
)

// RegisterConnectivity registers the engine's operations on a
// connectivity Router.
//
// Registered operations:
//
//	ax_capture         — capture the nested semantic tree
//	ax_capture_compact — capture flat [handle, role, name, value?] tuples
//	ax_page_text       — read visible text or markdown, optionally scoped
//	ax_execute         — execute one action against a captured handle
func (e *Engine) RegisterConnectivity(router *connectivity.Router) {
	router.RegisterLocal(OpCapture, e.handleCapture)
	router.RegisterLocal(OpCaptureCompact, e.handleCaptureCompact)
	router.RegisterLocal(OpPageText, e.handlePageText)
	router.RegisterLocal(OpExecute, e.handleExecute)
}

func (e *Engine) handleCapture(ctx context.Context, _ []byte) ([]byte, error) {
	cap, err := e.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cap)
}

func (e *Engine) handleCaptureCompact(ctx context.Context, _ []byte) ([]byte, error) {
	cap, err := e.CaptureCompact(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cap)
}

func (e *Engine) handlePageText(ctx context.Context, payload []byte) ([]byte, error) {
	var req PageTextRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	pt, err := e.PageText(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(pt)
}

func (e *Engine) handleExecute(ctx context.Context, payload []byte) ([]byte, error) {
	var req ActionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	res, err := e.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}
