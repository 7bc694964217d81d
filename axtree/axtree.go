// CLAUDE:SUMMARY Engine orchestrator — serialized captures, generation swap, page-text reads, non-destructive preview.
// Package axtree compresses a live document into a small tree of
// interesting nodes, each carrying a stable integer handle, and executes
// discrete actions against a node identified only by that handle.
//
// One Engine owns one capture generation at a time. A capture walks the
// document once; every exposed interactive node is registered before the
// tree is returned. A later action resolves its handle directly through
// the registered generation — no re-traversal happens.
//
// Usage:
//
//	page, _ := surface.NewMemoryFromHTML(html, url)
//	eng := axtree.New(page, nil, logger)
//	cap, _ := eng.Capture(ctx)
//	res, _ := eng.Execute(ctx, axtree.ActionRequest{Type: axtree.ActionClick, Handle: &h})
package axtree

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/axbridge/axdom"
	"github.com/hazyhaar/axbridge/axtree/internal/refs"
	"github.com/hazyhaar/axbridge/surface"
)

// Engine is the capture engine and action executor.
//
// All operations serialize on one mutex: the registry is shared mutable
// state replaced wholesale per capture, and a second capture observing a
// partially-populated generation would be a correctness bug, not a
// performance one. Overlapping requests queue; none overlap.
type Engine struct {
	mu     sync.Mutex
	cfg    *Config
	logger *slog.Logger
	page   surface.Page
	gen    *refs.Generation
}

// New creates an Engine over a page backend.
func New(page surface.Page, cfg *Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		page:   page,
	}
}

// Capture walks the document and returns the nested semantic tree. The
// previous generation is discarded: every handle it issued is dead.
func (e *Engine) Capture(ctx context.Context) (*Capture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, b, err := e.buildLocked(ctx)
	if err != nil {
		return nil, err
	}
	top := b.build()
	e.gen = b.gen

	e.logger.Debug("axtree: capture complete",
		"generation", b.gen.ID, "handles", b.gen.Len(), "url", doc.URL)

	return &Capture{
		Tree:       assemble(top, axdom.Truncate(doc.Title, e.cfg.NameLimit)),
		URL:        doc.URL,
		Title:      doc.Title,
		Generation: b.gen.ID,
	}, nil
}

// CaptureCompact walks the document and returns only the interactive
// nodes as flat tuples. Handles are assigned in the same traversal order
// as Capture, so the two modes are cross-consistent for a single capture
// — but like Capture, this replaces the live generation.
func (e *Engine) CaptureCompact(ctx context.Context) (*CompactCapture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, b, err := e.buildLocked(ctx)
	if err != nil {
		return nil, err
	}
	b.build()
	e.gen = b.gen

	e.logger.Debug("axtree: compact capture complete",
		"generation", b.gen.ID, "handles", b.gen.Len(), "url", doc.URL)

	return &CompactCapture{
		Nodes:      b.compact,
		URL:        doc.URL,
		Title:      doc.Title,
		Count:      len(b.compact),
		Generation: b.gen.ID,
	}, nil
}

// Preview builds a tree against a scratch generation without touching
// the live registry. Inspection refreshes go through here so a remote
// client's handles survive a manual look at the page.
func (e *Engine) Preview(ctx context.Context) (*Capture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, b, err := e.buildLocked(ctx)
	if err != nil {
		return nil, err
	}
	top := b.build()

	return &Capture{
		Tree:       assemble(top, axdom.Truncate(doc.Title, e.cfg.NameLimit)),
		URL:        doc.URL,
		Title:      doc.Title,
		Generation: b.gen.ID,
	}, nil
}

func (e *Engine) buildLocked(ctx context.Context) (*axdom.Document, *builder, error) {
	doc, err := e.page.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("axtree: snapshot: %w", err)
	}
	return doc, newBuilder(doc, e.cfg), nil
}

// PageText reads visible text (or markdown) from the page, scoped by an
// optional selector. Registry state is untouched: a text read is never a
// capture.
func (e *Engine) PageText(ctx context.Context, req PageTextRequest) (*PageText, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := e.page.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("axtree: snapshot: %w", err)
	}

	scope := doc.Body()
	if req.Selector != "" {
		scope = doc.SelectOne(req.Selector)
		if scope == nil {
			return nil, fmt.Errorf("axtree: no element matches selector %q", req.Selector)
		}
	}

	var text string
	switch req.Format {
	case "", "text":
		text = axdom.Text(scope)
	case "markdown":
		text, err = axdom.Markdown(scope, doc.URL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &MissingParameterError{Param: "format", Detail: fmt.Sprintf("unsupported format %q", req.Format)}
	}

	limit := req.MaxLength
	if limit <= 0 {
		limit = e.cfg.PageTextLimit
	}
	truncated := false
	if r := []rune(text); len(r) > limit {
		text = string(r[:limit])
		truncated = true
	}
	return &PageText{Text: text, Truncated: truncated}, nil
}

// Generation returns the ID of the live generation, 0 before the first
// capture.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == nil {
		return 0
	}
	return e.gen.ID
}

// HandleCount returns the number of handles in the live generation.
func (e *Engine) HandleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen.Len()
}
