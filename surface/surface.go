// Package surface abstracts the rendering platform behind the capture
// engine and the action executor. A Surface receives the synthetic
// notifications an action produces (click activation, value commit, key
// triad, pointer hover); a Source produces document snapshots to
// capture from.
//
// The in-memory implementation in this package mutates a parsed
// document and records every dispatched event, so executor decision
// logic is testable without a rendering surface. The rodpage
// subpackage drives a live Chromium page instead.
package surface

import (
	"context"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
)

// ScrollDirection for page-level scrolling.
type ScrollDirection string

const (
	ScrollUp     ScrollDirection = "up"
	ScrollDown   ScrollDirection = "down"
	ScrollTop    ScrollDirection = "top"
	ScrollBottom ScrollDirection = "bottom"
)

// ParseScrollDirection validates a direction token. Empty defaults to down.
func ParseScrollDirection(s string) (ScrollDirection, bool) {
	switch ScrollDirection(s) {
	case ScrollUp, ScrollDown, ScrollTop, ScrollBottom:
		return ScrollDirection(s), true
	case "":
		return ScrollDown, true
	}
	return "", false
}

// Source produces the document snapshot a capture walks.
type Source interface {
	// Snapshot returns the current document. Each capture calls this
	// once; the returned Document must stay addressable until the next
	// call so registered handles remain resolvable.
	Snapshot(ctx context.Context) (*axdom.Document, error)
}

// Surface receives the platform notifications actions produce. Every
// method is a single attempt: no retries, no implicit waiting.
type Surface interface {
	// Click invokes the node's default activation exactly once.
	Click(ctx context.Context, n *html.Node) error

	// SetValue replaces the node's value and fires the input-changed
	// and value-committed notifications frameworks listen for.
	SetValue(ctx context.Context, n *html.Node, value string) error

	// Focus moves input focus to the node.
	Focus(ctx context.Context, n *html.Node) error

	// Hover fires pointer-enter/pointer-over without moving focus.
	Hover(ctx context.Context, n *html.Node) error

	// ScrollIntoView brings the node into the viewport, centered.
	ScrollIntoView(ctx context.Context, n *html.Node) error

	// PressKey synthesizes a down/press/up triad against the focused
	// node, or the document body when nothing holds focus.
	PressKey(ctx context.Context, key Key) error

	// ScrollPage moves the viewport by 80% of its height, or snaps to
	// the very top or bottom.
	ScrollPage(ctx context.Context, dir ScrollDirection) error

	// Highlight is cosmetic feedback: fire-and-forget, never part of
	// an action's success contract.
	Highlight(n *html.Node)
}

// Page is a full backend: snapshots plus notifications.
type Page interface {
	Source
	Surface
}
