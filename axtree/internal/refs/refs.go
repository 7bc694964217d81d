// CLAUDE:SUMMARY Generation-tagged handle registry — contiguous integer handles, replaced wholesale per capture.
// Package refs owns the handle→node association for one capture
// generation. Handles are small contiguous integers assigned in
// traversal order, opaque to callers and valid only within their
// generation. The registry never owns node lifetime: a registered node
// can leave the document at any time, and resolution revalidates
// attachment at the point of use.
package refs

import (
	"sync/atomic"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
)

var generationSeq atomic.Uint64

// Generation is one capture's worth of handle assignments. It is built
// during a capture, frozen at capture end, and discarded wholesale when
// the next capture starts. Tagging every generation with a unique ID
// keeps a stale handle structurally distinguishable in logs even though
// the wire protocol carries plain integers.
type Generation struct {
	ID    uint64
	doc   *axdom.Document
	nodes []*html.Node
}

// NewGeneration starts an empty generation bound to one document snapshot.
func NewGeneration(doc *axdom.Document) *Generation {
	return &Generation{
		ID:  generationSeq.Add(1),
		doc: doc,
	}
}

// Register assigns the next handle to a node. The first registered node
// gets handle 1; after k registrations the handles are exactly [1, k].
func (g *Generation) Register(n *html.Node) int {
	g.nodes = append(g.nodes, n)
	return len(g.nodes)
}

// Resolve returns the node for a handle. It fails when the handle was
// never assigned in this generation (which includes every handle from a
// previous generation) or when the node has been detached from the
// document since capture.
func (g *Generation) Resolve(handle int) (*html.Node, bool) {
	if g == nil || handle < 1 || handle > len(g.nodes) {
		return nil, false
	}
	n := g.nodes[handle-1]
	if g.doc != nil && !g.doc.Contains(n) {
		return nil, false
	}
	return n, true
}

// Len returns the number of handles assigned so far.
func (g *Generation) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// Doc returns the document snapshot this generation was captured from.
func (g *Generation) Doc() *axdom.Document {
	if g == nil {
		return nil
	}
	return g.doc
}
