// CLAUDE:SUMMARY In-memory surface — mutates the parsed snapshot and records every dispatched notification.
package surface

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
)

// Event is one recorded platform notification.
type Event struct {
	Type  string // "click", "input", "change", "keydown", ...
	Node  *html.Node
	Value string
	Key   string
}

// Memory is the in-process backend: one mutable parsed document, no
// rendering. It is both the executor's test double and the default
// backend when no browser is attached.
type Memory struct {
	mu  sync.Mutex
	doc *axdom.Document

	events      []Event
	focused     *html.Node
	activations map[*html.Node]int

	// Scroll model. ContentHeight and ViewportHeight have page-ish
	// defaults so scroll math is observable in tests.
	ScrollY        float64
	ViewportHeight float64
	ContentHeight  float64
}

// NewMemory wraps an already-parsed document.
func NewMemory(doc *axdom.Document) *Memory {
	return &Memory{
		doc:            doc,
		activations:    make(map[*html.Node]int),
		ViewportHeight: 900,
		ContentHeight:  4000,
	}
}

// NewMemoryFromHTML parses raw HTML into a fresh backend.
func NewMemoryFromHTML(raw, url string) (*Memory, error) {
	doc, err := axdom.Parse(raw, url)
	if err != nil {
		return nil, err
	}
	return NewMemory(doc), nil
}

// Snapshot implements Source. The same document is returned every time:
// actions mutate it in place, so a re-capture observes their effects.
func (m *Memory) Snapshot(_ context.Context) (*axdom.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, fmt.Errorf("surface: no document loaded")
	}
	return m.doc, nil
}

// Doc returns the live document for direct test manipulation.
func (m *Memory) Doc() *axdom.Document { return m.doc }

func (m *Memory) record(e Event) {
	m.events = append(m.events, e)
}

// Events returns a copy of everything dispatched so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Activations returns how many times a node's default activation ran.
func (m *Memory) Activations(n *html.Node) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activations[n]
}

// Focused returns the node currently holding focus, or nil.
func (m *Memory) Focused() *html.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

func (m *Memory) Click(_ context.Context, n *html.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activations[n]++
	m.record(Event{Type: "click", Node: n})
	return nil
}

func (m *Memory) SetValue(_ context.Context, n *html.Node, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	axdom.SetAttr(n, "value", value)
	m.record(Event{Type: "input", Node: n, Value: value})
	m.record(Event{Type: "change", Node: n, Value: value})
	return nil
}

func (m *Memory) Focus(_ context.Context, n *html.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = n
	m.record(Event{Type: "focus", Node: n})
	return nil
}

func (m *Memory) Hover(_ context.Context, n *html.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Pointer notifications only; focus stays where it is.
	m.record(Event{Type: "pointerenter", Node: n})
	m.record(Event{Type: "pointerover", Node: n})
	return nil
}

func (m *Memory) ScrollIntoView(_ context.Context, n *html.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(Event{Type: "scrollintoview", Node: n})
	return nil
}

func (m *Memory) PressKey(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := m.focused
	if target == nil && m.doc != nil {
		target = m.doc.Body()
	}
	for _, typ := range []string{"keydown", "keypress", "keyup"} {
		m.record(Event{Type: typ, Node: target, Key: key.Key})
	}
	return nil
}

// scrollStep is the fraction of the viewport one page scroll moves.
const scrollStep = 0.8

func (m *Memory) ScrollPage(_ context.Context, dir ScrollDirection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := m.ContentHeight - m.ViewportHeight
	if max < 0 {
		max = 0
	}
	switch dir {
	case ScrollUp:
		m.ScrollY -= m.ViewportHeight * scrollStep
	case ScrollDown:
		m.ScrollY += m.ViewportHeight * scrollStep
	case ScrollTop:
		m.ScrollY = 0
	case ScrollBottom:
		m.ScrollY = max
	}
	if m.ScrollY < 0 {
		m.ScrollY = 0
	}
	if m.ScrollY > max {
		m.ScrollY = max
	}
	m.record(Event{Type: "scrollpage", Value: string(dir)})
	return nil
}

func (m *Memory) Highlight(n *html.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(Event{Type: "highlight", Node: n})
}
