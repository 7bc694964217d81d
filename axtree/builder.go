// CLAUDE:SUMMARY Single post-order traversal — visibility cut, keep/group/hoist decision, handle registration.
package axtree

import (
	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
	"github.com/hazyhaar/axbridge/axtree/internal/label"
	"github.com/hazyhaar/axbridge/axtree/internal/refs"
	"github.com/hazyhaar/axbridge/axtree/internal/role"
	"github.com/hazyhaar/axbridge/axtree/internal/visibility"
)

// disposition is the outcome of the hoisting decision for one node.
type disposition int

const (
	// dispositionKeep: the node is interactive — register a handle and
	// contribute exactly this node, children nested inside it.
	dispositionKeep disposition = iota
	// dispositionGroup: not interactive, but labeled and non-empty —
	// contribute one grouping node carrying the label.
	dispositionGroup
	// dispositionHoist: wrapper markup — contribute the children
	// directly, the node itself never appears in the output.
	dispositionHoist
)

// decide is the hoisting decision table, kept as one pure function so
// the policy is testable apart from the traversal.
func decide(interactive, labeled, hasChildren bool) disposition {
	switch {
	case interactive:
		return dispositionKeep
	case labeled && hasChildren:
		return dispositionGroup
	default:
		return dispositionHoist
	}
}

// builder performs one capture pass over a document snapshot.
type builder struct {
	doc     *axdom.Document
	gen     *refs.Generation
	cfg     *Config
	compact []CompactNode
}

func newBuilder(doc *axdom.Document, cfg *Config) *builder {
	return &builder{
		doc: doc,
		gen: refs.NewGeneration(doc),
		cfg: cfg,
	}
}

// build walks the whole document and returns the top-level contributed
// nodes. The compact tuple list fills in as handles are registered, so
// both output modes come from the same pass and stay cross-consistent.
func (b *builder) build() []*Node {
	return b.walk(b.doc.Root)
}

// walk is the recursive children-first pass. Handles are assigned at the
// moment an interactive node is emitted, so nested interactive children
// register before their enclosing node.
func (b *builder) walk(n *html.Node) []*Node {
	if visibility.Excluded(n) {
		return nil
	}

	var kids []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		kids = append(kids, b.walk(c)...)
	}

	if !axdom.IsElement(n) {
		return kids
	}

	interactive := role.Interactive(n)
	containerLabel := ""
	if !interactive {
		containerLabel = label.ResolveContainer(b.doc, n)
	}

	switch decide(interactive, containerLabel != "", len(kids) > 0) {
	case dispositionKeep:
		return []*Node{b.emit(n, kids)}
	case dispositionGroup:
		return []*Node{{
			Role:     role.Of(n),
			Name:     axdom.Truncate(containerLabel, b.cfg.NameLimit),
			TagName:  axdom.Tag(n),
			Children: kids,
		}}
	default:
		return kids
	}
}

// emit registers an interactive node and produces both its semantic node
// and its compact tuple.
func (b *builder) emit(n *html.Node, kids []*Node) *Node {
	name := axdom.Truncate(label.Resolve(b.doc, n), b.cfg.NameLimit)
	handle := b.gen.Register(n)
	value := controlValue(n)

	b.compact = append(b.compact, CompactNode{
		Handle: handle,
		Role:   role.Of(n),
		Name:   name,
		Value:  value,
	})

	return &Node{
		Handle:     handle,
		Role:       role.Of(n),
		Name:       name,
		TagName:    axdom.Tag(n),
		Attributes: role.StateAttributes(n),
		Value:      value,
		Children:   kids,
	}
}

// controlValue extracts the current value of a form control.
func controlValue(n *html.Node) string {
	switch axdom.Tag(n) {
	case "input":
		return axdom.Attr(n, "value")
	case "textarea":
		if v := axdom.Attr(n, "value"); v != "" {
			return v
		}
		return axdom.Text(n)
	case "select":
		for _, opt := range selectedOptions(n) {
			return axdom.Text(opt)
		}
	}
	return ""
}

func selectedOptions(sel *html.Node) []*html.Node {
	var out []*html.Node
	axdom.WalkElements(sel, func(el *html.Node) {
		if axdom.Tag(el) == "option" && axdom.HasAttr(el, "selected") {
			out = append(out, el)
		}
	})
	return out
}

// assemble wraps the top-level nodes into a single entry point: nothing,
// the lone node, or a synthetic document root when several remain.
func assemble(top []*Node, title string) *Node {
	switch len(top) {
	case 0:
		return nil
	case 1:
		return top[0]
	default:
		return &Node{Role: "document", Name: title, Children: top}
	}
}
