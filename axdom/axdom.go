// CLAUDE:SUMMARY Parsed-document model over x/net/html — attribute access, inline styles, id index, attachment checks.
// Package axdom wraps golang.org/x/net/html with the document model the
// capture engine works on: attribute and inline-style access, id lookup,
// whitespace-normalised text collection, a small CSS selector subset and
// XPath addressing for live-page backends.
//
// A Document is an immutable-by-convention snapshot of one page. Nodes are
// plain *html.Node values; axdom adds behaviour, not storage, so a node
// handle registered elsewhere stays a non-owning reference into this tree.
package axdom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is one parsed page snapshot.
type Document struct {
	Root  *html.Node
	URL   string
	Title string

	byID map[string]*html.Node
}

// Parse builds a Document from raw HTML.
func Parse(raw, url string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("axdom: parse: %w", err)
	}
	d := &Document{Root: root, URL: url}
	d.Title = findTitle(root)
	d.index()
	return d, nil
}

func (d *Document) index() {
	d.byID = make(map[string]*html.Node)
	WalkElements(d.Root, func(n *html.Node) {
		if id := Attr(n, "id"); id != "" {
			if _, dup := d.byID[id]; !dup {
				d.byID[id] = n
			}
		}
	})
}

// ByID returns the first element carrying the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	return d.byID[id]
}

// Body returns the document body element, or the root when absent.
func (d *Document) Body() *html.Node {
	if b := FindByTag(d.Root, atom.Body); b != nil {
		return b
	}
	return d.Root
}

// Contains reports whether n is still attached to this document.
// A node detached after capture must fail handle resolution, so this is
// the revalidation check performed at the point of use.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.Root {
			return true
		}
	}
	return false
}

// Detach removes a node and its subtree from the document. Used by tests
// and by live backends replaying removals onto the snapshot.
func (d *Document) Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Tag returns the lower-case tag name of an element, "" otherwise.
func Tag(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of an attribute, "" when absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present at all.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces an attribute value in place.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// InlineStyle returns the value of one property from the style attribute,
// lower-cased and trimmed. This is the parsed-snapshot approximation of
// computed style: only author inline styles are visible here.
func InlineStyle(n *html.Node, property string) string {
	style := Attr(n, "style")
	if style == "" {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), property) {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// WalkElements calls fn for every element under root in document order.
func WalkElements(root *html.Node, fn func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if IsElement(n) {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// FindByTag returns the first element with the given tag atom, or nil.
func FindByTag(root *html.Node, tag atom.Atom) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func findTitle(root *html.Node) string {
	t := FindByTag(root, atom.Title)
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(t.FirstChild.Data)
}
