package axdom

import (
	"strings"

	"golang.org/x/net/html"
)

// Select returns all elements matching a simple CSS selector, in document
// order. Supported subset:
//
//	tag            "button", "main"
//	.class         ".sidebar"
//	#id            "#content"
//	tag.class      "div.content"
//	tag#id         "form#login"
//	tag[attr]      "div[data-panel]"
//	tag[attr=val]  "input[type=search]"
//	a b            descendant combinator
//
// Anything fancier belongs to a live-page backend, not the snapshot.
func (d *Document) Select(selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}

	matches := matchAll(d.Root, parseSimple(parts[0]))
	for _, part := range parts[1:] {
		sel := parseSimple(part)
		var next []*html.Node
		for _, scope := range matches {
			next = append(next, matchAll(scope, sel)...)
		}
		matches = next
	}
	return matches
}

// SelectOne returns the first match or nil.
func (d *Document) SelectOne(selector string) *html.Node {
	m := d.Select(selector)
	if len(m) == 0 {
		return nil
	}
	return m[0]
}

type simpleSel struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
}

func parseSimple(sel string) simpleSel {
	var s simpleSel

	if i := strings.IndexByte(sel, '['); i >= 0 {
		attr := strings.TrimRight(sel[i+1:], "]")
		sel = sel[:i]
		if k, v, ok := strings.Cut(attr, "="); ok {
			s.attrKey = k
			s.attrVal = strings.Trim(v, `"'`)
		} else {
			s.attrKey = attr
		}
	}
	if i := strings.IndexByte(sel, '#'); i >= 0 {
		s.id = sel[i+1:]
		sel = sel[:i]
	}
	if i := strings.IndexByte(sel, '.'); i >= 0 {
		s.class = sel[i+1:]
		sel = sel[:i]
	}
	s.tag = strings.ToLower(sel)
	return s
}

func matchAll(root *html.Node, s simpleSel) []*html.Node {
	var out []*html.Node
	WalkElements(root, func(n *html.Node) {
		if n != root && matches(n, s) {
			out = append(out, n)
		}
	})
	if matches(root, s) {
		out = append([]*html.Node{root}, out...)
	}
	return out
}

func matches(n *html.Node, s simpleSel) bool {
	if !IsElement(n) {
		return false
	}
	if s.tag != "" && Tag(n) != s.tag {
		return false
	}
	if s.id != "" && Attr(n, "id") != s.id {
		return false
	}
	if s.class != "" && !hasClass(n, s.class) {
		return false
	}
	if s.attrKey != "" {
		if s.attrVal != "" {
			if Attr(n, s.attrKey) != s.attrVal {
				return false
			}
		} else if !HasAttr(n, s.attrKey) {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
