// CLAUDE:SUMMARY Ordered label strategy chain — explicit semantics first, heuristics after, container labels last.
// Package label produces a best-effort human name for a node.
//
// No single signal survives contact with real-world markup: aria
// attributes are missing, labels are divs with a class, frameworks bury
// the text three wrappers deep. The resolver is therefore an ordered
// chain of independent strategies, each a pure func(doc, node) string,
// combined by first non-empty match. Explicit author-declared semantics
// always outrank inferred ones.
package label

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
)

// Strategy tries to name a node. Empty string means "no opinion".
type Strategy func(d *axdom.Document, n *html.Node) string

// Chain returns the node-level strategies in priority order.
func Chain() []Strategy {
	return []Strategy{
		AriaLabel,
		AriaLabelledBy,
		DataAttribute,
		SiblingLabel,
		AccessibleName,
		Structural,
	}
}

// Resolve runs the full node-level chain.
func Resolve(d *axdom.Document, n *html.Node) string {
	for _, s := range Chain() {
		if name := s(d, n); name != "" {
			return name
		}
	}
	return ""
}

// ResolveContainer names a non-interactive grouping node: explicit
// strategies (1-4) plus the container-only strategies. The inference
// fallbacks of the node-level chain stay out — a wrapper div must not
// steal its child's accessible name.
func ResolveContainer(d *axdom.Document, n *html.Node) string {
	for _, s := range []Strategy{AriaLabel, AriaLabelledBy, DataAttribute, SiblingLabel, GroupCaption, FirstHeading} {
		if name := s(d, n); name != "" {
			return name
		}
	}
	return ""
}

// --- 1. explicit name attribute ---

func AriaLabel(_ *axdom.Document, n *html.Node) string {
	return strings.TrimSpace(axdom.Attr(n, "aria-label"))
}

// --- 2. labelled-by reference list ---

func AriaLabelledBy(d *axdom.Document, n *html.Node) string {
	ids := strings.Fields(axdom.Attr(n, "aria-labelledby"))
	if len(ids) == 0 {
		return ""
	}
	var parts []string
	for _, id := range ids {
		if ref := d.ByID(id); ref != nil {
			if t := axdom.Text(ref); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// --- 3. label-ish data-* attributes ---

// labelKeywords match against the attribute NAME, not its value.
var labelKeywords = []string{"label", "name", "title", "desc", "text", "field", "heading", "caption"}

// plumbingAttrs are framework and testing data-* attributes whose values
// are ids, versions or test markers, never human labels.
var plumbingAttrs = map[string]bool{
	"data-reactroot":       true,
	"data-server-rendered": true,
	"data-testid":          true,
	"data-test-id":         true,
	"data-test":            true,
	"data-cy":              true,
	"data-qa":              true,
	"data-index":           true,
	"data-key":             true,
	"data-id":              true,
}

func DataAttribute(_ *axdom.Document, n *html.Node) string {
	if v := dataLabelOf(n); v != "" {
		return v
	}
	// Nearest ancestor carrying a label-ish data attribute.
	for p := n.Parent; axdom.IsElement(p); p = p.Parent {
		if v := dataLabelOf(p); v != "" {
			return v
		}
	}
	return ""
}

func dataLabelOf(n *html.Node) string {
	for _, a := range n.Attr {
		if !strings.HasPrefix(a.Key, "data-") {
			continue
		}
		if plumbingAttrs[a.Key] || strings.HasPrefix(a.Key, "data-v-") {
			continue
		}
		v := strings.TrimSpace(a.Val)
		if v == "" {
			continue
		}
		for _, kw := range labelKeywords {
			if strings.Contains(a.Key, kw) {
				return v
			}
		}
	}
	return ""
}

// --- 4. nearby label-like siblings ---

// siblingLevels bounds the ancestor walk. Five levels reaches across the
// wrapper stacks common in form frameworks without crossing into
// unrelated page regions.
const siblingLevels = 5

func SiblingLabel(_ *axdom.Document, n *html.Node) string {
	cur := n
	for level := 0; level < siblingLevels && cur != nil; level++ {
		parent := cur.Parent
		if parent == nil {
			break
		}
		for sib := parent.FirstChild; sib != nil; sib = sib.NextSibling {
			if sib == cur || !axdom.IsElement(sib) {
				continue
			}
			if !labelLike(sib) {
				continue
			}
			if t := trimPunct(axdom.Text(sib)); t != "" {
				return t
			}
		}
		cur = parent
	}
	return ""
}

func labelLike(n *html.Node) bool {
	if axdom.Tag(n) == "label" {
		return true
	}
	return strings.Contains(strings.ToLower(axdom.Attr(n, "class")), "label")
}

// trimPunct strips trailing colons, required-markers and whitespace.
func trimPunct(s string) string {
	return strings.TrimRight(s, ":* \t\n")
}

// --- 5. computed accessible name (simplified accname) ---

func AccessibleName(d *axdom.Document, n *html.Node) string {
	switch axdom.Tag(n) {
	case "img", "area":
		return strings.TrimSpace(axdom.Attr(n, "alt"))
	case "input", "textarea", "select":
		if l := associatedLabel(d, n); l != "" {
			return l
		}
		if p := strings.TrimSpace(axdom.Attr(n, "placeholder")); p != "" {
			return p
		}
		return strings.TrimSpace(axdom.Attr(n, "title"))
	}
	// Name from content for everything else.
	if t := axdom.Text(n); t != "" {
		return t
	}
	return strings.TrimSpace(axdom.Attr(n, "title"))
}

// associatedLabel finds a <label for=...> match or a wrapping <label>,
// excluding the control's own text from the latter.
func associatedLabel(d *axdom.Document, n *html.Node) string {
	if id := axdom.Attr(n, "id"); id != "" {
		var found string
		axdom.WalkElements(d.Root, func(el *html.Node) {
			if found == "" && axdom.Tag(el) == "label" && axdom.Attr(el, "for") == id {
				found = trimPunct(axdom.Text(el))
			}
		})
		if found != "" {
			return found
		}
	}
	for p := n.Parent; axdom.IsElement(p); p = p.Parent {
		if axdom.Tag(p) == "label" {
			return trimPunct(axdom.TextExcluding(p, n))
		}
	}
	return ""
}

// --- 6. structural fallbacks ---

// maxSiblingText bounds how much loose sibling text can pass as a label.
const maxSiblingText = 60

func Structural(d *axdom.Document, n *html.Node) string {
	if p := strings.TrimSpace(axdom.Attr(n, "placeholder")); p != "" {
		return p
	}
	if t := strings.TrimSpace(axdom.Attr(n, "title")); t != "" {
		return t
	}

	switch axdom.Tag(n) {
	case "input", "textarea", "select":
		return formControlFallback(d, n)
	case "button":
		return buttonFallback(d, n)
	case "a":
		return linkFallback(n)
	}
	return ""
}

func formControlFallback(d *axdom.Document, n *html.Node) string {
	if l := associatedLabel(d, n); l != "" {
		return l
	}
	// Short previous-sibling text reads as a de-facto label.
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.TextNode {
			if t := trimPunct(strings.Join(strings.Fields(sib.Data), " ")); t != "" && len(t) <= maxSiblingText {
				return t
			}
		}
		if axdom.IsElement(sib) {
			if t := trimPunct(axdom.Text(sib)); t != "" && len(t) <= maxSiblingText {
				return t
			}
			break
		}
	}
	// Last resort: whatever short text the parent holds around the control.
	if n.Parent != nil {
		if t := trimPunct(axdom.TextExcluding(n.Parent, n)); t != "" && len(t) <= maxSiblingText {
			return t
		}
	}
	return ""
}

func buttonFallback(_ *axdom.Document, n *html.Node) string {
	var labelled string
	axdom.WalkElements(n, func(el *html.Node) {
		if labelled == "" && el != n {
			if l := strings.TrimSpace(axdom.Attr(el, "aria-label")); l != "" {
				labelled = l
			}
		}
	})
	if labelled != "" {
		return labelled
	}
	return axdom.Text(n)
}

func linkFallback(n *html.Node) string {
	if t := axdom.Text(n); t != "" {
		return t
	}
	href := axdom.Attr(n, "href")
	href, _, _ = strings.Cut(href, "?")
	href, _, _ = strings.Cut(href, "#")
	segs := strings.Split(href, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(segs[i]); s != "" && !strings.Contains(s, ":") {
			return s
		}
	}
	return ""
}

// --- 7. container-only strategies ---

func GroupCaption(_ *axdom.Document, n *html.Node) string {
	tag := axdom.Tag(n)
	if tag != "fieldset" && axdom.Attr(n, "role") != "group" {
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if axdom.Tag(c) == "legend" || axdom.Tag(c) == "caption" {
			return trimPunct(axdom.Text(c))
		}
	}
	return ""
}

// headingCap keeps page-length headings from becoming container names.
const headingCap = 100

func FirstHeading(_ *axdom.Document, n *html.Node) string {
	var found string
	axdom.WalkElements(n, func(el *html.Node) {
		if found != "" || el == n {
			return
		}
		switch axdom.Tag(el) {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if t := axdom.Text(el); t != "" && len(t) < headingCap {
				found = t
			}
		}
	})
	return found
}
