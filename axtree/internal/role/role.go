// CLAUDE:SUMMARY Role classification and the interactivity gate — the sole condition for receiving a handle.
// Package role maps a node to a semantic role and decides whether it is
// interactive. Interactivity is the only gate for handle assignment.
package role

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
)

// interactiveRoles is the fixed allow-list of actionable roles.
var interactiveRoles = map[string]bool{
	"button":           true,
	"link":             true,
	"textbox":          true,
	"checkbox":         true,
	"radio":            true,
	"combobox":         true,
	"listbox":          true,
	"option":           true,
	"menuitem":         true,
	"menuitemcheckbox": true,
	"menuitemradio":    true,
	"tab":              true,
	"switch":           true,
	"slider":           true,
	"spinbutton":       true,
	"searchbox":        true,
	"scrollbar":        true,
	"progressbar":      true,
}

// inputRoles maps input type to implicit role. Types missing here fall
// back to textbox, which is what browsers do for unknown types.
var inputRoles = map[string]string{
	"button":   "button",
	"submit":   "button",
	"reset":    "button",
	"image":    "button",
	"checkbox": "checkbox",
	"radio":    "radio",
	"range":    "slider",
	"number":   "spinbutton",
	"search":   "searchbox",
}

// tagRoles maps tags with a constant implicit role.
var tagRoles = map[string]string{
	"button":   "button",
	"textarea": "textbox",
	"option":   "option",
	"nav":      "navigation",
	"main":     "main",
	"header":   "banner",
	"footer":   "contentinfo",
	"aside":    "complementary",
	"article":  "article",
	"section":  "region",
	"form":     "form",
	"fieldset": "group",
	"dialog":   "dialog",
	"table":    "table",
	"ul":       "list",
	"ol":       "list",
	"li":       "listitem",
	"img":      "image",
	"progress": "progressbar",
	"hr":       "separator",
}

// Of computes the semantic role of an element: the explicit role
// attribute wins, then the implicit role of the tag, then "generic".
func Of(n *html.Node) string {
	if r := strings.ToLower(strings.TrimSpace(axdom.Attr(n, "role"))); r != "" {
		// Multiple tokens are allowed; the first is authoritative.
		if i := strings.IndexByte(r, ' '); i >= 0 {
			r = r[:i]
		}
		return r
	}

	tag := axdom.Tag(n)
	switch tag {
	case "a":
		if axdom.HasAttr(n, "href") {
			return "link"
		}
		return "generic"
	case "input":
		typ := strings.ToLower(axdom.Attr(n, "type"))
		if r, ok := inputRoles[typ]; ok {
			return r
		}
		return "textbox"
	case "select":
		if axdom.HasAttr(n, "multiple") || sizeOver1(n) {
			return "listbox"
		}
		return "combobox"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	}
	if r, ok := tagRoles[tag]; ok {
		return r
	}
	return "generic"
}

// Interactive reports whether the node is actionable: interactive role,
// explicit non-negative tab stop, or a declared click handler.
func Interactive(n *html.Node) bool {
	if interactiveRoles[Of(n)] {
		return true
	}
	if ti := axdom.Attr(n, "tabindex"); ti != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(ti)); err == nil && v >= 0 {
			return true
		}
	}
	return axdom.HasAttr(n, "onclick")
}

// stateAttrs is the curated allow-list attached to interactive nodes.
// State and interaction semantics only, never a full attribute dump.
var stateAttrs = []string{
	"aria-expanded",
	"aria-checked",
	"aria-selected",
	"aria-disabled",
	"disabled",
	"checked",
	"selected",
	"type",
	"placeholder",
}

// StateAttributes returns the allow-listed attributes present on n.
// Boolean HTML attributes report "true".
func StateAttributes(n *html.Node) map[string]string {
	var out map[string]string
	for _, key := range stateAttrs {
		if !axdom.HasAttr(n, key) {
			continue
		}
		v := axdom.Attr(n, key)
		if v == "" {
			v = "true"
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = v
	}
	return out
}

// Editable reports whether the node accepts typed text input.
func Editable(n *html.Node) bool {
	switch axdom.Tag(n) {
	case "textarea":
		return true
	case "input":
		switch strings.ToLower(axdom.Attr(n, "type")) {
		case "button", "submit", "reset", "image", "checkbox", "radio", "range", "file", "hidden", "color":
			return false
		}
		return true
	}
	if axdom.HasAttr(n, "contenteditable") {
		v := strings.ToLower(axdom.Attr(n, "contenteditable"))
		return v == "" || v == "true"
	}
	return false
}

func sizeOver1(n *html.Node) bool {
	v, err := strconv.Atoi(axdom.Attr(n, "size"))
	return err == nil && v > 1
}
