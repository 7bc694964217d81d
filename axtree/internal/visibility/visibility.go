// CLAUDE:SUMMARY Visibility filter — hidden nodes and SVG paint primitives are cut with their whole subtree.
// Package visibility decides whether a node may contribute anything to a
// capture. The decision is evaluated once per node on the way down; an
// excluded node cuts its entire subtree.
package visibility

import (
	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
)

// svgPrimitives are vector-graphics paint primitives. They never carry
// independently useful semantics and would flood the output on any page
// with inline icons.
var svgPrimitives = map[string]bool{
	"path":           true,
	"rect":           true,
	"circle":         true,
	"ellipse":        true,
	"line":           true,
	"polyline":       true,
	"polygon":        true,
	"defs":           true,
	"lineargradient": true,
	"radialgradient": true,
	"stop":           true,
	"use":            true,
	"tspan":          true,
	"textpath":       true,
}

// Excluded reports whether n and its whole subtree are ineligible:
// display:none, visibility:hidden, hidden from assistive technology, or
// an SVG paint primitive.
func Excluded(n *html.Node) bool {
	if !axdom.IsElement(n) {
		return false
	}
	if svgPrimitives[axdom.Tag(n)] {
		return true
	}
	if axdom.HasAttr(n, "hidden") {
		return true
	}
	if axdom.Attr(n, "aria-hidden") == "true" {
		return true
	}
	if axdom.Tag(n) == "input" && axdom.Attr(n, "type") == "hidden" {
		return true
	}
	if axdom.InlineStyle(n, "display") == "none" {
		return true
	}
	if axdom.InlineStyle(n, "visibility") == "hidden" {
		return true
	}
	return false
}
