package axdom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// XPath returns the absolute XPath of an element, with 1-based sibling
// indexes wherever a tag repeats among its element siblings. Live-page
// backends use this to address the element matching a snapshot node.
func XPath(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}

	var parts []string
	for cur := n; IsElement(cur); cur = cur.Parent {
		tag := Tag(cur)
		switch tag {
		case "html":
			parts = append(parts, "html")
			continue
		}

		idx, total := siblingIndex(cur)
		if total > 1 {
			parts = append(parts, fmt.Sprintf("%s[%d]", tag, idx))
		} else {
			parts = append(parts, tag)
		}
	}

	// parts were collected leaf-first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// siblingIndex returns the 1-based position of n among same-tag element
// siblings and the total count of those siblings.
func siblingIndex(n *html.Node) (idx, total int) {
	tag := Tag(n)
	if n.Parent == nil {
		return 1, 1
	}
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if !IsElement(c) || Tag(c) != tag {
			continue
		}
		total++
		if c == n {
			idx = total
		}
	}
	if idx == 0 {
		idx, total = 1, 1
	}
	return idx, total
}
