package axdom

import (
	"strings"

	"golang.org/x/net/html"
)

// skipTextTags never contribute visible text.
var skipTextTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Text collects the visible text of a subtree with whitespace collapsed:
// runs of spaces, tabs and newlines become a single space.
func Text(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	if IsElement(n) && skipTextTags[Tag(n)] {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// TextExcluding collects text like Text but skips one subtree. Used for
// wrapping-label resolution, where the control's own text must not leak
// into the label.
func TextExcluding(n, excluded *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c == excluded {
			return
		}
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
			return
		}
		if IsElement(c) && skipTextTags[Tag(c)] {
			return
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// OwnText returns only the direct text children of n, collapsed.
func OwnText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Truncate cuts s to max runes, replacing the tail with "..." when cut.
// The first max-3 runes survive verbatim.
func Truncate(s string, max int) string {
	if max <= 3 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
