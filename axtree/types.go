package axtree

import (
	"encoding/json"
	"fmt"
)

// Node is one semantic node of a capture. Handle is present only for
// interactive nodes (the registry tracks nothing else). Instances are
// immutable snapshots, valid until the next document mutation or the
// next capture.
type Node struct {
	Handle     int               `json:"handle,omitempty"`
	Role       string            `json:"role"`
	Name       string            `json:"name,omitempty"`
	TagName    string            `json:"tagName,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      string            `json:"value,omitempty"`
	Children   []*Node           `json:"children,omitempty"`
}

// Flatten returns the interactive nodes of the subtree in handle
// assignment order (children before their enclosing node, matching the
// builder's post-order registration).
func (n *Node) Flatten() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Flatten()...)
	}
	if n.Handle > 0 {
		out = append(out, n)
	}
	return out
}

// CompactNode is the positional tuple (handle, role, name, value?) —
// one entry per interactive node, no nesting, minimal payload.
type CompactNode struct {
	Handle int
	Role   string
	Name   string
	Value  string
}

// MarshalJSON encodes the tuple as a JSON array; the value slot is
// omitted when empty.
func (c CompactNode) MarshalJSON() ([]byte, error) {
	arr := []any{c.Handle, c.Role, c.Name}
	if c.Value != "" {
		arr = append(arr, c.Value)
	}
	return json.Marshal(arr)
}

// UnmarshalJSON decodes the positional form.
func (c *CompactNode) UnmarshalJSON(data []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) < 3 || len(arr) > 4 {
		return fmt.Errorf("axtree: compact tuple has %d slots", len(arr))
	}
	if err := json.Unmarshal(arr[0], &c.Handle); err != nil {
		return err
	}
	if err := json.Unmarshal(arr[1], &c.Role); err != nil {
		return err
	}
	if err := json.Unmarshal(arr[2], &c.Name); err != nil {
		return err
	}
	if len(arr) == 4 {
		return json.Unmarshal(arr[3], &c.Value)
	}
	c.Value = ""
	return nil
}

// Capture is the nested-tree payload.
type Capture struct {
	Tree       *Node  `json:"tree"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Generation uint64 `json:"generation"`
}

// CompactCapture is the flat-tuple payload.
type CompactCapture struct {
	Nodes      []CompactNode `json:"nodes"`
	URL        string        `json:"url"`
	Title      string        `json:"title"`
	Count      int           `json:"count"`
	Generation uint64        `json:"generation"`
}

// PageTextRequest scopes a page-text read.
type PageTextRequest struct {
	Selector  string `json:"selector,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Format    string `json:"format,omitempty"` // "text" (default) or "markdown"
}

// PageText is the page-text payload.
type PageText struct {
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}
