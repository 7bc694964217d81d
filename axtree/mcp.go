package axtree

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/axbridge/kit"
)

// RegisterMCP registers the engine's tools on an MCP server.
func (e *Engine) RegisterMCP(srv *mcp.Server) {
	e.registerCaptureTool(srv)
	e.registerCaptureCompactTool(srv)
	e.registerPageTextTool(srv)
	e.registerExecuteTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (e *Engine) registerCaptureTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_ax_tree",
		Description: "Capture the page as a nested tree of interactive elements. Each element carries an integer handle usable with execute_action until the next capture.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return e.Capture(ctx)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerCaptureCompactTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_ax_tree_compact",
		Description: "Capture the page as a flat list of [handle, role, name] tuples (plus value for form controls). Same handles as get_ax_tree, far fewer tokens.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return e.CaptureCompact(ctx)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerPageTextTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_page_text",
		Description: "Read the page's visible text, optionally scoped to a CSS selector, as plain text or markdown.",
		InputSchema: inputSchema(map[string]any{
			"selector":  map[string]any{"type": "string", "description": "CSS selector to scope the read (default: whole body)"},
			"maxLength": map[string]any{"type": "integer", "description": "Maximum characters returned (default 8000)"},
			"format":    map[string]any{"type": "string", "enum": []any{"text", "markdown"}, "description": "Output format (default text)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*PageTextRequest)
		return e.PageText(ctx, *r)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r PageTextRequest
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerExecuteTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "execute_action",
		Description: "Execute one action against the current capture: click, type, focus, scroll, hover, clear take a handle; keypress and scroll_page act on the page.",
		InputSchema: inputSchema(map[string]any{
			"type":   map[string]any{"type": "string", "enum": []any{"click", "type", "focus", "scroll", "hover", "clear", "keypress", "scroll_page"}, "description": "Action kind"},
			"handle": map[string]any{"type": "integer", "description": "Element handle from the latest capture (element actions only)"},
			"text":   map[string]any{"type": "string", "description": "Typed value, key token, or scroll direction depending on the action"},
		}, []string{"type"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*ActionRequest)
		return e.Execute(ctx, *r)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r ActionRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
