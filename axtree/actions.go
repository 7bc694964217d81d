// CLAUDE:SUMMARY Action executor — handle resolution, capability checks, single-attempt dispatch to the surface.
package axtree

import (
	"context"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
	"github.com/hazyhaar/axbridge/axtree/internal/role"
	"github.com/hazyhaar/axbridge/surface"
)

// ActionType enumerates the closed set of action kinds.
type ActionType string

const (
	ActionClick      ActionType = "click"
	ActionTypeText   ActionType = "type"
	ActionFocus      ActionType = "focus"
	ActionScroll     ActionType = "scroll"
	ActionHover      ActionType = "hover"
	ActionClear      ActionType = "clear"
	ActionKeypress   ActionType = "keypress"
	ActionScrollPage ActionType = "scroll_page"
)

// ActionRequest is one action against the current capture generation.
// Handle is required for per-element actions and absent for page-level
// ones. Text carries the typed value, the key token, or the scroll
// direction depending on the action.
type ActionRequest struct {
	Type   ActionType `json:"type"`
	Handle *int       `json:"handle,omitempty"`
	Text   *string    `json:"text,omitempty"`
}

// ActionResult describes what happened. Exactly one of the verb flags is
// set on success.
type ActionResult struct {
	Clicked      bool   `json:"clicked,omitempty"`
	Typed        bool   `json:"typed,omitempty"`
	Cleared      bool   `json:"cleared,omitempty"`
	Focused      bool   `json:"focused,omitempty"`
	Scrolled     bool   `json:"scrolled,omitempty"`
	Hovered      bool   `json:"hovered,omitempty"`
	Pressed      bool   `json:"pressed,omitempty"`
	ScrolledPage bool   `json:"scrolled_page,omitempty"`
	Handle       int    `json:"handle,omitempty"`
	Text         string `json:"text,omitempty"`
	Key          string `json:"key,omitempty"`
	Direction    string `json:"direction,omitempty"`
}

// Execute performs one action: a single attempt with an immediate result
// or an immediate typed failure. No implicit retries — retry, if any, is
// a transport-layer concern.
func (e *Engine) Execute(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch req.Type {
	case ActionKeypress:
		return e.keypress(ctx, req)
	case ActionScrollPage:
		return e.scrollPage(ctx, req)
	case ActionClick, ActionTypeText, ActionFocus, ActionScroll, ActionHover, ActionClear:
		return e.elementAction(ctx, req)
	default:
		return nil, &UnknownActionError{Type: string(req.Type)}
	}
}

func (e *Engine) keypress(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	if req.Text == nil || *req.Text == "" {
		return nil, &MissingParameterError{Action: ActionKeypress, Param: "text"}
	}
	key, ok := surface.LookupKey(*req.Text)
	if !ok {
		return nil, &MissingParameterError{
			Action: ActionKeypress,
			Param:  "text",
			Detail: "unrecognized key " + *req.Text,
		}
	}
	if err := e.page.PressKey(ctx, key); err != nil {
		return nil, err
	}
	return &ActionResult{Pressed: true, Key: key.Key}, nil
}

func (e *Engine) scrollPage(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	dir, ok := surface.ParseScrollDirection(text)
	if !ok {
		return nil, &MissingParameterError{
			Action: ActionScrollPage,
			Param:  "text",
			Detail: "direction must be up, down, top or bottom",
		}
	}
	if err := e.page.ScrollPage(ctx, dir); err != nil {
		return nil, err
	}
	return &ActionResult{ScrolledPage: true, Direction: string(dir)}, nil
}

func (e *Engine) elementAction(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	if req.Handle == nil {
		return nil, &MissingParameterError{Action: req.Type, Param: "handle"}
	}
	handle := *req.Handle

	n, ok := e.gen.Resolve(handle)
	if !ok {
		return nil, &ElementNotFoundError{Handle: handle, Generation: e.generationID()}
	}

	var res *ActionResult
	var err error
	switch req.Type {
	case ActionClick:
		if err = e.page.Click(ctx, n); err == nil {
			res = &ActionResult{Clicked: true, Handle: handle}
		}
	case ActionTypeText:
		res, err = e.typeInto(ctx, n, handle, req)
	case ActionClear:
		if err = e.requireEditable(ActionClear, n, handle); err == nil {
			if err = e.page.SetValue(ctx, n, ""); err == nil {
				res = &ActionResult{Cleared: true, Handle: handle}
			}
		}
	case ActionFocus:
		if err = e.page.Focus(ctx, n); err == nil {
			res = &ActionResult{Focused: true, Handle: handle}
		}
	case ActionScroll:
		if err = e.page.ScrollIntoView(ctx, n); err == nil {
			res = &ActionResult{Scrolled: true, Handle: handle}
		}
	case ActionHover:
		if err = e.page.Hover(ctx, n); err == nil {
			res = &ActionResult{Hovered: true, Handle: handle}
		}
	}
	if err != nil {
		return nil, err
	}

	// Cosmetic feedback only: deferred fade is the surface's business
	// and never gates the success signal.
	e.page.Highlight(n)
	return res, nil
}

func (e *Engine) typeInto(ctx context.Context, n *html.Node, handle int, req ActionRequest) (*ActionResult, error) {
	if req.Text == nil {
		return nil, &MissingParameterError{Action: ActionTypeText, Param: "text"}
	}
	if err := e.requireEditable(ActionTypeText, n, handle); err != nil {
		return nil, err
	}
	if err := e.page.SetValue(ctx, n, *req.Text); err != nil {
		return nil, err
	}
	return &ActionResult{Typed: true, Handle: handle, Text: *req.Text}, nil
}

func (e *Engine) requireEditable(action ActionType, n *html.Node, handle int) error {
	if !role.Editable(n) {
		return &UnsupportedElementError{Action: action, Handle: handle, Tag: axdom.Tag(n)}
	}
	return nil
}

func (e *Engine) generationID() uint64 {
	if e.gen == nil {
		return 0
	}
	return e.gen.ID
}
