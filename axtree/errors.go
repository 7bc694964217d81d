package axtree

import "fmt"

// ElementNotFoundError is returned when a handle is absent from the
// current capture generation. A stale handle from a past generation is
// indistinguishable from a never-assigned one and fails the same way.
type ElementNotFoundError struct {
	Handle     int
	Generation uint64
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("axtree: element with handle %d not found in current capture", e.Handle)
}

// UnsupportedElementError is returned when an action needs a capability
// the target node lacks (e.g. typing into a non-editable node).
type UnsupportedElementError struct {
	Action ActionType
	Handle int
	Tag    string
}

func (e *UnsupportedElementError) Error() string {
	return fmt.Sprintf("axtree: action %q not supported on <%s> (handle %d)", e.Action, e.Tag, e.Handle)
}

// MissingParameterError is returned when a required or malformed action
// parameter stops execution before any side effect.
type MissingParameterError struct {
	Action ActionType
	Param  string
	Detail string
}

func (e *MissingParameterError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("axtree: action %q: parameter %q: %s", e.Action, e.Param, e.Detail)
	}
	return fmt.Sprintf("axtree: action %q requires parameter %q", e.Action, e.Param)
}

// UnknownActionError is returned for an action type outside the closed set.
type UnknownActionError struct {
	Type string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("axtree: unknown action type %q", e.Type)
}
