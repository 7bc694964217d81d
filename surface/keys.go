package surface

import (
	"strings"
	"unicode/utf8"
)

// Key identifies one keyboard key in platform terms.
type Key struct {
	Key     string // DOM KeyboardEvent.key value
	Code    string // DOM KeyboardEvent.code value
	KeyCode int    // legacy keyCode, still watched by older frameworks
}

// namedKeys maps the remote protocol's key tokens to platform
// identifiers. Tokens are matched case-insensitively.
var namedKeys = map[string]Key{
	"enter":      {Key: "Enter", Code: "Enter", KeyCode: 13},
	"escape":     {Key: "Escape", Code: "Escape", KeyCode: 27},
	"esc":        {Key: "Escape", Code: "Escape", KeyCode: 27},
	"tab":        {Key: "Tab", Code: "Tab", KeyCode: 9},
	"backspace":  {Key: "Backspace", Code: "Backspace", KeyCode: 8},
	"delete":     {Key: "Delete", Code: "Delete", KeyCode: 46},
	"space":      {Key: " ", Code: "Space", KeyCode: 32},
	"up":         {Key: "ArrowUp", Code: "ArrowUp", KeyCode: 38},
	"down":       {Key: "ArrowDown", Code: "ArrowDown", KeyCode: 40},
	"left":       {Key: "ArrowLeft", Code: "ArrowLeft", KeyCode: 37},
	"right":      {Key: "ArrowRight", Code: "ArrowRight", KeyCode: 39},
	"arrowup":    {Key: "ArrowUp", Code: "ArrowUp", KeyCode: 38},
	"arrowdown":  {Key: "ArrowDown", Code: "ArrowDown", KeyCode: 40},
	"arrowleft":  {Key: "ArrowLeft", Code: "ArrowLeft", KeyCode: 37},
	"arrowright": {Key: "ArrowRight", Code: "ArrowRight", KeyCode: 39},
	"home":       {Key: "Home", Code: "Home", KeyCode: 36},
	"end":        {Key: "End", Code: "End", KeyCode: 35},
	"pageup":     {Key: "PageUp", Code: "PageUp", KeyCode: 33},
	"pagedown":   {Key: "PageDown", Code: "PageDown", KeyCode: 34},
}

// LookupKey resolves a key token. Unrecognized single-rune tokens pass
// through as literal character keys; anything else is rejected.
func LookupKey(token string) (Key, bool) {
	if k, ok := namedKeys[strings.ToLower(token)]; ok {
		return k, true
	}
	if utf8.RuneCountInString(token) == 1 {
		return Key{Key: token}, true
	}
	return Key{}, false
}
