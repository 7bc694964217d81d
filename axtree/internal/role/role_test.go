package role

import (
	"testing"

	"github.com/hazyhaar/axbridge/axdom"
)

func node(t *testing.T, fragment string) *axdom.Document {
	t.Helper()
	d, err := axdom.Parse(fragment, "")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestOf(t *testing.T) {
	cases := []struct {
		html string
		sel  string
		want string
	}{
		{`<div id="x" role="BUTTON">x</div>`, "#x", "button"},
		{`<div id="x" role="tab selected">x</div>`, "#x", "tab"},
		{`<a id="x" href="/y">x</a>`, "#x", "link"},
		{`<a id="x">anchor without href</a>`, "#x", "generic"},
		{`<input id="x" type="checkbox">`, "#x", "checkbox"},
		{`<input id="x" type="search">`, "#x", "searchbox"},
		{`<input id="x" type="weird">`, "#x", "textbox"},
		{`<input id="x">`, "#x", "textbox"},
		{`<select id="x"></select>`, "#x", "combobox"},
		{`<select id="x" multiple></select>`, "#x", "listbox"},
		{`<select id="x" size="4"></select>`, "#x", "listbox"},
		{`<textarea id="x"></textarea>`, "#x", "textbox"},
		{`<h3 id="x">t</h3>`, "#x", "heading"},
		{`<nav id="x"></nav>`, "#x", "navigation"},
		{`<span id="x">t</span>`, "#x", "generic"},
	}
	for _, tc := range cases {
		d := node(t, tc.html)
		if got := Of(d.ByID("x")); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.html, got, tc.want)
		}
	}
}

func TestInteractive(t *testing.T) {
	cases := []struct {
		html string
		want bool
	}{
		{`<button id="x">b</button>`, true},
		{`<a id="x" href="/y">l</a>`, true},
		{`<input id="x" type="text">`, true},
		{`<div id="x" role="switch">s</div>`, true},
		{`<div id="x" tabindex="0">t</div>`, true},
		{`<div id="x" tabindex="3">t</div>`, true},
		{`<div id="x" tabindex="-1">t</div>`, false},
		{`<div id="x" onclick="go()">t</div>`, true},
		{`<div id="x">plain</div>`, false},
		{`<span id="x" role="heading">h</span>`, false},
	}
	for _, tc := range cases {
		d := node(t, tc.html)
		if got := Interactive(d.ByID("x")); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.html, got, tc.want)
		}
	}
}

func TestStateAttributes(t *testing.T) {
	d := node(t, `<input id="x" type="checkbox" checked aria-expanded="false" class="big" data-k="v">`)
	attrs := StateAttributes(d.ByID("x"))
	if attrs["type"] != "checkbox" {
		t.Errorf("type: got %q", attrs["type"])
	}
	if attrs["checked"] != "true" {
		t.Errorf("checked: got %q", attrs["checked"])
	}
	if attrs["aria-expanded"] != "false" {
		t.Errorf("aria-expanded: got %q", attrs["aria-expanded"])
	}
	if _, ok := attrs["class"]; ok {
		t.Error("class must not pass the allow-list")
	}
	if _, ok := attrs["data-k"]; ok {
		t.Error("data-* must not pass the allow-list")
	}

	if got := StateAttributes(node(t, `<div id="x">p</div>`).ByID("x")); got != nil {
		t.Errorf("bare div: got %v, want nil", got)
	}
}

func TestEditable(t *testing.T) {
	cases := []struct {
		html string
		want bool
	}{
		{`<input id="x" type="text">`, true},
		{`<input id="x">`, true},
		{`<input id="x" type="email">`, true},
		{`<textarea id="x"></textarea>`, true},
		{`<input id="x" type="checkbox">`, false},
		{`<input id="x" type="submit">`, false},
		{`<div id="x" contenteditable>t</div>`, true},
		{`<div id="x" contenteditable="true">t</div>`, true},
		{`<div id="x" contenteditable="false">t</div>`, false},
		{`<button id="x">b</button>`, false},
	}
	for _, tc := range cases {
		d := node(t, tc.html)
		if got := Editable(d.ByID("x")); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.html, got, tc.want)
		}
	}
}
