package axdom

import (
	"strings"
	"testing"
)

const fixture = `<!DOCTYPE html>
<html><head><title>  Checkout  </title></head>
<body>
  <div id="wrap" class="outer main" style="display: block; Visibility:HIDDEN">
    <form id="login">
      <label for="email">Email:</label>
      <input id="email" type="text" placeholder="you@example.com">
      <button class="btn primary">Sign in</button>
      <button class="btn">Cancel</button>
    </form>
    <script>var hidden = "never text";</script>
    <p>Need   an   account?
       <a href="/register/new">Register</a></p>
  </div>
</body></html>`

func parseFixture(t *testing.T) *Document {
	t.Helper()
	d, err := Parse(fixture, "https://shop.example/checkout")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestParse_TitleAndIndex(t *testing.T) {
	d := parseFixture(t)
	if d.Title != "Checkout" {
		t.Fatalf("title: got %q", d.Title)
	}
	if d.ByID("login") == nil || Tag(d.ByID("login")) != "form" {
		t.Fatal("id index missed #login")
	}
	if d.ByID("nope") != nil {
		t.Fatal("unknown id should be nil")
	}
}

func TestInlineStyle(t *testing.T) {
	d := parseFixture(t)
	wrap := d.ByID("wrap")
	if got := InlineStyle(wrap, "display"); got != "block" {
		t.Fatalf("display: got %q", got)
	}
	// Case-insensitive property, value lower-cased.
	if got := InlineStyle(wrap, "visibility"); got != "hidden" {
		t.Fatalf("visibility: got %q", got)
	}
	if got := InlineStyle(wrap, "color"); got != "" {
		t.Fatalf("absent property: got %q", got)
	}
}

func TestText_CollapsesAndSkipsScript(t *testing.T) {
	d := parseFixture(t)
	text := Text(d.Body())
	if strings.Contains(text, "never text") {
		t.Fatal("script content leaked into text")
	}
	if !strings.Contains(text, "Need an account? Register") {
		t.Fatalf("whitespace not collapsed: %q", text)
	}
}

func TestTextExcluding(t *testing.T) {
	d, err := Parse(`<label>Quantity <input value="2"> items</label>`, "")
	if err != nil {
		t.Fatal(err)
	}
	label := d.SelectOne("label")
	input := d.SelectOne("input")
	if got := TextExcluding(label, input); got != "Quantity items" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("ab", 50)
	got := Truncate(long, 80)
	if len([]rune(got)) != 80 {
		t.Fatalf("length: got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing marker: %q", got)
	}
	if got[:77] != long[:77] {
		t.Fatal("prefix not preserved verbatim")
	}
	if Truncate("short", 80) != "short" {
		t.Fatal("short strings must pass through")
	}
}

func TestSelect(t *testing.T) {
	d := parseFixture(t)

	cases := []struct {
		sel  string
		want int
	}{
		{"button", 2},
		{".btn", 2},
		{"button.primary", 1},
		{"#email", 1},
		{"input[type=text]", 1},
		{"input[placeholder]", 1},
		{"form button", 2},
		{"div.outer a", 1},
		{"nav", 0},
	}
	for _, tc := range cases {
		if got := len(d.Select(tc.sel)); got != tc.want {
			t.Errorf("%q: got %d matches, want %d", tc.sel, got, tc.want)
		}
	}
}

func TestXPath(t *testing.T) {
	d := parseFixture(t)
	buttons := d.Select("button")
	if len(buttons) != 2 {
		t.Fatal("fixture changed")
	}
	if got := XPath(buttons[0]); got != "/html/body/div/form/button[1]" {
		t.Fatalf("first button: got %q", got)
	}
	if got := XPath(buttons[1]); got != "/html/body/div/form/button[2]" {
		t.Fatalf("second button: got %q", got)
	}
	if got := XPath(d.ByID("email")); got != "/html/body/div/form/input" {
		t.Fatalf("input: got %q", got)
	}
}

func TestContainsAndDetach(t *testing.T) {
	d := parseFixture(t)
	email := d.ByID("email")
	if !d.Contains(email) {
		t.Fatal("attached node reported detached")
	}
	d.Detach(d.ByID("login"))
	if d.Contains(email) {
		t.Fatal("node inside removed subtree still reported attached")
	}
}
