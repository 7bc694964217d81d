package axtree

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/axbridge/surface"
)

func newTestEngine(t *testing.T, html string) (*Engine, *surface.Memory) {
	t.Helper()
	mem, err := surface.NewMemoryFromHTML(html, "https://page.example/start")
	if err != nil {
		t.Fatal(err)
	}
	return New(mem, nil, nil), mem
}

func TestCapture_HiddenSubtreeContributesNothing(t *testing.T) {
	e, _ := newTestEngine(t, `<div style="display:none"><button>Hi</button></div>`)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cap.Tree != nil {
		t.Fatalf("hidden subtree produced a tree: %+v", cap.Tree)
	}
	if e.HandleCount() != 0 {
		t.Fatalf("handles: got %d", e.HandleCount())
	}
}

func TestCapture_LabeledContainerWrapsInteractive(t *testing.T) {
	e, _ := newTestEngine(t, `<div aria-label="Card"><button>Buy</button></div>`)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	root := cap.Tree
	if root == nil || root.Name != "Card" || root.Handle != 0 {
		t.Fatalf("container: got %+v", root)
	}
	if len(root.Children) != 1 {
		t.Fatalf("children: got %d", len(root.Children))
	}
	btn := root.Children[0]
	if btn.Handle != 1 || btn.Name != "Buy" || btn.Role != "button" {
		t.Fatalf("button: got %+v", btn)
	}
}

func TestCapture_WrappersAreHoisted(t *testing.T) {
	e, _ := newTestEngine(t, `<div><div><a href="/x">Link</a></div></div>`)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cap.Tree == nil {
		t.Fatal("no tree")
	}
	if cap.Tree.TagName != "a" || cap.Tree.Handle != 1 || cap.Tree.Role != "link" {
		t.Fatalf("wrappers not elided: %+v", cap.Tree)
	}
	if cap.Tree.Name != "Link" {
		t.Fatalf("name: got %q", cap.Tree.Name)
	}
}

const formPage = `<!DOCTYPE html><html><head><title>Signup</title></head><body>
<main>
  <h1>Create account</h1>
  <form>
    <label for="email">Email:</label>
    <input id="email" type="text" placeholder="you@example.com">
    <input id="pw" type="password">
    <button id="submit">Sign up</button>
  </form>
  <a id="help" href="/help">Help</a>
</main>
</body></html>`

func TestCapture_ContiguousHandlesAndRestart(t *testing.T) {
	e, _ := newTestEngine(t, formPage)
	ctx := context.Background()

	cap1, err := e.Capture(ctx)
	if err != nil {
		t.Fatal(err)
	}
	flat := cap1.Tree.Flatten()
	if len(flat) != 4 {
		t.Fatalf("interactive nodes: got %d", len(flat))
	}
	for i, n := range flat {
		if n.Handle != i+1 {
			t.Fatalf("handle %d out of order: got %d", i, n.Handle)
		}
	}

	// A second, independent capture restarts at 1 with a new generation.
	cap2, err := e.Capture(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cap2.Generation == cap1.Generation {
		t.Fatal("generation must advance")
	}
	if first := cap2.Tree.Flatten()[0]; first.Handle != 1 {
		t.Fatalf("restart: got %d", first.Handle)
	}
}

func TestCaptureCompact_MatchesNestedOrder(t *testing.T) {
	e, _ := newTestEngine(t, formPage)
	ctx := context.Background()

	nested, err := e.Capture(ctx)
	if err != nil {
		t.Fatal(err)
	}
	compact, err := e.CaptureCompact(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if compact.Count != len(compact.Nodes) {
		t.Fatalf("count mismatch: %d vs %d", compact.Count, len(compact.Nodes))
	}

	flat := nested.Tree.Flatten()
	if len(flat) != len(compact.Nodes) {
		t.Fatalf("sizes differ: %d vs %d", len(flat), len(compact.Nodes))
	}
	for i := range flat {
		if flat[i].Handle != compact.Nodes[i].Handle {
			t.Fatalf("slot %d: nested %d vs compact %d", i, flat[i].Handle, compact.Nodes[i].Handle)
		}
		if flat[i].Role != compact.Nodes[i].Role || flat[i].Name != compact.Nodes[i].Name {
			t.Fatalf("slot %d: tuple fields diverge", i)
		}
	}
}

func TestCapture_NameTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	e, _ := newTestEngine(t, `<button aria-label="`+long+`">b</button>`)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	name := cap.Tree.Name
	if got := len([]rune(name)); got != 80 {
		t.Fatalf("length: got %d", got)
	}
	if !strings.HasSuffix(name, "...") {
		t.Fatalf("marker: got %q", name)
	}
	if name[:77] != long[:77] {
		t.Fatal("prefix not preserved verbatim")
	}
}

func TestCapture_SyntheticRootForMultipleTopNodes(t *testing.T) {
	e, _ := newTestEngine(t, `<button>One</button><button>Two</button>`)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cap.Tree.Role != "document" || cap.Tree.Handle != 0 {
		t.Fatalf("synthetic root: got %+v", cap.Tree)
	}
	if len(cap.Tree.Children) != 2 {
		t.Fatalf("children: got %d", len(cap.Tree.Children))
	}
}

func TestCapture_StateAttributesAndValue(t *testing.T) {
	e, _ := newTestEngine(t, `<input type="checkbox" checked aria-expanded="false">
		<input id="q" type="text" value="hello" class="wide">`)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	flat := cap.Tree.Flatten()
	if len(flat) != 2 {
		t.Fatalf("nodes: got %d", len(flat))
	}
	cb := flat[0]
	if cb.Attributes["checked"] != "true" || cb.Attributes["type"] != "checkbox" {
		t.Fatalf("checkbox attrs: %v", cb.Attributes)
	}
	if _, ok := cb.Attributes["class"]; ok {
		t.Fatal("class leaked through the allow-list")
	}
	if flat[1].Value != "hello" {
		t.Fatalf("value: got %q", flat[1].Value)
	}
}

func TestCapture_URLAndTitle(t *testing.T) {
	e, _ := newTestEngine(t, formPage)
	cap, err := e.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cap.URL != "https://page.example/start" {
		t.Fatalf("url: got %q", cap.URL)
	}
	if cap.Title != "Signup" {
		t.Fatalf("title: got %q", cap.Title)
	}
}

func TestPreview_DoesNotInvalidateHandles(t *testing.T) {
	e, mem := newTestEngine(t, formPage)
	ctx := context.Background()

	cap, err := e.Capture(ctx)
	if err != nil {
		t.Fatal(err)
	}
	live := cap.Generation

	if _, err := e.Preview(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Generation() != live {
		t.Fatal("preview replaced the live generation")
	}

	// Handles from the capture still act after an inspection refresh.
	h := 1
	res, err := e.Execute(ctx, ActionRequest{Type: ActionClick, Handle: &h})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Clicked {
		t.Fatalf("result: %+v", res)
	}
	_ = mem
}

func TestPageText(t *testing.T) {
	e, _ := newTestEngine(t, `<body><nav>Menu</nav><main id="m">Hello   world, this is content.</main></body>`)
	ctx := context.Background()

	pt, err := e.PageText(ctx, PageTextRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pt.Text, "Hello world") || !strings.Contains(pt.Text, "Menu") {
		t.Fatalf("body text: %q", pt.Text)
	}

	pt, err = e.PageText(ctx, PageTextRequest{Selector: "#m"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(pt.Text, "Menu") {
		t.Fatalf("selector scope leaked: %q", pt.Text)
	}

	pt, err = e.PageText(ctx, PageTextRequest{MaxLength: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !pt.Truncated || len([]rune(pt.Text)) != 5 {
		t.Fatalf("truncation: %+v", pt)
	}

	if _, err := e.PageText(ctx, PageTextRequest{Selector: "#missing"}); err == nil {
		t.Fatal("missing selector must fail")
	}
}

func TestDecide_Table(t *testing.T) {
	cases := []struct {
		interactive, labeled, hasChildren bool
		want                              disposition
	}{
		{true, false, false, dispositionKeep},
		{true, true, true, dispositionKeep},
		{false, true, true, dispositionGroup},
		{false, true, false, dispositionHoist},
		{false, false, true, dispositionHoist},
		{false, false, false, dispositionHoist},
	}
	for _, tc := range cases {
		if got := decide(tc.interactive, tc.labeled, tc.hasChildren); got != tc.want {
			t.Errorf("decide(%v,%v,%v): got %d, want %d",
				tc.interactive, tc.labeled, tc.hasChildren, got, tc.want)
		}
	}
}
