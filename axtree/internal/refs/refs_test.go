package refs

import (
	"testing"

	"github.com/hazyhaar/axbridge/axdom"
)

func TestRegister_ContiguousHandles(t *testing.T) {
	d, err := axdom.Parse(`<button id="a">A</button><button id="b">B</button><button id="c">C</button>`, "")
	if err != nil {
		t.Fatal(err)
	}

	g := NewGeneration(d)
	for i, id := range []string{"a", "b", "c"} {
		if h := g.Register(d.ByID(id)); h != i+1 {
			t.Fatalf("handle for %q: got %d, want %d", id, h, i+1)
		}
	}
	if g.Len() != 3 {
		t.Fatalf("len: got %d", g.Len())
	}

	// A fresh generation restarts at 1 regardless of prior state.
	g2 := NewGeneration(d)
	if h := g2.Register(d.ByID("a")); h != 1 {
		t.Fatalf("new generation first handle: got %d", h)
	}
	if g2.ID == g.ID {
		t.Fatal("generation IDs must differ")
	}
}

func TestResolve(t *testing.T) {
	d, err := axdom.Parse(`<div id="wrap"><button id="a">A</button></div>`, "")
	if err != nil {
		t.Fatal(err)
	}
	g := NewGeneration(d)
	h := g.Register(d.ByID("a"))

	if n, ok := g.Resolve(h); !ok || axdom.Attr(n, "id") != "a" {
		t.Fatal("registered handle must resolve")
	}
	for _, bad := range []int{0, -1, 2, 999} {
		if _, ok := g.Resolve(bad); ok {
			t.Fatalf("handle %d must not resolve", bad)
		}
	}

	// Detached nodes fail resolution cleanly.
	d.Detach(d.ByID("wrap"))
	if _, ok := g.Resolve(h); ok {
		t.Fatal("detached node must not resolve")
	}
}

func TestResolve_NilGeneration(t *testing.T) {
	var g *Generation
	if _, ok := g.Resolve(1); ok {
		t.Fatal("nil generation must not resolve")
	}
	if g.Len() != 0 {
		t.Fatal("nil generation length must be 0")
	}
}
