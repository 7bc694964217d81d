package rodpage

import (
	"strings"
	"testing"

	"github.com/hazyhaar/axbridge/surface"
)

func TestScrollScript(t *testing.T) {
	tests := []struct {
		dir  surface.ScrollDirection
		want string
	}{
		{surface.ScrollDown, "window.innerHeight * 0.8"},
		{surface.ScrollUp, "-window.innerHeight * 0.8"},
		{surface.ScrollTop, "scrollTo(0, 0)"},
		{surface.ScrollBottom, "document.body.scrollHeight"},
	}
	for _, tt := range tests {
		js, ok := scrollScript(tt.dir)
		if !ok {
			t.Fatalf("%s: rejected", tt.dir)
		}
		if !strings.Contains(js, tt.want) {
			t.Errorf("%s: script %q missing %q", tt.dir, js, tt.want)
		}
	}

	if _, ok := scrollScript("sideways"); ok {
		t.Fatal("invalid direction accepted")
	}
}

func TestManagerConfigDefaults(t *testing.T) {
	var cfg ManagerConfig
	cfg.defaults()
	if cfg.NavigateTimeout <= 0 {
		t.Fatal("navigate timeout not defaulted")
	}
	if cfg.Logger == nil {
		t.Fatal("logger not defaulted")
	}
}
