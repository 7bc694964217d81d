// CLAUDE:SUMMARY Live-page surface backend — snapshots the DOM over CDP and drives real events by XPath.
package rodpage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"

	"github.com/hazyhaar/axbridge/axdom"
	"github.com/hazyhaar/axbridge/surface"
)

// Page implements surface.Page against a live Chromium tab. Snapshot
// pulls the serialized DOM over CDP; actions resolve the captured node
// back to the live element by XPath and drive real input.
type Page struct {
	page   *rod.Page
	logger *slog.Logger
}

var _ surface.Page = (*Page)(nil)

// Attach wraps an existing rod page.
func Attach(p *rod.Page, logger *slog.Logger) *Page {
	if logger == nil {
		logger = slog.Default()
	}
	return &Page{page: p, logger: logger}
}

// Rod exposes the underlying page for callers that need raw CDP access.
func (p *Page) Rod() *rod.Page { return p.page }

// Close closes the underlying tab.
func (p *Page) Close() error { return p.page.Close() }

// Snapshot serializes the live DOM and parses it. The XPath of a node
// in the parsed tree addresses the same element on the live page, which
// is what the action methods rely on.
func (p *Page) Snapshot(ctx context.Context) (*axdom.Document, error) {
	pg := p.page.Context(ctx)

	res, err := pg.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("rodpage: serialize dom: %w", err)
	}
	info, err := pg.Info()
	if err != nil {
		return nil, fmt.Errorf("rodpage: page info: %w", err)
	}

	doc, err := axdom.Parse(res.Value.Str(), info.URL)
	if err != nil {
		return nil, fmt.Errorf("rodpage: parse dom: %w", err)
	}
	return doc, nil
}

// resolve maps a snapshot node to the live element. Fails when the page
// mutated since the capture and the XPath no longer matches.
func (p *Page) resolve(ctx context.Context, n *html.Node) (*rod.Element, error) {
	xp := axdom.XPath(n)
	el, err := p.page.Context(ctx).ElementX(xp)
	if err != nil {
		return nil, fmt.Errorf("rodpage: resolve %s: %w", xp, err)
	}
	return el, nil
}

func (p *Page) Click(ctx context.Context, n *html.Node) error {
	el, err := p.resolve(ctx, n)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("rodpage: click: %w", err)
	}
	return nil
}

func (p *Page) SetValue(ctx context.Context, n *html.Node, value string) error {
	el, err := p.resolve(ctx, n)
	if err != nil {
		return err
	}
	// Assign directly and fire input/change so framework listeners see
	// the new value, instead of replaying per-character key events.
	_, err = el.Eval(`(v) => {
		this.value = v;
		this.dispatchEvent(new Event('input', {bubbles: true}));
		this.dispatchEvent(new Event('change', {bubbles: true}));
	}`, value)
	if err != nil {
		return fmt.Errorf("rodpage: set value: %w", err)
	}
	return nil
}

func (p *Page) Focus(ctx context.Context, n *html.Node) error {
	el, err := p.resolve(ctx, n)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("rodpage: focus: %w", err)
	}
	return nil
}

func (p *Page) Hover(ctx context.Context, n *html.Node) error {
	el, err := p.resolve(ctx, n)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("rodpage: hover: %w", err)
	}
	return nil
}

func (p *Page) ScrollIntoView(ctx context.Context, n *html.Node) error {
	el, err := p.resolve(ctx, n)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("rodpage: scroll into view: %w", err)
	}
	return nil
}

func (p *Page) PressKey(ctx context.Context, key surface.Key) error {
	// Dispatch the triad on whatever holds focus, falling back to body,
	// mirroring how a physical keystroke lands.
	_, err := p.page.Context(ctx).Eval(`(key, code, keyCode) => {
		const target = document.activeElement || document.body;
		for (const type of ['keydown', 'keypress', 'keyup']) {
			target.dispatchEvent(new KeyboardEvent(type, {
				key, code, keyCode, bubbles: true, cancelable: true,
			}));
		}
	}`, key.Key, key.Code, key.KeyCode)
	if err != nil {
		return fmt.Errorf("rodpage: press key %s: %w", key.Key, err)
	}
	return nil
}

func (p *Page) ScrollPage(ctx context.Context, dir surface.ScrollDirection) error {
	js, ok := scrollScript(dir)
	if !ok {
		return fmt.Errorf("rodpage: scroll direction %q", dir)
	}
	if _, err := p.page.Context(ctx).Eval(js); err != nil {
		return fmt.Errorf("rodpage: scroll page: %w", err)
	}
	return nil
}

// scrollScript maps a direction to the viewport move: 80% of the window
// height for relative scrolls, absolute jumps for top and bottom.
func scrollScript(dir surface.ScrollDirection) (string, bool) {
	switch dir {
	case surface.ScrollDown:
		return `() => window.scrollBy(0, window.innerHeight * 0.8)`, true
	case surface.ScrollUp:
		return `() => window.scrollBy(0, -window.innerHeight * 0.8)`, true
	case surface.ScrollTop:
		return `() => window.scrollTo(0, 0)`, true
	case surface.ScrollBottom:
		return `() => window.scrollTo(0, document.body.scrollHeight)`, true
	}
	return "", false
}

// Highlight flashes an outline on the element. Cosmetic only: resolve
// or eval failures are logged and swallowed, never surfaced.
func (p *Page) Highlight(n *html.Node) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Debug("rodpage: highlight panic", "recovered", r)
			}
		}()
		el, err := p.resolve(context.Background(), n)
		if err != nil {
			p.logger.Debug("rodpage: highlight resolve", "error", err)
			return
		}
		_, err = el.Eval(`() => {
			const prev = this.style.outline;
			this.style.outline = '2px solid #ff6b00';
			setTimeout(() => { this.style.outline = prev; }, 800);
		}`)
		if err != nil {
			p.logger.Debug("rodpage: highlight eval", "error", err)
		}
	}()
}
