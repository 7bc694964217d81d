package label

import (
	"testing"

	"github.com/hazyhaar/axbridge/axdom"
)

func doc(t *testing.T, fragment string) *axdom.Document {
	t.Helper()
	d, err := axdom.Parse(fragment, "")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestAriaLabel(t *testing.T) {
	d := doc(t, `<button id="x" aria-label=" Close dialog ">X</button>`)
	if got := AriaLabel(d, d.ByID("x")); got != "Close dialog" {
		t.Fatalf("got %q", got)
	}
}

func TestAriaLabelledBy(t *testing.T) {
	d := doc(t, `<span id="a">Billing</span><span id="b">address</span>
		<input id="x" aria-labelledby="a b missing">`)
	if got := AriaLabelledBy(d, d.ByID("x")); got != "Billing address" {
		t.Fatalf("got %q", got)
	}
	if got := AriaLabelledBy(d, d.ByID("a")); got != "" {
		t.Fatalf("no reference list: got %q", got)
	}
}

func TestDataAttribute(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"own attr", `<div id="x" data-field-label="Amount">i</div>`, "Amount"},
		{"keyword in middle", `<div id="x" data-caption="Results">i</div>`, "Results"},
		{"ancestor attr", `<div data-label="Shipping"><span><i id="x"></i></span></div>`, "Shipping"},
		{"testid denied", `<div id="x" data-testid="submit-label">i</div>`, ""},
		{"vue marker denied", `<div id="x" data-v-198af1b2="label">i</div>`, ""},
		{"index denied", `<div id="x" data-index="3">i</div>`, ""},
		{"non keyword ignored", `<div id="x" data-color="red">i</div>`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := doc(t, tc.html)
			if got := DataAttribute(d, d.ByID("x")); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSiblingLabel(t *testing.T) {
	d := doc(t, `<div>
		<div class="form-label">Card number: *</div>
		<div><span><input id="x"></span></div>
	</div>`)
	if got := SiblingLabel(d, d.ByID("x")); got != "Card number" {
		t.Fatalf("got %q", got)
	}

	// Beyond the 5-level boundary nothing is found.
	deep := doc(t, `<div>
		<span class="label">Too far</span>
		<div><div><div><div><div><div><input id="x"></div></div></div></div></div></div>
	</div>`)
	if got := SiblingLabel(deep, deep.ByID("x")); got != "" {
		t.Fatalf("depth bound: got %q", got)
	}
}

func TestAccessibleName(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"label for", `<label for="x">Email:</label><input id="x">`, "Email"},
		{"wrapping label", `<label>Quantity <input id="x"></label>`, "Quantity"},
		{"placeholder", `<input id="x" placeholder="Search products">`, "Search products"},
		{"title", `<input id="x" title="Secret code">`, "Secret code"},
		{"button text", `<button id="x"><span>Buy</span> now</button>`, "Buy now"},
		{"img alt", `<img id="x" alt="Company logo">`, "Company logo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := doc(t, tc.html)
			if got := AccessibleName(d, d.ByID("x")); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStructuralLink(t *testing.T) {
	d := doc(t, `<a id="x" href="/docs/getting-started?ref=nav"></a>`)
	if got := Structural(d, d.ByID("x")); got != "getting-started" {
		t.Fatalf("got %q", got)
	}
	d2 := doc(t, `<a id="x" href="/y">Pricing</a>`)
	if got := Structural(d2, d2.ByID("x")); got != "Pricing" {
		t.Fatalf("got %q", got)
	}
}

func TestStructuralFormControl(t *testing.T) {
	d := doc(t, `<div>Phone: <input id="x" type="tel"></div>`)
	if got := Structural(d, d.ByID("x")); got != "Phone" {
		t.Fatalf("previous text: got %q", got)
	}
}

func TestContainerStrategies(t *testing.T) {
	d := doc(t, `<fieldset id="x"><legend>Payment method</legend><input type="radio"></fieldset>`)
	if got := GroupCaption(d, d.ByID("x")); got != "Payment method" {
		t.Fatalf("legend: got %q", got)
	}

	d2 := doc(t, `<div id="x"><h2>Order summary</h2><button>Edit</button></div>`)
	if got := FirstHeading(d2, d2.ByID("x")); got != "Order summary" {
		t.Fatalf("heading: got %q", got)
	}

	// Headings at or above the cap are ignored.
	long := `<div id="x"><h2>` + stringOfLen(120) + `</h2></div>`
	d3 := doc(t, long)
	if got := FirstHeading(d3, d3.ByID("x")); got != "" {
		t.Fatalf("long heading: got %q", got)
	}
}

func TestResolve_PriorityOrder(t *testing.T) {
	// aria-label beats a wrapping label and placeholder.
	d := doc(t, `<label>Wrapped <input id="x" aria-label="Explicit" placeholder="Ph"></label>`)
	if got := Resolve(d, d.ByID("x")); got != "Explicit" {
		t.Fatalf("got %q", got)
	}

	// With no explicit semantics the accessible-name step wins.
	d2 := doc(t, `<label>Wrapped <input id="x" placeholder="Ph"></label>`)
	if got := Resolve(d2, d2.ByID("x")); got != "Wrapped" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveContainer_NoContentStealing(t *testing.T) {
	// A plain wrapper div has no label even though it contains text.
	d := doc(t, `<div id="x"><button>Buy</button></div>`)
	if got := ResolveContainer(d, d.ByID("x")); got != "" {
		t.Fatalf("wrapper: got %q", got)
	}

	d2 := doc(t, `<div id="x" aria-label="Card"><button>Buy</button></div>`)
	if got := ResolveContainer(d2, d2.ByID("x")); got != "Card" {
		t.Fatalf("aria container: got %q", got)
	}
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
