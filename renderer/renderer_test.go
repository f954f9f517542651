package renderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

var sections = []string{"blox", "bitvavo"}

func livePrices(p map[string]int64) cryptofolio.PriceTable {
	m := make(map[string]decimal.Decimal)
	for k, v := range p {
		m[k] = decimal.NewFromInt(v)
	}
	return cryptofolio.NewPriceTable("EUR", cryptofolio.Live, m)
}

func TestMarkdown(t *testing.T) {
	doc := cryptofolio.Document{
		"blox": {
			cryptofolio.NewEntry("bitcoin", 2, 50000),
			cryptofolio.NewEntry("solana", 10, 200),
		},
	}
	v := cryptofolio.Compute(doc, livePrices(map[string]int64{"bitcoin": 67000, "solana": 140}), sections)
	got := Markdown(v)

	for _, want := range []string{
		"# Holdings\n",
		"_Prices: live, in EUR._\n",
		"## Blox\n",
		"| Bitcoin | 2 | €50000 | €100000.00 | €134000.00 | ▲ €34000.00 |\n",
		"| Solana | 10 | €200 | €2000.00 | €1400.00 | ▼ €-600.00 |\n",
		"| Paid | €102000.00 |\n",
		"| Current value | €135400.00 |\n",
		"| Profit/loss | ▲ €33400.00 |\n",
		"## Bitvavo\n\n_No entries._\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() does not contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "error") {
		t.Errorf("Markdown() reported a template error:\n%s", got)
	}
	if strings.Index(got, "## Blox") > strings.Index(got, "## Bitvavo") {
		t.Error("sections are not rendered in the configured order")
	}
}

func TestMarkdown_Empty(t *testing.T) {
	v := cryptofolio.Compute(cryptofolio.Document{}, cryptofolio.FallbackPrices("EUR"), sections)
	got := Markdown(v)
	if n := strings.Count(got, "_No entries._"); n != 2 {
		t.Errorf("Markdown() shows %d empty sections, want 2:\n%s", n, got)
	}
	for _, want := range []string{"| Paid | €0.00 |", "| Current value | €0.00 |", "| Profit/loss | ▲ €0.00 |"} {
		if strings.Count(got, want) != 2 {
			t.Errorf("Markdown() does not contain %q twice:\n%s", want, got)
		}
	}
}

func TestHTML(t *testing.T) {
	doc := cryptofolio.Document{"bitvavo": {cryptofolio.NewEntry("ethereum", 1, 3500)}}
	v := cryptofolio.Compute(doc, livePrices(map[string]int64{"ethereum": 3000}), sections)

	var b bytes.Buffer
	err := HTML(&b, Page{View: v, Coins: cryptofolio.Coins(), Alert: "Invalid input."})
	if err != nil {
		t.Fatalf("HTML() unexpected error: %v", err)
	}
	got := b.String()
	for _, want := range []string{
		`<form id="blox-form" method="post" action="/sections/blox/entries">`,
		`<option value="ripple">XRP</option>`,
		`<strong class="negative">€-500.00</strong>`,
		`<span class="positive">€0.00</span>`,
		`role="alert">Invalid input.</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() does not contain %q", want)
		}
	}
}

func TestPrices(t *testing.T) {
	got := Prices(cryptofolio.FallbackPrices("EUR"))
	for _, want := range []string{"_Source: fallback, in EUR._", "| XRP | €0.48 |", "| Bitcoin | €67000 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("Prices() does not contain %q:\n%s", want, got)
		}
	}
}

func TestTitle(t *testing.T) {
	testCases := []struct{ in, want string }{
		{"blox", "Blox"},
		{"bitvavo", "Bitvavo"},
		{"", ""},
		{"élan", "Élan"},
	}
	for _, tc := range testCases {
		if got := title(tc.in); got != tc.want {
			t.Errorf("title(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
