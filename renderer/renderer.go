package renderer

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/etnz/cryptofolio"
)

//go:embed templates
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

var funcs = map[string]any{
	"title":  title,
	"signed": signed,
	"sign":   sign,
}

// Markdown renders the holdings view to a markdown string.
func Markdown(v cryptofolio.View) string {
	partials := map[string]string{
		"holdings_section": "holdings_section.md",
		"holdings_summary": "holdings_summary.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, v)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// Page is the data of the web page.
type Page struct {
	View  cryptofolio.View
	Coins []cryptofolio.Coin
	Alert string // message shown on top of the page, if any
}

var pageTemplate = htmltemplate.Must(htmltemplate.New("page.html").Funcs(funcs).ParseFS(templates, "page.html"))

var helpTemplate = htmltemplate.Must(htmltemplate.New("help.html").ParseFS(templates, "help.html"))

// HTML renders the web page.
func HTML(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}

// HelpHTML renders a help page around an already converted HTML body.
func HelpHTML(w io.Writer, body string) error {
	return helpTemplate.Execute(w, htmltemplate.HTML(body))
}

// Coins renders the coin registry as a markdown table.
func Coins(coins []cryptofolio.Coin, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Coins\n\n")
	fmt.Fprintf(&b, "| Key | Name | Provider ID | Fallback price (%s) |\n", currency)
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")
	for _, c := range coins {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Key, c.Name, c.ProviderID, c.Fallback)
	}
	return b.String()
}

// Prices renders a price table as markdown, coins in registry order.
func Prices(t cryptofolio.PriceTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Prices\n\n")
	fmt.Fprintf(&b, "_Source: %s, in %s._\n\n", t.Source(), t.Currency())
	fmt.Fprintln(&b, "| Coin | Price |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, c := range cryptofolio.Coins() {
		p, ok := t.Price(c.Key)
		if !ok {
			fmt.Fprintf(&b, "| %s | - |\n", c.Name)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", c.Name, p.Exact())
	}
	return b.String()
}

// title upper cases the first letter: "bitvavo" -> "Bitvavo".
func title(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// signed prefixes m with an arrow showing the sign of a profit.
func signed(m cryptofolio.Money, positive bool) string {
	if positive {
		return "▲ " + m.String()
	}
	return "▼ " + m.String()
}

func sign(positive bool) string {
	if positive {
		return "positive"
	}
	return "negative"
}
