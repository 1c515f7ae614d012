// Package renderer turns report data into markdown for terminal display.
package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats an amount in its currency's conventional display form,
// rounded to the currency's fraction digits.
func Money(amount decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// funcs are the helpers available to all report templates.
var funcs = template.FuncMap{
	"money": Money,
	"dec": func(d decimal.Decimal) string {
		return d.String()
	},
	"fixed": func(places int32, d decimal.Decimal) string {
		return d.StringFixed(places)
	},
	"percent": func(d decimal.Decimal) string {
		return d.Shift(2).StringFixed(2) + "%"
	},
}

// renderTemplate parses and executes one report template. Rendering errors
// come back as the output, the way a broken report is easiest to notice.
func renderTemplate(name, text string, data any) string {
	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
