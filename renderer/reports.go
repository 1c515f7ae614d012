package renderer

import (
	"fmt"

	"github.com/luoyee/wealthfolio"
)

const summaryTemplate = `# Portfolio on {{.Day}}

{{if .Holdings}}## Holdings

| Symbol | Shares | Avg Cost | Price | Value |
|:-------|-------:|---------:|------:|------:|
{{range .Holdings}}| {{.Symbol}} | {{dec .Shares}} | {{money .AvgCost .Currency}} | {{money .Price .Currency}} | {{money .Value "USD"}} |
{{end}}{{end}}{{if .Cash}}## Cash

| Currency | Balance | Value |
|:---------|--------:|------:|
{{range .Cash}}| {{.Currency}} | {{money .Balance .Currency}} | {{money .Value "USD"}} |
{{end}}{{end}}
**Total: {{money .Total "USD"}}**
`

// Summary renders the portfolio summary to markdown.
func Summary(s wealthfolio.Summary) string {
	if s.Day.IsZero() {
		return "No valued holdings yet. Run `wf sync` first.\n"
	}
	return renderTemplate("summary", summaryTemplate, s)
}

const historyTemplate = `# Account Value

| Date | Value |
|:-----|------:|
{{range .}}| {{.Day}} | {{money .Value "USD"}} |
{{end}}`

// History renders the daily account value series to markdown.
func History(points []wealthfolio.AccountPoint) string {
	if len(points) == 0 {
		return "No account history yet. Run `wf sync` first.\n"
	}
	return renderTemplate("history", historyTemplate, points)
}

const tickerHistoryTemplate = `# {{.Symbol}} Value

| Date | Shares | Avg Cost | Close | Value | Return |
|:-----|-------:|---------:|------:|------:|-------:|
{{range .Points}}| {{.Day}} | {{dec .Shares}} | {{dec .AvgCost}} | {{dec .Close}} | {{money .Value "USD"}} | {{percent .Return}} |
{{end}}`

// TickerHistory renders one ticker's daily valuation series to markdown.
func TickerHistory(symbol string, points []wealthfolio.TickerPoint) string {
	if len(points) == 0 {
		return fmt.Sprintf("No history for %s yet. Run `wf sync` first.\n", symbol)
	}
	data := struct {
		Symbol string
		Points []wealthfolio.TickerPoint
	}{symbol, points}
	return renderTemplate("ticker-history", tickerHistoryTemplate, data)
}

const ratesTemplate = `# Exchange Rates (per USD)

| Currency | Date | Rate |
|:---------|:-----|-----:|
{{range .}}| {{.Currency}} | {{.Day}} | {{dec .Rate}} |
{{end}}`

// Rates renders the latest known exchange rates to markdown.
func Rates(rows []wealthfolio.RateRow) string {
	if len(rows) == 0 {
		return "No exchange rates yet. Run `wf sync` first.\n"
	}
	return renderTemplate("rates", ratesTemplate, rows)
}

// Transaction renders one ledger entry to a line.
func Transaction(tx wealthfolio.Transaction) string {
	verb := "Bought"
	if tx.Kind() == wealthfolio.Sell {
		verb = "Sold"
	}
	switch t := tx.(type) {
	case wealthfolio.StockTx:
		return fmt.Sprintf("%s %s %s %s at %s", t.When(), verb, t.Shares, t.Symbol, t.Price)
	case wealthfolio.CurrencyTx:
		return fmt.Sprintf("%s %s %s", t.When(), verb, Money(t.Amount, t.Currency))
	default:
		return fmt.Sprintf("%s %s %s", tx.When(), verb, tx.Asset())
	}
}

// Transactions renders ledger entries to a markdown list, annotating notes.
func Transactions(txs []wealthfolio.Transaction) string {
	if len(txs) == 0 {
		return "No transactions yet.\n"
	}
	var b []byte
	b = append(b, "# Transactions\n\n"...)
	for _, tx := range txs {
		b = append(b, "- "...)
		b = append(b, Transaction(tx)...)
		if note := tx.Note(); note != "" {
			b = append(b, fmt.Sprintf(" (%s)", note)...)
		}
		b = append(b, '\n')
	}
	return string(b)
}
