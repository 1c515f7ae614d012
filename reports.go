package wealthfolio

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// HoldingRow is one open ticker position in a portfolio summary.
type HoldingRow struct {
	Symbol   string
	Shares   decimal.Decimal
	AvgCost  decimal.Decimal
	Price    decimal.Decimal // latest known close, in Currency
	Currency string
	Value    decimal.Decimal // in the reference currency
}

// CashRow is one cash position in a portfolio summary.
type CashRow struct {
	Currency string
	Balance  decimal.Decimal
	Value    decimal.Decimal // in the reference currency
}

// Summary is the portfolio state on its most recent valued day.
type Summary struct {
	Day      date.Date
	Holdings []HoldingRow
	Cash     []CashRow
	Total    decimal.Decimal
}

// Summarize projects the snapshot table onto its latest day: every open
// position and non-zero balance, each valued in the reference currency.
func Summarize(snapshots []Snapshot, prices PriceBook, rates RateBook) (Summary, error) {
	var latest date.Date
	for _, s := range snapshots {
		if s.Day.After(latest) {
			latest = s.Day
		}
	}
	summary := Summary{Day: latest, Total: decimal.Zero}
	if latest.IsZero() {
		return summary, nil
	}
	for _, s := range snapshots {
		if s.Day != latest {
			continue
		}
		value, err := valueSnapshot(s, prices, rates)
		if err != nil {
			return Summary{}, err
		}
		switch {
		case s.Asset.Class == Ticker && !s.Shares.IsZero():
			p, err := prices.PriceAsOf(s.Asset.Code, s.Day)
			if err != nil {
				return Summary{}, err
			}
			summary.Holdings = append(summary.Holdings, HoldingRow{
				Symbol:   s.Asset.Code,
				Shares:   s.Shares,
				AvgCost:  s.AvgCost,
				Price:    p.Price,
				Currency: p.Currency,
				Value:    value,
			})
		case s.Asset.Class == Currency && !s.Balance.IsZero():
			summary.Cash = append(summary.Cash, CashRow{
				Currency: s.Asset.Code,
				Balance:  s.Balance,
				Value:    value,
			})
		}
		summary.Total = summary.Total.Add(value)
	}
	slices.SortFunc(summary.Holdings, func(a, b HoldingRow) int { return cmpString(a.Symbol, b.Symbol) })
	slices.SortFunc(summary.Cash, func(a, b CashRow) int { return cmpString(a.Currency, b.Currency) })
	return summary, nil
}

// TickerPoint is one ticker's holding and valuation at the close of one day.
type TickerPoint struct {
	Day      date.Date
	Shares   decimal.Decimal
	AvgCost  decimal.Decimal // in Currency
	Close    decimal.Decimal // in Currency
	Currency string
	Value    decimal.Decimal // in the reference currency
	Return   decimal.Decimal // (close - avg cost) / avg cost, zero without a basis
}

// TickerSeries projects one ticker's daily snapshots onto its valued series:
// shares held, cost basis, the close as of each day, the position's value in
// the reference currency, and the unrealized return against the average cost.
// Days with no open position stay in the series at zero value and need no
// quote.
func TickerSeries(snapshots []Snapshot, prices PriceBook, rates RateBook) ([]TickerPoint, error) {
	points := make([]TickerPoint, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Asset.Class != Ticker {
			return nil, integrityf("%s is not a ticker", s.Asset)
		}
		p := TickerPoint{
			Day:     s.Day,
			Shares:  s.Shares,
			AvgCost: s.AvgCost,
			Close:   decimal.Zero,
			Value:   decimal.Zero,
			Return:  decimal.Zero,
		}
		if !s.Shares.IsZero() {
			quote, err := prices.PriceAsOf(s.Asset.Code, s.Day)
			if err != nil {
				return nil, err
			}
			rate, err := rates.Rate(quote.Currency, s.Day)
			if err != nil {
				return nil, err
			}
			p.Close = quote.Price
			p.Currency = quote.Currency
			p.Value = s.Shares.Mul(quote.Price).Div(rate)
			if s.AvgCost.IsPositive() {
				p.Return = quote.Price.Sub(s.AvgCost).Div(s.AvgCost)
			}
		}
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b TickerPoint) int { return a.Day.Compare(b.Day) })
	return points, nil
}

// RateRow is the most recent known rate for one currency.
type RateRow struct {
	Currency string
	Day      date.Date
	Rate     decimal.Decimal // units per USD
}

// LatestRates lists each currency's most recent rate, sorted by currency.
func LatestRates(rates RateBook) []RateRow {
	rows := make([]RateRow, 0, len(rates))
	for currency, h := range rates {
		day, rate := h.Latest()
		if day.IsZero() {
			continue
		}
		rows = append(rows, RateRow{Currency: currency, Day: day, Rate: rate})
	}
	slices.SortFunc(rows, func(a, b RateRow) int { return cmpString(a.Currency, b.Currency) })
	return rows
}

// RecentTransactions returns the last n ledger entries, newest first.
// n <= 0 means all of them.
func RecentTransactions(l *Ledger, n int) []Transaction {
	txs := make([]Transaction, 0, l.Len())
	for _, tx := range l.Transactions() {
		txs = append(txs, tx)
	}
	slices.Reverse(txs)
	if n > 0 && len(txs) > n {
		txs = txs[:n]
	}
	return txs
}
