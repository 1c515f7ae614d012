package wealthfolio

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// ReferenceCurrency is the currency all account values are expressed in.
const ReferenceCurrency = "USD"

var one = decimal.NewFromInt(1)

// PricePoint is a ticker's closing price on one day, quoted in the ticker's
// native market currency.
type PricePoint struct {
	Price    decimal.Decimal
	Currency string
}

// PriceBook holds closing price series, one per ticker symbol.
type PriceBook map[string]*date.History[PricePoint]

// Add records a closing price for a symbol on a day.
func (b PriceBook) Add(symbol string, day date.Date, price decimal.Decimal, currency string) {
	h, ok := b[symbol]
	if !ok {
		h = &date.History[PricePoint]{}
		b[symbol] = h
	}
	h.Append(day, PricePoint{Price: price, Currency: currency})
}

// PriceAsOf returns the closing price on 'day', or the most recent one before
// it. Quote gaps (weekends, holidays, halts) resolve to the last known close.
func (b PriceBook) PriceAsOf(symbol string, day date.Date) (PricePoint, error) {
	if h, ok := b[symbol]; ok {
		if p, ok := h.ValueAsOf(day); ok {
			return p, nil
		}
	}
	return PricePoint{}, &MissingPriceError{Symbol: symbol, Day: day}
}

// RateBook holds daily exchange rates, one series per currency, quoted as
// units of that currency per one US dollar.
type RateBook map[string]*date.History[decimal.Decimal]

// Add records a rate for a currency on a day.
func (b RateBook) Add(currency string, day date.Date, rate decimal.Decimal) {
	h, ok := b[currency]
	if !ok {
		h = &date.History[decimal.Decimal]{}
		b[currency] = h
	}
	h.Append(day, rate)
}

// Rate returns the exchange rate for a currency on exactly 'day'. Rates are
// synced for every calendar day, so unlike prices they never forward-fill: a
// gap here means the sync is broken and the valuation must not paper over it.
func (b RateBook) Rate(currency string, day date.Date) (decimal.Decimal, error) {
	if currency == ReferenceCurrency {
		return one, nil
	}
	if h, ok := b[currency]; ok {
		if r, ok := h.Get(day); ok {
			return r, nil
		}
	}
	return decimal.Zero, &MissingRateError{Currency: currency, Day: day}
}

// AccountPoint is the portfolio's total value at the close of one day,
// expressed in the reference currency.
type AccountPoint struct {
	Day   date.Date
	Value decimal.Decimal
}

// RebuildAccountValues folds the daily snapshot table into one total value
// per day. Each ticker position is marked at its close price as of that day
// and converted with that day's rate; each cash balance is converted with
// that day's rate. Positions already closed (zero shares) cost nothing to
// value and never require a quote.
//
// Only data on or before each day is consulted, so regenerating history
// never changes past values once their inputs are final.
func RebuildAccountValues(snapshots []Snapshot, prices PriceBook, rates RateBook) ([]AccountPoint, error) {
	byDay := make(map[date.Date][]Snapshot)
	for _, s := range snapshots {
		byDay[s.Day] = append(byDay[s.Day], s)
	}
	days := make([]date.Date, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.SortFunc(days, date.Date.Compare)

	points := make([]AccountPoint, 0, len(days))
	for _, day := range days {
		total := decimal.Zero
		for _, s := range byDay[day] {
			v, err := valueSnapshot(s, prices, rates)
			if err != nil {
				return nil, err
			}
			total = total.Add(v)
		}
		points = append(points, AccountPoint{Day: day, Value: total})
	}
	return points, nil
}

// valueSnapshot converts one snapshot to the reference currency.
func valueSnapshot(s Snapshot, prices PriceBook, rates RateBook) (decimal.Decimal, error) {
	switch s.Asset.Class {
	case Ticker:
		if s.Shares.IsZero() {
			return decimal.Zero, nil
		}
		p, err := prices.PriceAsOf(s.Asset.Code, s.Day)
		if err != nil {
			return decimal.Zero, err
		}
		rate, err := rates.Rate(p.Currency, s.Day)
		if err != nil {
			return decimal.Zero, err
		}
		return s.Shares.Mul(p.Price).Div(rate), nil
	case Currency:
		if s.Balance.IsZero() {
			return decimal.Zero, nil
		}
		rate, err := rates.Rate(s.Asset.Code, s.Day)
		if err != nil {
			return decimal.Zero, err
		}
		return s.Balance.Div(rate), nil
	}
	return decimal.Zero, integrityf("unknown asset class %q", s.Asset.Class)
}
