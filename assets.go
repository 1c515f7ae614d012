package wealthfolio

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// Snapshot is one asset's state at the close of one calendar day. The
// snapshot table holds one row per asset per day from the asset's first
// transaction through the rebuild horizon, weekends and holidays included.
type Snapshot struct {
	Day   date.Date
	Asset AssetKey

	// Ticker assets only.
	Shares  decimal.Decimal
	AvgCost decimal.Decimal // weighted average cost per share, in the ticker's own currency

	// Currency assets only.
	Balance decimal.Decimal
}

// RebuildAssets replays the ledger and produces the full daily snapshot
// table, from each asset's first transaction through 'through' inclusive.
// Days without activity carry the previous day's state forward.
//
// The rebuild is all-or-nothing: any integrity violation aborts it and no
// snapshots are returned.
func RebuildAssets(l *Ledger, through date.Date) ([]Snapshot, error) {
	if l.Len() == 0 {
		return nil, integrityf("ledger is empty, nothing to reconstruct")
	}
	var snapshots []Snapshot
	parts := l.ByAsset()

	// Iterate assets in the ledger's stable order so rebuilds are
	// reproducible row for row.
	for key := range l.Assets() {
		txs := parts[key]
		var series []Snapshot
		var err error
		switch key.Class {
		case Ticker:
			series, err = rebuildTicker(key, txs, through)
		case Currency:
			series, err = rebuildCurrency(key, txs, through)
		}
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, series...)
	}
	return snapshots, nil
}

// rebuildTicker walks one ticker's transactions day by day, maintaining the
// share count and the weighted average cost.
//
// Same-day transactions are settled as one batch: all buys first at their
// quantity-weighted price, then all sells. The average cost therefore only
// depends on the set of same-day trades, not on their intra-day order.
func rebuildTicker(key AssetKey, txs []Transaction, through date.Date) ([]Snapshot, error) {
	if len(txs) == 0 {
		return nil, nil
	}
	byDay := groupByDay(txs)

	shares := decimal.Zero
	avgCost := decimal.Zero
	var series []Snapshot
	for day := range date.Days(txs[0].When(), through) {
		for _, batch := range byDay[day] {
			t, ok := batch.(StockTx)
			if !ok {
				return nil, integrityf("%s: transaction %d is not a stock trade", key, batch.ID())
			}
			switch t.Kind() {
			case Buy:
				// New average cost is total cost basis over total shares.
				cost := avgCost.Mul(shares).Add(t.Price.Mul(t.Shares))
				shares = shares.Add(t.Shares)
				avgCost = cost.Div(shares)
			case Sell:
				if t.Shares.GreaterThan(shares) {
					return nil, integrityf("%s: sell of %s shares on %s exceeds position of %s",
						key, t.Shares, day, shares)
				}
				shares = shares.Sub(t.Shares)
				if shares.IsZero() {
					// A closed position carries no cost basis.
					avgCost = decimal.Zero
				}
			}
		}
		series = append(series, Snapshot{Day: day, Asset: key, Shares: shares, AvgCost: avgCost})
	}
	return series, nil
}

// rebuildCurrency walks one currency's transactions day by day, maintaining
// the cash balance.
//
// The balance may dip below zero inside a day (a correction posted after the
// transaction it offsets), but every day must close at zero or above.
func rebuildCurrency(key AssetKey, txs []Transaction, through date.Date) ([]Snapshot, error) {
	if len(txs) == 0 {
		return nil, nil
	}
	byDay := groupByDay(txs)

	balance := decimal.Zero
	var series []Snapshot
	for day := range date.Days(txs[0].When(), through) {
		for _, batch := range byDay[day] {
			t, ok := batch.(CurrencyTx)
			if !ok {
				return nil, integrityf("%s: transaction %d is not a cash movement", key, batch.ID())
			}
			switch t.Kind() {
			case Buy:
				balance = balance.Add(t.Amount)
			case Sell:
				balance = balance.Sub(t.Amount)
			}
		}
		if balance.IsNegative() {
			return nil, integrityf("%s: balance %s is negative at close of %s", key, balance, day)
		}
		series = append(series, Snapshot{Day: day, Asset: key, Balance: balance})
	}
	return series, nil
}

// groupByDay buckets transactions by trade date, buys before sells within a
// day and ledger order within each kind.
func groupByDay(txs []Transaction) map[date.Date][]Transaction {
	byDay := make(map[date.Date][]Transaction)
	for _, tx := range txs {
		byDay[tx.When()] = append(byDay[tx.When()], tx)
	}
	for day, batch := range byDay {
		slices.SortStableFunc(batch, func(a, b Transaction) int {
			if a.Kind() != b.Kind() {
				if a.Kind() == Buy {
					return -1
				}
				return 1
			}
			return 0
		})
		byDay[day] = batch
	}
	return byDay
}
