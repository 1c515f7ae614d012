package wealthfolio

import (
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// Ledger is the append-only transaction log, the sole durable source of
// truth. Every other table in the system is a materialized view over it.
//
// Transactions are kept in chronological order; same-day transactions keep
// their insertion order (ascending id), which is the authoritative tie-break.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger over the given transactions.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: slices.Clone(txs)}
	l.stableSort()
	return l
}

// Append adds transactions and restores chronological order.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// stableSort sorts by date, then id. The sort is stable so equal (date, id)
// pairs keep their insertion order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if c := a.When().Compare(b.When()); c != 0 {
			return c < 0
		}
		return a.ID() < b.ID()
	})
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over all transactions in ledger order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// FirstDate returns the date of the earliest transaction, or false for an
// empty ledger.
func (l *Ledger) FirstDate() (date.Date, bool) {
	if len(l.transactions) == 0 {
		return date.Date{}, false
	}
	return l.transactions[0].When(), true
}

// InceptionDate returns the date of the first transaction for a given asset,
// or false if the asset never traded.
func (l *Ledger) InceptionDate(key AssetKey) (date.Date, bool) {
	for _, tx := range l.transactions {
		if tx.Asset() == key {
			return tx.When(), true
		}
	}
	return date.Date{}, false
}

// Position returns the quantity of one asset held after replaying the whole
// ledger: shares for a ticker, the cash balance for a currency.
func (l *Ledger) Position(key AssetKey) decimal.Decimal {
	position := decimal.Zero
	for _, tx := range l.transactions {
		if tx.Asset() != key {
			continue
		}
		var qty decimal.Decimal
		switch t := tx.(type) {
		case StockTx:
			qty = t.Shares
		case CurrencyTx:
			qty = t.Amount
		}
		switch tx.Kind() {
		case Buy:
			position = position.Add(qty)
		case Sell:
			position = position.Sub(qty)
		}
	}
	return position
}

// ByAsset partitions the ledger by asset identity, preserving ledger order
// inside each partition.
func (l *Ledger) ByAsset() map[AssetKey][]Transaction {
	parts := make(map[AssetKey][]Transaction)
	for _, tx := range l.transactions {
		key := tx.Asset()
		parts[key] = append(parts[key], tx)
	}
	return parts
}

// Assets returns all asset identities that appear in the ledger, tickers
// first, in a stable order.
func (l *Ledger) Assets() iter.Seq[AssetKey] {
	return func(yield func(AssetKey) bool) {
		visited := make(map[AssetKey]struct{})
		for _, tx := range l.transactions {
			visited[tx.Asset()] = struct{}{}
		}
		keys := slices.Collect(maps.Keys(visited))
		slices.SortFunc(keys, func(a, b AssetKey) int {
			if a.Class != b.Class {
				if a.Class == Ticker {
					return -1
				}
				return 1
			}
			return cmpString(a.Code, b.Code)
		})
		for _, key := range keys {
			if !yield(key) {
				return
			}
		}
	}
}

// Tickers returns the distinct ticker symbols traded in the ledger, sorted.
func (l *Ledger) Tickers() []string {
	var tickers []string
	for key := range l.Assets() {
		if key.Class == Ticker {
			tickers = append(tickers, key.Code)
		}
	}
	return tickers
}

// Currencies returns the distinct currency codes in the ledger, sorted.
func (l *Ledger) Currencies() []string {
	var currencies []string
	for key := range l.Assets() {
		if key.Class == Currency {
			currencies = append(currencies, key.Code)
		}
	}
	return currencies
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
