package wealthfolio

import (
	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// ReconcileNote marks ledger entries synthesized by reconciliation, so they
// are recognizable among ordinary cash movements.
const ReconcileNote = "reconcile"

// reconcileThreshold is the smallest imbalance worth fixing. Anything below
// one unit of the currency is rounding noise from trade fees and is left
// alone.
var reconcileThreshold = decimal.NewFromInt(1)

// Reconcile compares a currency's reconstructed balance with the balance the
// holder actually observes, and synthesizes the single cash transaction that
// closes the gap. It returns false when the imbalance is below the threshold
// and no entry is needed.
//
// The returned transaction is an ordinary currency movement dated 'today'.
// It goes through the same append path as a manual entry, so the next
// rebuild absorbs it with no special casing.
func Reconcile(currency string, current, target decimal.Decimal, today date.Date) (CurrencyTx, bool) {
	delta := target.Sub(current)
	if delta.Abs().LessThan(reconcileThreshold) {
		return CurrencyTx{}, false
	}
	kind := Buy
	if delta.IsNegative() {
		kind = Sell
		delta = delta.Neg()
	}
	return NewCurrencyTx(0, today, kind, currency, delta, ReconcileNote), true
}
