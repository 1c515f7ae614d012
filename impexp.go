package wealthfolio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// record is the flat on-the-wire form of a transaction. Fields that do not
// apply to a record's class are null, and decimals travel as strings so no
// precision is lost to float parsing.
type record struct {
	ID       int64            `json:"id"`
	Date     date.Date        `json:"date"`
	Class    AssetClass       `json:"class"`
	Kind     Kind             `json:"kind"`
	Symbol   *string          `json:"symbol"`
	Shares   *decimal.Decimal `json:"shares"`
	Price    *decimal.Decimal `json:"price"`
	Currency *string          `json:"currency"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     string           `json:"note"`
}

func toRecord(tx Transaction) (record, error) {
	switch t := tx.(type) {
	case StockTx:
		return record{
			ID:     t.ID(),
			Date:   t.When(),
			Class:  Ticker,
			Kind:   t.Kind(),
			Symbol: &t.Symbol,
			Shares: &t.Shares,
			Price:  &t.Price,
			Note:   t.Note(),
		}, nil
	case CurrencyTx:
		return record{
			ID:       t.ID(),
			Date:     t.When(),
			Class:    Currency,
			Kind:     t.Kind(),
			Currency: &t.Currency,
			Amount:   &t.Amount,
			Note:     t.Note(),
		}, nil
	default:
		return record{}, fmt.Errorf("unknown transaction type %T", tx)
	}
}

func (r record) transaction() (Transaction, error) {
	switch r.Class {
	case Ticker:
		if r.Symbol == nil || r.Shares == nil || r.Price == nil {
			return nil, validationf("stock record %d is missing symbol, shares or price", r.ID)
		}
		tx := NewStockTx(r.ID, r.Date, r.Kind, *r.Symbol, *r.Shares, *r.Price, r.Note)
		return tx, tx.Validate()
	case Currency:
		if r.Currency == nil || r.Amount == nil {
			return nil, validationf("currency record %d is missing currency or amount", r.ID)
		}
		tx := NewCurrencyTx(r.ID, r.Date, r.Kind, *r.Currency, *r.Amount, r.Note)
		return tx, tx.Validate()
	default:
		return nil, validationf("record %d has unknown class %q", r.ID, r.Class)
	}
}

// Export writes the whole ledger as an indented JSON array, in ledger order.
// The output of Export is valid input for Import, round-tripping every
// transaction exactly.
func Export(w io.Writer, l *Ledger) error {
	records := make([]record, 0, l.Len())
	for _, tx := range l.Transactions() {
		r, err := toRecord(tx)
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Import reads a JSON array of transaction records. Every record is
// validated; a single bad record rejects the whole batch so a partial
// import can never corrupt the ledger.
func Import(r io.Reader) ([]Transaction, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}
	txs := make([]Transaction, 0, len(records))
	for _, rec := range records {
		tx, err := rec.transaction()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
