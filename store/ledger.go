package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/date"
)

// Ledger loads the full transaction log.
func (s *Store) Ledger() (*wealthfolio.Ledger, error) {
	rows, err := s.db.Query(`
		SELECT id, day, class, kind, symbol, shares, price, currency, amount, note
		FROM transactions ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	defer rows.Close()

	var txs []wealthfolio.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return wealthfolio.NewLedger(txs...), nil
}

// AppendTransactions validates and appends transactions, returning them with
// their assigned ledger ids. The batch is atomic: one invalid entry rejects
// them all.
func (s *Store) AppendTransactions(txs ...wealthfolio.Transaction) ([]wealthfolio.Transaction, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}
	appended := make([]wealthfolio.Transaction, 0, len(txs))
	err := s.transaction(func(dbtx *sql.Tx) error {
		for _, tx := range txs {
			withID, err := insertTransaction(dbtx, tx)
			if err != nil {
				return err
			}
			appended = append(appended, withID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appended, nil
}

// ReplaceLedger swaps the whole transaction log for the given one, keeping
// the incoming ids. Used by the import path; derived tables are stale until
// the next sync.
func (s *Store) ReplaceLedger(txs []wealthfolio.Transaction) error {
	return s.transaction(func(dbtx *sql.Tx) error {
		if _, err := dbtx.Exec(`DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clearing transactions: %w", err)
		}
		for _, tx := range txs {
			if err := insertTransactionWithID(dbtx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTransaction(dbtx *sql.Tx, tx wealthfolio.Transaction) (wealthfolio.Transaction, error) {
	switch t := tx.(type) {
	case wealthfolio.StockTx:
		res, err := dbtx.Exec(`
			INSERT INTO transactions (day, class, kind, symbol, shares, price, note)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.When().String(), string(wealthfolio.Ticker), string(t.Kind()),
			t.Symbol, t.Shares.String(), t.Price.String(), t.Note())
		if err != nil {
			return nil, fmt.Errorf("inserting transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return wealthfolio.NewStockTx(id, t.When(), t.Kind(), t.Symbol, t.Shares, t.Price, t.Note()), nil
	case wealthfolio.CurrencyTx:
		res, err := dbtx.Exec(`
			INSERT INTO transactions (day, class, kind, currency, amount, note)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.When().String(), string(wealthfolio.Currency), string(t.Kind()),
			t.Currency, t.Amount.String(), t.Note())
		if err != nil {
			return nil, fmt.Errorf("inserting transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return wealthfolio.NewCurrencyTx(id, t.When(), t.Kind(), t.Currency, t.Amount, t.Note()), nil
	default:
		return nil, fmt.Errorf("unknown transaction type %T", tx)
	}
}

func insertTransactionWithID(dbtx *sql.Tx, tx wealthfolio.Transaction) error {
	switch t := tx.(type) {
	case wealthfolio.StockTx:
		_, err := dbtx.Exec(`
			INSERT INTO transactions (id, day, class, kind, symbol, shares, price, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID(), t.When().String(), string(wealthfolio.Ticker), string(t.Kind()),
			t.Symbol, t.Shares.String(), t.Price.String(), t.Note())
		return err
	case wealthfolio.CurrencyTx:
		_, err := dbtx.Exec(`
			INSERT INTO transactions (id, day, class, kind, currency, amount, note)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID(), t.When().String(), string(wealthfolio.Currency), string(t.Kind()),
			t.Currency, t.Amount.String(), t.Note())
		return err
	default:
		return fmt.Errorf("unknown transaction type %T", tx)
	}
}

func scanTransaction(rows *sql.Rows) (wealthfolio.Transaction, error) {
	var (
		id                     int64
		day, class, kind, note string
		symbol, shares, price  sql.NullString
		currency, amount       sql.NullString
	)
	if err := rows.Scan(&id, &day, &class, &kind, &symbol, &shares, &price, &currency, &amount, &note); err != nil {
		return nil, fmt.Errorf("scanning transaction: %w", err)
	}
	on, err := date.Parse(day)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}
	op, err := wealthfolio.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}
	switch wealthfolio.AssetClass(class) {
	case wealthfolio.Ticker:
		sh, err := parseDecimal(shares, "shares", id)
		if err != nil {
			return nil, err
		}
		pr, err := parseDecimal(price, "price", id)
		if err != nil {
			return nil, err
		}
		if !symbol.Valid {
			return nil, fmt.Errorf("transaction %d: missing symbol", id)
		}
		return wealthfolio.NewStockTx(id, on, op, symbol.String, sh, pr, note), nil
	case wealthfolio.Currency:
		am, err := parseDecimal(amount, "amount", id)
		if err != nil {
			return nil, err
		}
		if !currency.Valid {
			return nil, fmt.Errorf("transaction %d: missing currency", id)
		}
		return wealthfolio.NewCurrencyTx(id, on, op, currency.String, am, note), nil
	default:
		return nil, fmt.Errorf("transaction %d: unknown class %q", id, class)
	}
}

func parseDecimal(v sql.NullString, field string, id int64) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, fmt.Errorf("transaction %d: missing %s", id, field)
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transaction %d: bad %s %q: %w", id, field, v.String, err)
	}
	return d, nil
}
