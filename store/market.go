package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/date"
)

// LatestRateDate returns the most recent day with stored rates.
func (s *Store) LatestRateDate() (date.Date, bool, error) {
	return s.latestDay(`SELECT MAX(day) FROM exchange_rates`)
}

// SaveRates stores one day's rates, overwriting earlier values for that day.
func (s *Store) SaveRates(day date.Date, rates map[string]decimal.Decimal) error {
	return s.transaction(func(dbtx *sql.Tx) error {
		for currency, rate := range rates {
			_, err := dbtx.Exec(`
				INSERT INTO exchange_rates (currency, day, rate) VALUES (?, ?, ?)
				ON CONFLICT (currency, day) DO UPDATE SET rate = excluded.rate`,
				currency, day.String(), rate.String())
			if err != nil {
				return fmt.Errorf("saving %s rate for %s: %w", currency, day, err)
			}
		}
		return nil
	})
}

// RateBook loads all stored exchange rates.
func (s *Store) RateBook() (wealthfolio.RateBook, error) {
	rows, err := s.db.Query(`SELECT currency, day, rate FROM exchange_rates ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("loading rates: %w", err)
	}
	defer rows.Close()

	book := make(wealthfolio.RateBook)
	for rows.Next() {
		var currency, day, rate string
		if err := rows.Scan(&currency, &day, &rate); err != nil {
			return nil, fmt.Errorf("scanning rate: %w", err)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("bad %s rate %q on %s: %w", currency, rate, day, err)
		}
		book.Add(currency, on, r)
	}
	return book, rows.Err()
}

// CountSymbols returns the number of known listings.
func (s *Store) CountSymbols() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ticker_symbols`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting symbols: %w", err)
	}
	return n, nil
}

// SaveSymbols stores listings, overwriting duplicates by display symbol.
func (s *Store) SaveSymbols(symbols []wealthfolio.SymbolInfo) error {
	return s.transaction(func(dbtx *sql.Tx) error {
		for _, sym := range symbols {
			_, err := dbtx.Exec(`
				INSERT INTO ticker_symbols (display, native, market, currency) VALUES (?, ?, ?, ?)
				ON CONFLICT (display) DO UPDATE SET
					native = excluded.native, market = excluded.market, currency = excluded.currency`,
				sym.Display, sym.Native, string(sym.Market), sym.Currency)
			if err != nil {
				return fmt.Errorf("saving symbol %s: %w", sym.Display, err)
			}
		}
		return nil
	})
}

// LookupSymbol finds a listing by its display symbol.
func (s *Store) LookupSymbol(display string) (wealthfolio.SymbolInfo, bool, error) {
	var sym wealthfolio.SymbolInfo
	var market string
	err := s.db.QueryRow(`
		SELECT display, native, market, currency FROM ticker_symbols WHERE display = ?`,
		display).Scan(&sym.Display, &sym.Native, &market, &sym.Currency)
	if err == sql.ErrNoRows {
		return wealthfolio.SymbolInfo{}, false, nil
	}
	if err != nil {
		return wealthfolio.SymbolInfo{}, false, fmt.Errorf("looking up symbol %s: %w", display, err)
	}
	sym.Market = wealthfolio.Market(market)
	return sym, true, nil
}

// LatestPriceDate returns the most recent day with a stored close for a
// symbol.
func (s *Store) LatestPriceDate(symbol string) (date.Date, bool, error) {
	return s.latestDay(`SELECT MAX(day) FROM ticker_prices WHERE symbol = ?`, symbol)
}

// SavePrices stores daily closes for one symbol.
func (s *Store) SavePrices(symbol, currency string, closes []wealthfolio.ClosePrice) error {
	return s.transaction(func(dbtx *sql.Tx) error {
		for _, c := range closes {
			_, err := dbtx.Exec(`
				INSERT INTO ticker_prices (symbol, day, close, currency) VALUES (?, ?, ?, ?)
				ON CONFLICT (symbol, day) DO UPDATE SET
					close = excluded.close, currency = excluded.currency`,
				symbol, c.Day.String(), c.Close.String(), currency)
			if err != nil {
				return fmt.Errorf("saving %s close for %s: %w", symbol, c.Day, err)
			}
		}
		return nil
	})
}

// PriceBook loads all stored closing prices.
func (s *Store) PriceBook() (wealthfolio.PriceBook, error) {
	rows, err := s.db.Query(`SELECT symbol, day, close, currency FROM ticker_prices ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("loading prices: %w", err)
	}
	defer rows.Close()

	book := make(wealthfolio.PriceBook)
	for rows.Next() {
		var symbol, day, closeStr, currency string
		if err := rows.Scan(&symbol, &day, &closeStr, &currency); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		c, err := decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("bad %s close %q on %s: %w", symbol, closeStr, day, err)
		}
		book.Add(symbol, on, c, currency)
	}
	return book, rows.Err()
}

// latestDay runs a MAX(day) query and parses the result.
func (s *Store) latestDay(query string, args ...any) (date.Date, bool, error) {
	var day sql.NullString
	if err := s.db.QueryRow(query, args...).Scan(&day); err != nil {
		return date.Date{}, false, err
	}
	if !day.Valid {
		return date.Date{}, false, nil
	}
	on, err := date.Parse(day.String)
	if err != nil {
		return date.Date{}, false, err
	}
	return on, true, nil
}
