package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/date"
)

// ReplaceAssets swaps the whole daily asset table for the given snapshots.
func (s *Store) ReplaceAssets(snapshots []wealthfolio.Snapshot) error {
	return s.transaction(func(dbtx *sql.Tx) error {
		if _, err := dbtx.Exec(`DELETE FROM assets`); err != nil {
			return fmt.Errorf("clearing assets: %w", err)
		}
		for _, snap := range snapshots {
			_, err := dbtx.Exec(`
				INSERT INTO assets (day, class, code, shares, avg_cost, balance)
				VALUES (?, ?, ?, ?, ?, ?)`,
				snap.Day.String(), string(snap.Asset.Class), snap.Asset.Code,
				snap.Shares.String(), snap.AvgCost.String(), snap.Balance.String())
			if err != nil {
				return fmt.Errorf("saving snapshot %s %s: %w", snap.Asset, snap.Day, err)
			}
		}
		return nil
	})
}

// LatestSnapshots returns the asset rows of the most recent day in the
// table, or nothing when no sync has run yet.
func (s *Store) LatestSnapshots() ([]wealthfolio.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT day, class, code, shares, avg_cost, balance FROM assets
		WHERE day = (SELECT MAX(day) FROM assets)`)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	return scanSnapshots(rows)
}

// AssetSeries loads one asset's daily snapshots in chronological order.
func (s *Store) AssetSeries(key wealthfolio.AssetKey) ([]wealthfolio.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT day, class, code, shares, avg_cost, balance FROM assets
		WHERE class = ? AND code = ? ORDER BY day`,
		string(key.Class), key.Code)
	if err != nil {
		return nil, fmt.Errorf("loading %s series: %w", key, err)
	}
	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]wealthfolio.Snapshot, error) {
	defer rows.Close()

	var snapshots []wealthfolio.Snapshot
	for rows.Next() {
		var day, class, code, shares, avgCost, balance string
		if err := rows.Scan(&day, &class, &code, &shares, &avgCost, &balance); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		snap := wealthfolio.Snapshot{
			Day:   on,
			Asset: wealthfolio.AssetKey{Class: wealthfolio.AssetClass(class), Code: code},
		}
		if snap.Shares, err = decimal.NewFromString(shares); err != nil {
			return nil, fmt.Errorf("bad shares %q for %s: %w", shares, code, err)
		}
		if snap.AvgCost, err = decimal.NewFromString(avgCost); err != nil {
			return nil, fmt.Errorf("bad avg cost %q for %s: %w", avgCost, code, err)
		}
		if snap.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("bad balance %q for %s: %w", balance, code, err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// CurrentBalance returns the latest reconstructed balance of a currency,
// zero when the currency has no snapshot yet.
func (s *Store) CurrentBalance(currency string) (decimal.Decimal, error) {
	var balance sql.NullString
	err := s.db.QueryRow(`
		SELECT balance FROM assets WHERE class = ? AND code = ?
		ORDER BY day DESC LIMIT 1`,
		string(wealthfolio.Currency), currency).Scan(&balance)
	if err == sql.ErrNoRows || (err == nil && !balance.Valid) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading %s balance: %w", currency, err)
	}
	d, err := decimal.NewFromString(balance.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad %s balance %q: %w", currency, balance.String, err)
	}
	return d, nil
}

// ReplaceAccountSeries swaps the whole daily account value table.
func (s *Store) ReplaceAccountSeries(points []wealthfolio.AccountPoint) error {
	return s.transaction(func(dbtx *sql.Tx) error {
		if _, err := dbtx.Exec(`DELETE FROM account`); err != nil {
			return fmt.Errorf("clearing account: %w", err)
		}
		for _, p := range points {
			_, err := dbtx.Exec(`INSERT INTO account (day, value) VALUES (?, ?)`,
				p.Day.String(), p.Value.String())
			if err != nil {
				return fmt.Errorf("saving account value for %s: %w", p.Day, err)
			}
		}
		return nil
	})
}

// AccountSeries loads the daily account values in chronological order.
func (s *Store) AccountSeries() ([]wealthfolio.AccountPoint, error) {
	rows, err := s.db.Query(`SELECT day, value FROM account ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("loading account series: %w", err)
	}
	defer rows.Close()

	var points []wealthfolio.AccountPoint
	for rows.Next() {
		var day, value string
		if err := rows.Scan(&day, &value); err != nil {
			return nil, fmt.Errorf("scanning account value: %w", err)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("bad account value %q on %s: %w", value, day, err)
		}
		points = append(points, wealthfolio.AccountPoint{Day: on, Value: v})
	}
	return points, rows.Err()
}
