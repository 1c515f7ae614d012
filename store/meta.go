package store

import (
	"database/sql"
	"fmt"

	"github.com/luoyee/wealthfolio/date"
)

const lastSyncKey = "last_sync_date"

// LastSyncDate returns the day of the last completed sync, if any.
func (s *Store) LastSyncDate() (date.Date, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, lastSyncKey).Scan(&value)
	if err == sql.ErrNoRows {
		return date.Date{}, false, nil
	}
	if err != nil {
		return date.Date{}, false, fmt.Errorf("loading sync marker: %w", err)
	}
	on, err := date.Parse(value)
	if err != nil {
		return date.Date{}, false, fmt.Errorf("bad sync marker %q: %w", value, err)
	}
	return on, true, nil
}

// SetLastSyncDate records a completed sync. It is only written after every
// sync step has succeeded.
func (s *Store) SetLastSyncDate(day date.Date) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		lastSyncKey, day.String())
	if err != nil {
		return fmt.Errorf("saving sync marker: %w", err)
	}
	return nil
}
