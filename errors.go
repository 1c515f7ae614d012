package wealthfolio

import (
	"fmt"

	"github.com/luoyee/wealthfolio/date"
)

// The engine distinguishes four failure families. Integrity and missing-data
// errors abort a rebuild outright: producing a partially wrong snapshot table
// is worse than keeping yesterday's consistent one.

// IntegrityError reports a ledger inconsistency discovered during asset
// reconstruction, such as a sell exceeding the held position. It is never
// auto-corrected; the operator has to fix the ledger.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string { return "ledger integrity: " + e.Reason }

func integrityf(format string, args ...any) *IntegrityError {
	return &IntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// MissingRateError reports that no exchange rate exists for a currency on a
// day the valuation needed one. The engine fails loudly here: silently
// assuming rate=1 masks upstream data gaps.
type MissingRateError struct {
	Currency string
	Day      date.Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s on %s", e.Currency, e.Day)
}

// MissingPriceError reports that a ticker has no known price on a day or any
// day before it.
type MissingPriceError struct {
	Symbol string
	Day    date.Date
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s on or before %s", e.Symbol, e.Day)
}

// ProviderError wraps a failure from an external data source. The sync
// orchestrator aborts on it; the once-per-day gate makes the next invocation
// retry naturally.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError reports a malformed user-submitted transaction. It is
// rejected at the boundary and never reaches the ledger.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid transaction: " + e.Reason }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
