package wealthfolio

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// Kind encodes the direction of a transaction. Quantities are always
// positive; direction lives here, never in the sign.
type Kind string

const (
	Buy  Kind = "buy"
	Sell Kind = "sell"
)

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction kind: %q", s)
	}
}

// AssetClass discriminates the two transaction variants.
type AssetClass string

const (
	Ticker   AssetClass = "ticker"
	Currency AssetClass = "currency"
)

// AssetKey identifies a single holding: a ticker symbol or a currency code.
type AssetKey struct {
	Class AssetClass
	Code  string
}

func (k AssetKey) String() string { return string(k.Class) + ":" + k.Code }

// Transaction is the common envelope over the two ledger record variants.
// The concrete types are StockTx and CurrencyTx; the reconstruction loop
// switches exhaustively over them.
type Transaction interface {
	ID() int64       // ledger sequence, the authoritative same-day tie-break
	When() date.Date // the trade date
	Kind() Kind
	Asset() AssetKey
	Note() string
	Equal(Transaction) bool
	Validate() error
}

// header carries the fields shared by both transaction variants.
type header struct {
	Seq     int64
	Day     date.Date
	Op      Kind
	Comment string
}

func (h header) ID() int64       { return h.Seq }
func (h header) When() date.Date { return h.Day }
func (h header) Kind() Kind      { return h.Op }
func (h header) Note() string    { return h.Comment }

func (h header) validate() error {
	if h.Day.IsZero() {
		return validationf("transaction date is missing")
	}
	if h.Op != Buy && h.Op != Sell {
		return validationf("unknown transaction kind %q", h.Op)
	}
	return nil
}

// StockTx records a purchase or sale of shares in a listed ticker.
type StockTx struct {
	header
	Symbol string
	Shares decimal.Decimal // number of shares, always positive
	Price  decimal.Decimal // trade price per share in the ticker's currency
}

// NewStockTx creates a stock transaction. The id is assigned by the ledger
// store on append; pass 0 for a transaction that has not been persisted yet.
func NewStockTx(id int64, day date.Date, kind Kind, symbol string, shares, price decimal.Decimal, comment string) StockTx {
	return StockTx{
		header: header{Seq: id, Day: day, Op: kind, Comment: comment},
		Symbol: symbol,
		Shares: shares,
		Price:  price,
	}
}

func (t StockTx) Asset() AssetKey { return AssetKey{Class: Ticker, Code: t.Symbol} }

func (t StockTx) Equal(other Transaction) bool {
	o, ok := other.(StockTx)
	return ok && t.header == o.header && t.Symbol == o.Symbol &&
		t.Shares.Equal(o.Shares) && t.Price.Equal(o.Price)
}

// Validate checks the transaction at the boundary. It returns a
// ValidationError; nothing invalid may reach the ledger.
func (t StockTx) Validate() error {
	if err := t.header.validate(); err != nil {
		return err
	}
	if t.Symbol == "" {
		return validationf("ticker symbol is missing")
	}
	if !t.Shares.IsPositive() {
		return validationf("shares must be positive, got %s", t.Shares)
	}
	if !t.Price.IsPositive() {
		return validationf("price must be positive, got %s", t.Price)
	}
	return nil
}

func (t StockTx) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Day, t.Op, t.Shares, t.Symbol, t.Price)
}

// CurrencyTx records cash entering (buy) or leaving (sell) a currency
// position. Reconciliation entries are ordinary currency transactions.
type CurrencyTx struct {
	header
	Currency string
	Amount   decimal.Decimal // always positive, direction is in Kind
}

// NewCurrencyTx creates a currency transaction.
func NewCurrencyTx(id int64, day date.Date, kind Kind, currency string, amount decimal.Decimal, comment string) CurrencyTx {
	return CurrencyTx{
		header:   header{Seq: id, Day: day, Op: kind, Comment: comment},
		Currency: currency,
		Amount:   amount,
	}
}

func (t CurrencyTx) Asset() AssetKey { return AssetKey{Class: Currency, Code: t.Currency} }

func (t CurrencyTx) Equal(other Transaction) bool {
	o, ok := other.(CurrencyTx)
	return ok && t.header == o.header && t.Currency == o.Currency && t.Amount.Equal(o.Amount)
}

// Validate checks the transaction at the boundary.
func (t CurrencyTx) Validate() error {
	if err := t.header.validate(); err != nil {
		return err
	}
	if err := ValidateCurrency(t.Currency); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return validationf("amount must be positive, got %s", t.Amount)
	}
	return nil
}

func (t CurrencyTx) String() string {
	return fmt.Sprintf("%s %s %s %s", t.Day, t.Op, t.Amount, t.Currency)
}

// CheckStockTrade verifies a stock trade against the current ledger before it
// is appended: a buy must name a listed symbol, a sell must not exceed the
// position the ledger reconstructs. Violations are ValidationErrors so the
// caller can tell user mistakes from corrupted data.
func CheckStockTrade(tx StockTx, l *Ledger, listed bool) error {
	switch tx.Kind() {
	case Buy:
		if !listed {
			return validationf("unknown symbol %q", tx.Symbol)
		}
	case Sell:
		position := l.Position(tx.Asset())
		if tx.Shares.GreaterThan(position) {
			return validationf("sell of %s %s exceeds position of %s", tx.Shares, tx.Symbol, position)
		}
	}
	return nil
}

var currencyCodeRE = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that a currency code is a three-letter uppercase
// ISO-4217 style code.
func ValidateCurrency(code string) error {
	if !currencyCodeRE.MatchString(code) {
		return validationf("invalid currency code %q", code)
	}
	return nil
}
