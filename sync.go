package wealthfolio

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// SyncState reports where a sync run stands.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncRunning SyncState = "running"
	SyncDone    SyncState = "done"
	SyncFailed  SyncState = "failed"
)

// ErrSyncRunning is returned when Run is called while another run is already
// in flight in this process.
var ErrSyncRunning = errors.New("sync already running")

// Market identifies the exchange a ticker trades on.
type Market string

const (
	MarketUS Market = "US"
	MarketHK Market = "HK"
)

// SymbolInfo describes one listed ticker: the display symbol users trade
// under, the provider's native identifier, and the currency its prices are
// quoted in.
type SymbolInfo struct {
	Display  string
	Native   string
	Market   Market
	Currency string
}

// ClosePrice is one daily closing price.
type ClosePrice struct {
	Day   date.Date
	Close decimal.Decimal
}

// Store is the persistence surface the orchestrator drives. The ledger is the
// only table it appends to; assets and account values are replaced wholesale
// on every rebuild.
type Store interface {
	Ledger() (*Ledger, error)
	AppendTransactions(txs ...Transaction) ([]Transaction, error)

	LastSyncDate() (date.Date, bool, error)
	SetLastSyncDate(day date.Date) error

	LatestRateDate() (date.Date, bool, error)
	SaveRates(day date.Date, rates map[string]decimal.Decimal) error
	RateBook() (RateBook, error)

	CountSymbols() (int, error)
	SaveSymbols(symbols []SymbolInfo) error
	LookupSymbol(display string) (SymbolInfo, bool, error)

	LatestPriceDate(symbol string) (date.Date, bool, error)
	SavePrices(symbol, currency string, closes []ClosePrice) error
	PriceBook() (PriceBook, error)

	ReplaceAssets(snapshots []Snapshot) error
	ReplaceAccountSeries(points []AccountPoint) error
}

// RateProvider fetches one day's exchange rates, quoted as units per USD.
type RateProvider interface {
	Rates(ctx context.Context, day date.Date, currencies []string) (map[string]decimal.Decimal, error)
}

// PriceProvider lists a market's tickers and fetches daily closing prices.
type PriceProvider interface {
	Symbols(ctx context.Context, market Market) ([]SymbolInfo, error)
	DailyCloses(ctx context.Context, symbol SymbolInfo, from, to date.Date) ([]ClosePrice, error)
}

// Syncer drives the daily refresh: exchange rates, ticker symbols, closing
// prices, then the full rebuild of derived tables. A run either completes
// every step or leaves the completion marker untouched so the next
// invocation retries from scratch.
type Syncer struct {
	store      Store
	rates      RateProvider
	prices     PriceProvider
	currencies []string
	markets    []Market
	workers    int
	today      func() date.Date
	log        zerolog.Logger

	runMu sync.Mutex
	mu    sync.Mutex
	state SyncState
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithWorkers bounds the number of concurrent provider fetches.
func WithWorkers(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCurrencies sets the currencies whose rates are synced.
func WithCurrencies(currencies []string) SyncerOption {
	return func(s *Syncer) { s.currencies = currencies }
}

// WithMarkets sets the markets whose symbol lists are synced.
func WithMarkets(markets []Market) SyncerOption {
	return func(s *Syncer) { s.markets = markets }
}

// WithLogger sets the run logger.
func WithLogger(log zerolog.Logger) SyncerOption {
	return func(s *Syncer) { s.log = log }
}

// WithClock overrides the clock, for tests.
func WithClock(today func() date.Date) SyncerOption {
	return func(s *Syncer) { s.today = today }
}

// NewSyncer creates a sync orchestrator over a store and its data providers.
func NewSyncer(store Store, rates RateProvider, prices PriceProvider, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:      store,
		rates:      rates,
		prices:     prices,
		currencies: []string{"HKD", "CNY"},
		markets:    []Market{MarketUS, MarketHK},
		workers:    4,
		today:      date.Today,
		log:        zerolog.Nop(),
		state:      SyncIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the state of the last (or current) run.
func (s *Syncer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) setState(st SyncState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run performs at most one full sync per calendar day. A second call on the
// same day is a no-op; a concurrent call returns ErrSyncRunning.
func (s *Syncer) Run(ctx context.Context) error {
	if !s.runMu.TryLock() {
		return ErrSyncRunning
	}
	defer s.runMu.Unlock()

	today := s.today()
	last, ok, err := s.store.LastSyncDate()
	if err != nil {
		return err
	}
	if ok && !last.Before(today) {
		// The day's work is already done; report it as such.
		s.setState(SyncDone)
		s.log.Debug().Stringer("last", last).Msg("already synced today")
		return nil
	}

	run := uuid.NewString()
	log := s.log.With().Str("run", run).Logger()
	log.Info().Stringer("today", today).Msg("sync started")
	s.setState(SyncRunning)

	// Steps are strictly ordered: the rebuild at the end reads everything
	// the earlier steps wrote.
	steps := []struct {
		name string
		fn   func(context.Context, date.Date) error
	}{
		{"rates", s.syncRates},
		{"symbols", s.syncSymbols},
		{"prices", s.syncPrices},
		{"rebuild", s.rebuild},
	}
	for _, step := range steps {
		if err := step.fn(ctx, today); err != nil {
			s.setState(SyncFailed)
			log.Error().Err(err).Str("step", step.name).Msg("sync failed")
			return err
		}
		log.Debug().Str("step", step.name).Msg("step done")
	}

	if err := s.store.SetLastSyncDate(today); err != nil {
		s.setState(SyncFailed)
		return err
	}
	s.setState(SyncDone)
	log.Info().Msg("sync done")
	return nil
}

// syncRates fills the rate table for every calendar day from the day after
// the latest stored rate (or the ledger's first day) through yesterday.
func (s *Syncer) syncRates(ctx context.Context, today date.Date) error {
	ledger, err := s.store.Ledger()
	if err != nil {
		return err
	}
	from, ok := ledger.FirstDate()
	if !ok {
		return nil // empty ledger, nothing to value
	}
	if latest, ok, err := s.store.LatestRateDate(); err != nil {
		return err
	} else if ok && latest.Add(1).After(from) {
		from = latest.Add(1)
	}
	yesterday := today.Add(-1)
	if from.After(yesterday) {
		return nil
	}

	days := make([]date.Date, 0, yesterday.Sub(from)+1)
	for day := range date.Days(from, yesterday) {
		days = append(days, day)
	}
	return fanOut(ctx, s.workers, days, func(ctx context.Context, day date.Date) error {
		rates, err := s.rates.Rates(ctx, day, s.currencies)
		if err != nil {
			return err
		}
		return s.store.SaveRates(day, rates)
	})
}

// syncSymbols populates the symbol table once. Listings churn slowly enough
// that the table is only refreshed when it is empty.
func (s *Syncer) syncSymbols(ctx context.Context, _ date.Date) error {
	n, err := s.store.CountSymbols()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, market := range s.markets {
		symbols, err := s.prices.Symbols(ctx, market)
		if err != nil {
			return err
		}
		if err := s.store.SaveSymbols(symbols); err != nil {
			return err
		}
	}
	return nil
}

// syncPrices extends each traded ticker's price series through yesterday.
func (s *Syncer) syncPrices(ctx context.Context, today date.Date) error {
	ledger, err := s.store.Ledger()
	if err != nil {
		return err
	}
	yesterday := today.Add(-1)

	return fanOut(ctx, s.workers, ledger.Tickers(), func(ctx context.Context, ticker string) error {
		sym, ok, err := s.store.LookupSymbol(ticker)
		if err != nil {
			return err
		}
		if !ok {
			return integrityf("ticker %s is not a known symbol", ticker)
		}
		from, ok := ledger.InceptionDate(AssetKey{Class: Ticker, Code: ticker})
		if !ok {
			return nil
		}
		if latest, ok, err := s.store.LatestPriceDate(ticker); err != nil {
			return err
		} else if ok && latest.Add(1).After(from) {
			from = latest.Add(1)
		}
		if from.After(yesterday) {
			return nil
		}
		closes, err := s.prices.DailyCloses(ctx, sym, from, yesterday)
		if err != nil {
			return err
		}
		return s.store.SavePrices(ticker, sym.Currency, closes)
	})
}

// rebuild regenerates the derived tables from the ledger and the freshly
// synced market data.
func (s *Syncer) rebuild(_ context.Context, today date.Date) error {
	ledger, err := s.store.Ledger()
	if err != nil {
		return err
	}
	if ledger.Len() == 0 {
		return nil // nothing recorded yet, nothing to derive
	}
	snapshots, err := RebuildAssets(ledger, today.Add(-1))
	if err != nil {
		return err
	}
	if err := s.store.ReplaceAssets(snapshots); err != nil {
		return err
	}
	prices, err := s.store.PriceBook()
	if err != nil {
		return err
	}
	rates, err := s.store.RateBook()
	if err != nil {
		return err
	}
	points, err := RebuildAccountValues(snapshots, prices, rates)
	if err != nil {
		return err
	}
	return s.store.ReplaceAccountSeries(points)
}

// fanOut runs fn over jobs with at most 'workers' goroutines. The first
// error cancels the remaining jobs and is returned.
func fanOut[T any](ctx context.Context, workers int, jobs []T, fn func(context.Context, T) error) error {
	if len(jobs) == 0 {
		return nil
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := make(chan T)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range feed {
				if err := fn(ctx, job); err != nil {
					errs <- err
					cancel()
					return
				}
			}
		}()
	}

feeding:
	for _, job := range jobs {
		select {
		case feed <- job:
		case <-ctx.Done():
			break feeding
		}
	}
	close(feed)
	wg.Wait()
	close(errs)
	return <-errs
}
