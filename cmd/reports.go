package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/renderer"
	"github.com/luoyee/wealthfolio/store"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show current holdings, cash and total value" }
func (*summaryCmd) Usage() string {
	return `wf summary

  Shows every open position and cash balance on the most recent valued day,
  each converted to USD, with the account total.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (p *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	snapshots, err := db.LatestSnapshots()
	if err != nil {
		return fail(err)
	}
	prices, err := db.PriceBook()
	if err != nil {
		return fail(err)
	}
	rates, err := db.RateBook()
	if err != nil {
		return fail(err)
	}
	summary, err := wealthfolio.Summarize(snapshots, prices, rates)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Summary(summary))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	tail int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the daily account or ticker value series" }
func (*historyCmd) Usage() string {
	return `wf history [-tail <n>] [<symbol>]

  Shows the account's total USD value day by day. With a symbol, shows that
  ticker's daily shares, close, USD value and return instead.
`
}

func (p *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.tail, "tail", 0, "Show only the last N days.")
}

func (p *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	if f.NArg() > 0 {
		return p.tickerHistory(db, strings.ToUpper(f.Arg(0)))
	}

	points, err := db.AccountSeries()
	if err != nil {
		return fail(err)
	}
	if p.tail > 0 && len(points) > p.tail {
		points = points[len(points)-p.tail:]
	}
	printMarkdown(renderer.History(points))
	return subcommands.ExitSuccess
}

func (p *historyCmd) tickerHistory(db *store.Store, symbol string) subcommands.ExitStatus {
	snapshots, err := db.AssetSeries(wealthfolio.AssetKey{Class: wealthfolio.Ticker, Code: symbol})
	if err != nil {
		return fail(err)
	}
	prices, err := db.PriceBook()
	if err != nil {
		return fail(err)
	}
	rates, err := db.RateBook()
	if err != nil {
		return fail(err)
	}
	points, err := wealthfolio.TickerSeries(snapshots, prices, rates)
	if err != nil {
		return fail(err)
	}
	if p.tail > 0 && len(points) > p.tail {
		points = points[len(points)-p.tail:]
	}
	printMarkdown(renderer.TickerHistory(symbol, points))
	return subcommands.ExitSuccess
}

type ratesCmd struct{}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show the latest known exchange rates" }
func (*ratesCmd) Usage() string {
	return `wf rates

  Shows each synced currency's most recent exchange rate against USD.
`
}
func (*ratesCmd) SetFlags(*flag.FlagSet) {}

func (p *ratesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	rates, err := db.RateBook()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Rates(wealthfolio.LatestRates(rates)))
	return subcommands.ExitSuccess
}

type txCmd struct {
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list ledger transactions, newest first" }
func (*txCmd) Usage() string {
	return `wf tx [-tail <n>]

  Lists ledger transactions, newest first.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	ledger, err := db.Ledger()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Transactions(wealthfolio.RecentTransactions(ledger, p.tail)))
	return subcommands.ExitSuccess
}
