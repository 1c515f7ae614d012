package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/date"
	"github.com/luoyee/wealthfolio/renderer"
)

// tradeCmd is the shared implementation of buy and sell.
type tradeCmd struct {
	kind wealthfolio.Kind
	day  string
	note string
	cash bool
}

func (p *tradeCmd) usage(verb string) string {
	return fmt.Sprintf(`wf %[1]s [-d <date>] [-note <note>] <symbol> <shares> <price>
wf %[1]s [-d <date>] [-note <note>] -cash <currency> <amount>

  Records a %[1]s in the ledger. The first form trades shares of a listed
  ticker at a price in its market currency; the second moves cash in a
  currency position.
`, verb)
}

func (p *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", date.Today().String(), "Transaction date (YYYY-MM-DD).")
	f.StringVar(&p.note, "note", "", "Free-form note stored with the transaction.")
	f.BoolVar(&p.cash, "cash", false, "Record a cash movement instead of a share trade.")
}

func (p *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(p.day)
	if err != nil {
		return fail(err)
	}
	tx, err := p.parseTransaction(day, f.Args())
	if err != nil {
		fmt.Fprintln(flag.CommandLine.Output(), err)
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	if stock, ok := tx.(wealthfolio.StockTx); ok {
		_, listed, err := db.LookupSymbol(stock.Symbol)
		if err != nil {
			return fail(err)
		}
		ledger, err := db.Ledger()
		if err != nil {
			return fail(err)
		}
		if err := wealthfolio.CheckStockTrade(stock, ledger, listed); err != nil {
			return fail(err)
		}
	}

	appended, err := db.AppendTransactions(tx)
	if err != nil {
		return fail(err)
	}
	fmt.Println(renderer.Transaction(appended[0]))
	return subcommands.ExitSuccess
}

func (p *tradeCmd) parseTransaction(day date.Date, args []string) (wealthfolio.Transaction, error) {
	if p.cash {
		if len(args) != 2 {
			return nil, fmt.Errorf("want <currency> <amount>, got %d arguments", len(args))
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return nil, fmt.Errorf("bad amount %q: %w", args[1], err)
		}
		return wealthfolio.NewCurrencyTx(0, day, p.kind, strings.ToUpper(args[0]), amount, p.note), nil
	}
	if len(args) != 3 {
		return nil, fmt.Errorf("want <symbol> <shares> <price>, got %d arguments", len(args))
	}
	shares, err := decimal.NewFromString(args[1])
	if err != nil {
		return nil, fmt.Errorf("bad shares %q: %w", args[1], err)
	}
	price, err := decimal.NewFromString(args[2])
	if err != nil {
		return nil, fmt.Errorf("bad price %q: %w", args[2], err)
	}
	return wealthfolio.NewStockTx(0, day, p.kind, strings.ToUpper(args[0]), shares, price, p.note), nil
}

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a share purchase or cash deposit" }
func (p *buyCmd) Usage() string  { return p.usage("buy") }

func (p *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	p.kind = wealthfolio.Buy
	return p.tradeCmd.Execute(ctx, f, args...)
}

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a share sale or cash withdrawal" }
func (p *sellCmd) Usage() string  { return p.usage("sell") }

func (p *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	p.kind = wealthfolio.Sell
	return p.tradeCmd.Execute(ctx, f, args...)
}
