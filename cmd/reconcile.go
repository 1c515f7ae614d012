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

type reconcileCmd struct{}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "adjust a cash balance to the observed amount" }
func (*reconcileCmd) Usage() string {
	return `wf reconcile <currency> <observed-balance>

  Compares the reconstructed balance of a currency with the balance actually
  observed at the broker, and appends the single cash transaction that closes
  the gap. Differences below one unit are ignored.
`
}

func (*reconcileCmd) SetFlags(*flag.FlagSet) {}

func (p *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 2 {
		fmt.Fprintln(flag.CommandLine.Output(), "want <currency> <observed-balance>")
		return subcommands.ExitUsageError
	}
	currency := strings.ToUpper(args[0])
	target, err := decimal.NewFromString(args[1])
	if err != nil {
		return fail(fmt.Errorf("bad balance %q: %w", args[1], err))
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

	current, err := db.CurrentBalance(currency)
	if err != nil {
		return fail(err)
	}
	tx, needed := wealthfolio.Reconcile(currency, current, target, date.Today())
	if !needed {
		fmt.Printf("%s balance %s already matches, nothing to do.\n", currency, current)
		return subcommands.ExitSuccess
	}
	appended, err := db.AppendTransactions(tx)
	if err != nil {
		return fail(err)
	}
	fmt.Println(renderer.Transaction(appended[0]))
	return subcommands.ExitSuccess
}
