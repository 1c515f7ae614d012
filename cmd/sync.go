package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/date"
)

type syncCmd struct {
	force bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "fetch market data and rebuild the daily tables" }
func (*syncCmd) Usage() string {
	return `wf sync [-force]

  Fetches exchange rates and closing prices up to yesterday, then rebuilds
  the daily asset and account value tables from the ledger. Runs at most
  once per day; -force ignores the once-per-day gate.
`
}

func (p *syncCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.force, "force", false, "Sync even if a sync already ran today.")
}

func (p *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	if p.force {
		// Rewind the marker so the gate lets this run through.
		if err := db.SetLastSyncDate(date.Today().Add(-1)); err != nil {
			return fail(err)
		}
	}

	var rateOpts []wealthfolio.CurrencyAPIOption
	if cfg.Sync.CurrencyAPIURL != "" {
		rateOpts = append(rateOpts, wealthfolio.WithCurrencyAPIBaseURL(cfg.Sync.CurrencyAPIURL))
	}
	syncer := wealthfolio.NewSyncer(db,
		wealthfolio.NewCurrencyAPI(rateOpts...),
		wealthfolio.NewEastmoney(),
		wealthfolio.WithCurrencies(cfg.Currencies),
		wealthfolio.WithWorkers(cfg.Sync.Workers),
		wealthfolio.WithLogger(logger(cfg)),
	)
	if err := syncer.Run(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Sync complete.")
	return subcommands.ExitSuccess
}
