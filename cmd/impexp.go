package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/luoyee/wealthfolio"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as JSON" }
func (*exportCmd) Usage() string {
	return `wf export [-o <file>]

  Writes the whole ledger as a JSON array, to stdout by default. The output
  round-trips through 'wf import' without losing precision.
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Write to a file instead of stdout.")
}

func (p *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	out := os.Stdout
	if p.output != "" {
		out, err = os.Create(p.output)
		if err != nil {
			return fail(err)
		}
		defer out.Close()
	}
	if err := wealthfolio.Export(out, ledger); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	input   string
	replace bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import ledger transactions from JSON" }
func (*importCmd) Usage() string {
	return `wf import [-replace] <file>

  Reads a JSON array of transactions and appends them to the ledger.
  With -replace the existing ledger is swapped for the file's contents,
  keeping the file's transaction ids. Derived tables are stale until the
  next sync.
`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.replace, "replace", false, "Replace the ledger instead of appending.")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(flag.CommandLine.Output(), "want exactly one input file")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(args[0])
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	txs, err := wealthfolio.Import(in)
	if err != nil {
		return fail(err)
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

	if p.replace {
		if err := db.ReplaceLedger(txs); err != nil {
			return fail(err)
		}
	} else if _, err := db.AppendTransactions(txs...); err != nil {
		return fail(err)
	}
	fmt.Printf("Imported %d transactions. Run 'wf sync -force' to rebuild.\n", len(txs))
	return subcommands.ExitSuccess
}
