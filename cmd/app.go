// Package cmd implements the CLI application managing the portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/store"
)

// Commands lists every subcommand, in the order they show up in help.
var Commands = []subcommands.Command{
	&syncCmd{},
	&buyCmd{},
	&sellCmd{},
	&reconcileCmd{},
	&txCmd{},
	&summaryCmd{},
	&historyCmd{},
	&ratesCmd{},
	&exportCmd{},
	&importCmd{},
}

// As a CLI application the process is short lived, so globals are fine.

var configPath = flag.String("config", wealthfolio.DefaultConfigPath(), "Path to the TOML configuration file")

// loadConfig reads the configuration file named by the -config flag.
func loadConfig() (wealthfolio.Config, error) {
	return wealthfolio.LoadConfig(*configPath)
}

// openStore opens the SQLite store named by the configuration. The caller
// closes it.
func openStore(cfg wealthfolio.Config) (*store.Store, error) {
	return store.Open(cfg.Storage.Path)
}

// logger builds the application logger from the configuration.
func logger(cfg wealthfolio.Config) zerolog.Logger {
	return wealthfolio.NewLogger(cfg.Logging.Level)
}

// printMarkdown renders markdown for the terminal. When rendering fails the
// raw markdown is still readable, so it is printed as is.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints an error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
