// Package wealthfolio implements a personal multi-currency portfolio
// tracker. An append-only transaction ledger is the source of truth; from it
// the engine reconstructs every asset's daily state with weighted average
// cost, values the whole account in US dollars day by day, and keeps market
// data fresh through a once-per-day sync.
package wealthfolio
