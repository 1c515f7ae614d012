package store

// schema creates all tables. The ledger is the only table users write; the
// assets and account tables are regenerated wholesale by every sync.
const schema = `
-- Append-only transaction ledger, the source of truth.
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    day TEXT NOT NULL,                 -- YYYY-MM-DD
    class TEXT NOT NULL,               -- 'ticker' or 'currency'
    kind TEXT NOT NULL,                -- 'buy' or 'sell'
    symbol TEXT,                       -- ticker rows only
    shares TEXT,                       -- decimal as text
    price TEXT,                        -- decimal as text
    currency TEXT,                     -- currency rows only
    amount TEXT,                       -- decimal as text
    note TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_day ON transactions(day);

-- Daily exchange rates, units of currency per USD.
CREATE TABLE IF NOT EXISTS exchange_rates (
    currency TEXT NOT NULL,
    day TEXT NOT NULL,
    rate TEXT NOT NULL,
    PRIMARY KEY (currency, day)
);

-- Known listings per market, refreshed only when empty.
CREATE TABLE IF NOT EXISTS ticker_symbols (
    display TEXT PRIMARY KEY,
    native TEXT NOT NULL,
    market TEXT NOT NULL,
    currency TEXT NOT NULL
);

-- Daily closing prices for traded tickers.
CREATE TABLE IF NOT EXISTS ticker_prices (
    symbol TEXT NOT NULL,
    day TEXT NOT NULL,
    close TEXT NOT NULL,
    currency TEXT NOT NULL,
    PRIMARY KEY (symbol, day)
);

-- Derived: one row per asset per day.
CREATE TABLE IF NOT EXISTS assets (
    day TEXT NOT NULL,
    class TEXT NOT NULL,
    code TEXT NOT NULL,
    shares TEXT NOT NULL,
    avg_cost TEXT NOT NULL,
    balance TEXT NOT NULL,
    PRIMARY KEY (day, class, code)
);

-- Derived: total account value per day, in USD.
CREATE TABLE IF NOT EXISTS account (
    day TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Key-value metadata, holds the sync completion marker.
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`
