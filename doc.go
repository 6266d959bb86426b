// Package vault implements the core of a personal multi-asset ledger:
// wallets holding fiat currencies, crypto, precious metals or stocks,
// transactions mutating their balances, recurring transaction rules, and a
// rate aggregation engine that keeps externally fetched exchange rates and
// asset prices cached with per-class freshness policies.
//
// The package is a library embedded in a larger application. The surrounding
// layers (UI, persistence scheduling, analytics) only consume converted
// amounts, wallet balances and transaction records; all balance mutation goes
// through the Ledger and all rate mutation through the Aggregator.
package vault
