// Package history persists a ledger of organize runs in SQLite.
//
// Every run, including plan-only and failed ones, is recorded with its
// parameters and summary counters so "mediasort history" can show what was
// done to an output tree and when. The ledger is informational; organize runs
// never read it back.
package history
