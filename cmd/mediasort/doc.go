// Package main hosts the mediasort CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration, applies per-run flag
// overrides and hands off to internal/orgrun for the actual organize run. It
// renders engine progress on terminals and prints the completion summary.
// Other commands expose the run ledger, log viewing, preflight checks, ntfy
// testing and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
