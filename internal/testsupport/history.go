package testsupport

import (
	"testing"

	"mediasort/internal/config"
	"mediasort/internal/history"
)

// MustOpenHistory opens the history ledger configured in cfg and closes it
// when the test finishes.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
