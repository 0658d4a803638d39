package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/talent-matching/internal/persistence/sqlite"
)

// SQLiteHarness provides a migrated snapshot store in a temporary database file.
type SQLiteHarness struct {
	Store *sqlite.SnapshotStore
	Path  string

	cleanup func()
}

// Close releases the store. It is also registered with tb.Cleanup.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a store under tb.TempDir.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "matching.db")
	store, err := sqlite.Open(context.Background(), sqlite.TestConfig(path), DiscardLogger())
	if err != nil {
		tb.Fatalf("failed to open snapshot store: %v", err)
	}

	harness := &SQLiteHarness{
		Store: store,
		Path:  path,
		cleanup: func() {
			_ = store.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
