package persistence

import "context"

// SnapshotStore saves and loads the whole matching state.
type SnapshotStore interface {
	// SaveSnapshot replaces the stored state atomically.
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	// LoadSnapshot returns the stored state; an empty store yields an empty snapshot.
	LoadSnapshot(ctx context.Context) (Snapshot, error)
}
