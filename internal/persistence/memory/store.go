// Package memory provides a process-local snapshot store for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/example/talent-matching/internal/persistence"
)

// Store keeps the last saved snapshot in memory.
type Store struct {
	mu       sync.RWMutex
	snapshot persistence.Snapshot
	saves    int
}

var _ persistence.SnapshotStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SaveSnapshot stores a deep copy of snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot persistence.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = cloneSnapshot(snapshot)
	s.saves++
	return nil
}

// LoadSnapshot returns a deep copy of the last saved snapshot.
func (s *Store) LoadSnapshot(ctx context.Context) (persistence.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snapshot), nil
}

// Saves reports how many snapshots were stored.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneSnapshot(in persistence.Snapshot) persistence.Snapshot {
	out := persistence.Snapshot{
		Companies:    append([]persistence.Company(nil), in.Companies...),
		Candidates:   append([]persistence.Candidate(nil), in.Candidates...),
		Offers:       append([]persistence.Offer(nil), in.Offers...),
		Applications: append([]persistence.Application(nil), in.Applications...),
		Wishlist:     append([]persistence.WishlistEntry(nil), in.Wishlist...),
	}
	for i, o := range out.Offers {
		if o.ExpiresAt != nil {
			expires := *o.ExpiresAt
			out.Offers[i].ExpiresAt = &expires
		}
	}
	return out
}
