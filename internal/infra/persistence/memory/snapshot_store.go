// Package memory keeps the marketplace snapshot in process memory.
package memory

import (
	"context"
	"sync"

	"market/internal/domain/entity"
	"market/internal/domain/repository"
)

type snapshotStore struct {
	mu       sync.RWMutex
	snapshot *entity.Snapshot
}

// NewSnapshotStore returns an empty in-memory entity store.
func NewSnapshotStore() repository.SnapshotStore {
	return &snapshotStore{}
}

// NewSnapshotStoreWith returns an in-memory entity store seeded with snapshot.
func NewSnapshotStoreWith(snapshot *entity.Snapshot) repository.SnapshotStore {
	return &snapshotStore{snapshot: snapshot.Clone()}
}

func (s *snapshotStore) Load(_ context.Context) (*entity.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return entity.NewSnapshot(), nil
	}

	return s.snapshot.Clone(), nil
}

func (s *snapshotStore) Save(_ context.Context, snapshot *entity.Snapshot) error {
	stored := snapshot.Clone()
	stored.Version = snapshot.Version + 1

	s.mu.Lock()
	s.snapshot = stored
	s.mu.Unlock()

	return nil
}
