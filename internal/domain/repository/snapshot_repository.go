// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"market/internal/domain/entity"
	"market/internal/errors"
)

// ErrVersionConflict is returned by stores that detect a save based on a stale snapshot.
var ErrVersionConflict = errors.New("snapshot version conflict")

// SnapshotStore is the entity store. It exposes whole-state reads and writes only:
// there is no partial update, and Save replaces everything.
//
// Save offers no isolation of its own. Two sessions that both Load before either
// calls Save lose the first write. Use TransactionManager to serialize mutations.
type SnapshotStore interface {
	// Load returns the current state, or the empty seed state if nothing was saved yet.
	// The returned snapshot is owned by the caller.
	Load(ctx context.Context) (*entity.Snapshot, error)

	// Save atomically replaces the persisted state with snapshot.
	Save(ctx context.Context, snapshot *entity.Snapshot) error
}
