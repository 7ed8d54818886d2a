// Package persistence wires the entity store backends and the transaction
// manager that serializes mutations against them.
package persistence

import (
	"context"
	"log/slog"
	"sync"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/errors"
)

// lockingTransactionManager implements repository.TransactionManager over any
// SnapshotStore. One load-mutate-save cycle runs at a time per process.
type lockingTransactionManager struct {
	store  repository.SnapshotStore
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewTransactionManager is the constructor for lockingTransactionManager.
func NewTransactionManager(store repository.SnapshotStore, logger *slog.Logger) repository.TransactionManager {
	return &lockingTransactionManager{store: store, logger: logger}
}

// Execute runs fn against a private copy of the snapshot and saves it when fn succeeds.
func (tm *lockingTransactionManager) Execute(ctx context.Context, fn func(snapshot *entity.Snapshot) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot, err := tm.store.Load(ctx)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to load snapshot"), domainerrors.ErrTransactionFailed)
	}

	// fn works on the copy Load handed out; on error it is simply dropped.
	if err := fn(snapshot.Normalize()); err != nil {
		return err
	}

	if err := tm.store.Save(ctx, snapshot); err != nil {
		tm.logger.Error("Failed to save snapshot", "error", err)

		return errors.Mark(errors.Wrap(err, "failed to save snapshot"), domainerrors.ErrTransactionFailed)
	}

	return nil
}

// Read runs fn against a private copy of the snapshot and never saves it.
func (tm *lockingTransactionManager) Read(ctx context.Context, fn func(snapshot *entity.Snapshot) error) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	snapshot, err := tm.store.Load(ctx)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to load snapshot"), domainerrors.ErrTransactionFailed)
	}

	return fn(snapshot.Normalize())
}
