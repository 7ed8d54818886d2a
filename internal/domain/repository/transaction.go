package repository

import (
	"context"

	"market/internal/domain/entity"
)

// TransactionManager defines the interface for running a load-mutate-save cycle
// against the entity store as one unit.
type TransactionManager interface {
	// Execute loads the current snapshot and hands a private copy to fn.
	// If fn returns nil the copy is saved; otherwise it is discarded and the
	// persisted state is left untouched. Calls are serialized.
	Execute(ctx context.Context, fn func(snapshot *entity.Snapshot) error) error

	// Read hands a private copy of the current snapshot to fn without saving it.
	Read(ctx context.Context, fn func(snapshot *entity.Snapshot) error) error
}
