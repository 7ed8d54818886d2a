// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"log/slog"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/errors"
	"market/internal/infra/persistence/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
// Each Execute holds a row lock on the snapshot, so writers in other processes queue too.
type gormTransactionManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB, logger *slog.Logger) repository.TransactionManager {
	return &gormTransactionManager{db: db, logger: logger}
}

// Execute loads the snapshot with SELECT ... FOR UPDATE, runs fn and saves in the same transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(snapshot *entity.Snapshot) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Mark(errors.Wrap(tx.Error, "failed to begin transaction"), domainerrors.ErrTransactionFailed)
	}

	// Roll back and re-panic so the caller still sees the panic.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	snapshot, err := tm.lockSnapshot(tx)
	if err != nil {
		tx.Rollback()

		return errors.Mark(err, domainerrors.ErrTransactionFailed)
	}

	if err := fn(snapshot); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			tm.logger.Error("Transaction rollback failed", "error", rbErr, "cause", err)
		}

		return err
	}

	if err := saveSnapshot(tx, snapshot); err != nil {
		tx.Rollback()

		return errors.Mark(err, domainerrors.ErrTransactionFailed)
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Mark(errors.Wrap(err, "failed to commit transaction"), domainerrors.ErrTransactionFailed)
	}

	return nil
}

// Read loads the latest committed snapshot without taking a lock.
func (tm *gormTransactionManager) Read(ctx context.Context, fn func(snapshot *entity.Snapshot) error) error {
	snapshot, err := loadSnapshot(tm.db.WithContext(ctx))
	if err != nil {
		return errors.Mark(err, domainerrors.ErrTransactionFailed)
	}

	return fn(snapshot)
}

// lockSnapshot makes sure the row exists, then selects it for update.
func (tm *gormTransactionManager) lockSnapshot(tx *gorm.DB) (*entity.Snapshot, error) {
	seed := model.SnapshotModel{ID: model.MarketSnapshotID, Document: datatypes.JSON(`{}`)}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, errors.Wrap(err, "failed to seed snapshot row")
	}

	var row model.SnapshotModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&row, model.MarketSnapshotID).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock snapshot row")
	}

	return decodeSnapshot(&row)
}
