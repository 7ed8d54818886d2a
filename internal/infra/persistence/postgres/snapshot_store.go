package postgres

import (
	"context"
	"encoding/json"

	"market/internal/domain/entity"
	"market/internal/domain/repository"
	"market/internal/errors"
	"market/internal/infra/persistence/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotStore implements repository.SnapshotStore on a single postgres row.
type snapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore is the constructor for snapshotStore.
func NewSnapshotStore(db *gorm.DB) repository.SnapshotStore {
	return &snapshotStore{db: db}
}

// Migrate creates the snapshot table when it does not exist.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.SnapshotModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate market_snapshots")
	}

	return nil
}

func (s *snapshotStore) Load(ctx context.Context) (*entity.Snapshot, error) {
	return loadSnapshot(s.db.WithContext(ctx))
}

// Save upserts the row unconditionally; concurrent savers overwrite each other.
func (s *snapshotStore) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	return saveSnapshot(s.db.WithContext(ctx), snapshot)
}

func loadSnapshot(tx *gorm.DB) (*entity.Snapshot, error) {
	var row model.SnapshotModel
	if err := tx.Take(&row, model.MarketSnapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.NewSnapshot(), nil
		}

		return nil, errors.Wrap(err, "failed to select snapshot")
	}

	return decodeSnapshot(&row)
}

func decodeSnapshot(row *model.SnapshotModel) (*entity.Snapshot, error) {
	var snapshot entity.Snapshot
	if len(row.Document) > 0 {
		if err := json.Unmarshal(row.Document, &snapshot); err != nil {
			return nil, errors.Wrap(err, "failed to decode snapshot document")
		}
	}
	snapshot.Version = row.Version

	return snapshot.Normalize(), nil
}

func saveSnapshot(tx *gorm.DB, snapshot *entity.Snapshot) error {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	row := model.SnapshotModel{
		ID:       model.MarketSnapshotID,
		Document: datatypes.JSON(document),
		Version:  snapshot.Version + 1,
	}

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "version", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrap(err, "failed to upsert snapshot")
	}

	return nil
}
