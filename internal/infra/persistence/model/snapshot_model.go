// Package model holds the GORM table mappings of the postgres entity store.
package model

import (
	"time"

	"gorm.io/datatypes"
)

// MarketSnapshotID is the primary key of the single row holding the live snapshot.
const MarketSnapshotID = 1

// SnapshotModel mirrors the 'market_snapshots' table. The whole marketplace
// state is one JSONB document; Version counts saves.
type SnapshotModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null"`
	Version   int64          `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SnapshotModel) TableName() string {
	return "market_snapshots"
}
