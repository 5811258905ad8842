package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointLedgerModel mirrors the append-only 'point_ledger' table.
type PointLedgerModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_point_ledger_user_created,priority:1"`
	Delta        int        `gorm:"not null"`
	BalanceAfter int        `gorm:"not null"`
	Reason       string     `gorm:"type:varchar(32);not null"`
	ReferenceID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"index:idx_point_ledger_user_created,priority:2"`
}

// TableName explicitly sets the table name for GORM.
func (PointLedgerModel) TableName() string {
	return "point_ledger"
}

// BeforeCreate assigns a time-ordered UUID when none is set.
func (m *PointLedgerModel) BeforeCreate(_ *gorm.DB) error {
	return assignUUID(&m.ID)
}
