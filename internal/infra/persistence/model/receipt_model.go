package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptModel mirrors the 'receipts' table. The unique index on code spans claimed and unclaimed rows.
type ReceiptModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code            string          `gorm:"type:varchar(8);not null;uniqueIndex:idx_receipts_code"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index"`
	TotalCO2Saved   decimal.Decimal `gorm:"column:total_co2_saved;type:numeric(14,3);not null"`
	TotalWaterSaved decimal.Decimal `gorm:"column:total_water_saved;type:numeric(14,3);not null"`
	TotalLandSaved  decimal.Decimal `gorm:"column:total_land_saved;type:numeric(14,3);not null"`
	PointsEarned    int             `gorm:"not null;check:chk_receipts_points_non_negative,points_earned >= 0"`
	CreatedAt       time.Time       `gorm:"index"`
	ClaimedAt       *time.Time

	Lines []ReceiptLineModel `gorm:"foreignKey:ReceiptID"`
}

// TableName explicitly sets the table name for GORM.
func (ReceiptModel) TableName() string {
	return "receipts"
}

// BeforeCreate assigns a time-ordered UUID when none is set.
func (m *ReceiptModel) BeforeCreate(_ *gorm.DB) error {
	return assignUUID(&m.ID)
}

// ReceiptLineModel mirrors the 'receipt_lines' table holding per-line snapshots.
type ReceiptLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null"`
	MenuItemID   int64           `gorm:"not null;index"`
	MenuItemName string          `gorm:"type:varchar(255);not null"`
	Quantity     int             `gorm:"not null;check:chk_receipt_lines_quantity,quantity BETWEEN 1 AND 99"`
	CO2Saved     decimal.Decimal `gorm:"column:co2_saved;type:numeric(12,3);not null"`
	WaterSaved   decimal.Decimal `gorm:"column:water_saved;type:numeric(12,3);not null"`
	LandSaved    decimal.Decimal `gorm:"column:land_saved;type:numeric(12,3);not null"`

	MenuItem *MenuItemModel `gorm:"foreignKey:MenuItemID;constraint:OnDelete:RESTRICT"`
}

// TableName explicitly sets the table name for GORM.
func (ReceiptLineModel) TableName() string {
	return "receipt_lines"
}

// BeforeCreate assigns a time-ordered UUID when none is set.
func (m *ReceiptLineModel) BeforeCreate(_ *gorm.DB) error {
	return assignUUID(&m.ID)
}
