package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItemModel mirrors the 'menu_items' table.
type MenuItemModel struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	Category   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_menu_items_category_name;index"`
	Name       string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_menu_items_category_name"`
	CO2Saved   decimal.Decimal `gorm:"column:co2_saved;type:numeric(12,3);not null"`
	WaterSaved decimal.Decimal `gorm:"column:water_saved;type:numeric(12,3);not null"`
	LandSaved  decimal.Decimal `gorm:"column:land_saved;type:numeric(12,3);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (MenuItemModel) TableName() string {
	return "menu_items"
}
