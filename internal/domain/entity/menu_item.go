package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry with the environmental savings of one serving.
type MenuItem struct {
	ID         int64
	Category   string
	Name       string
	CO2Saved   decimal.Decimal // kg of CO2 saved per serving
	WaterSaved decimal.Decimal // liters of water saved per serving
	LandSaved  decimal.Decimal // m² of land saved per serving
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
