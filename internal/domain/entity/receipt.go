package entity

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Printed receipt code layout.
const (
	ReceiptCodeLetters = 2
	ReceiptCodeDigits  = 6
)

var codeValidator = validator.New()

// IsValidReceiptCode reports whether s has the printed format: two letters A-Z then six digits.
func IsValidReceiptCode(s string) bool {
	if len(s) != ReceiptCodeLetters+ReceiptCodeDigits {
		return false
	}

	return codeValidator.Var(s[:ReceiptCodeLetters], "alpha,uppercase") == nil &&
		codeValidator.Var(s[ReceiptCodeLetters:], "number") == nil
}

// Receipt quantity bounds per line.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 99
)

// Receipt is one finalized point-of-sale transaction.
// Code, totals and PointsEarned are frozen at finalization; UserID moves from nil to a user exactly once.
type Receipt struct {
	ID              uuid.UUID
	Code            string
	UserID          *uuid.UUID
	TotalCO2Saved   decimal.Decimal
	TotalWaterSaved decimal.Decimal
	TotalLandSaved  decimal.Decimal
	PointsEarned    int
	Lines           []*ReceiptLine
	CreatedAt       time.Time
	ClaimedAt       *time.Time
}

// IsClaimed reports whether the receipt is already bound to a user.
func (r *Receipt) IsClaimed() bool {
	return r.UserID != nil
}

// ReceiptLine is a snapshot of one cart line taken at finalization time.
type ReceiptLine struct {
	ID           uuid.UUID
	ReceiptID    uuid.UUID
	Position     int
	MenuItemID   int64
	MenuItemName string
	Quantity     int
	CO2Saved     decimal.Decimal // per unit, copied from the catalog
	WaterSaved   decimal.Decimal
	LandSaved    decimal.Decimal
}
