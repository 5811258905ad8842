package entity

import "github.com/shopspring/decimal"

// Points awarded per unit of each saved resource.
var (
	PointsPerKgCO2      = decimal.NewFromInt(100)
	PointsPerLiterWater = decimal.NewFromInt(1)
	PointsPerM2Land     = decimal.NewFromInt(50)
)

// Impact is the summed environmental savings of a set of receipt lines.
type Impact struct {
	CO2Saved   decimal.Decimal
	WaterSaved decimal.Decimal
	LandSaved  decimal.Decimal
}

// CalculateImpact sums metric × quantity over the given lines.
func CalculateImpact(lines []*ReceiptLine) Impact {
	impact := Impact{CO2Saved: decimal.Zero, WaterSaved: decimal.Zero, LandSaved: decimal.Zero}
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		impact.CO2Saved = impact.CO2Saved.Add(line.CO2Saved.Mul(qty))
		impact.WaterSaved = impact.WaterSaved.Add(line.WaterSaved.Mul(qty))
		impact.LandSaved = impact.LandSaved.Add(line.LandSaved.Mul(qty))
	}

	return impact
}

// CalculatePoints converts savings into a whole number of points.
// Halves round away from zero, which for non-negative savings is round half up.
func CalculatePoints(co2, water, land decimal.Decimal) int {
	raw := co2.Mul(PointsPerKgCO2).
		Add(water.Mul(PointsPerLiterWater)).
		Add(land.Mul(PointsPerM2Land))

	return int(raw.Round(0).IntPart())
}

// Points is shorthand for CalculatePoints over the impact totals.
func (i Impact) Points() int {
	return CalculatePoints(i.CO2Saved, i.WaterSaved, i.LandSaved)
}
