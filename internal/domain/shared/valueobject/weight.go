package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// WeightUnit represents a unit in which coffee quantities are traded.
type WeightUnit string

const (
	UnitKG   WeightUnit = "KG"   // Kilograms
	UnitLB   WeightUnit = "LB"   // Pounds
	UnitMT   WeightUnit = "MT"   // Metric tons (canonical unit)
	UnitBags WeightUnit = "BAGS" // Standard 60kg export bags
)

// Conversion constants to metric tons.
var (
	kgPerMetricTon = decimal.NewFromInt(1000)
	lbPerMetricTon = decimal.NewFromFloat(2204.62)
	bagWeightMT    = decimal.NewFromFloat(0.06) // 60kg bag convention
)

// IsValid checks if the unit is a known weight unit
func (u WeightUnit) IsValid() bool {
	switch u {
	case UnitKG, UnitLB, UnitMT, UnitBags:
		return true
	}
	return false
}

// String returns the string representation of the unit
func (u WeightUnit) String() string {
	return string(u)
}

// Weight is a value object pairing a quantity with its trading unit.
// It is immutable - all operations return new Weight instances.
type Weight struct {
	value decimal.Decimal
	unit  WeightUnit
}

// NewWeight creates a new Weight with the specified value and unit
func NewWeight(value decimal.Decimal, unit WeightUnit) (Weight, error) {
	if value.IsNegative() {
		return Weight{}, errors.New("weight cannot be negative")
	}
	if !unit.IsValid() {
		return Weight{}, fmt.Errorf("unknown weight unit: %s", unit)
	}
	return Weight{value: value, unit: unit}, nil
}

// NewWeightFromFloat creates Weight from a float64 value
func NewWeightFromFloat(value float64, unit WeightUnit) (Weight, error) {
	return NewWeight(decimal.NewFromFloat(value), unit)
}

// MustNewWeight creates a Weight and panics on error
func MustNewWeight(value decimal.Decimal, unit WeightUnit) Weight {
	w, err := NewWeight(value, unit)
	if err != nil {
		panic(err)
	}
	return w
}

// ZeroWeight returns a zero quantity in metric tons
func ZeroWeight() Weight {
	return Weight{value: decimal.Zero, unit: UnitMT}
}

// Value returns the decimal quantity
func (w Weight) Value() decimal.Decimal {
	return w.value
}

// Unit returns the weight unit
func (w Weight) Unit() WeightUnit {
	return w.unit
}

// IsZero returns true if the quantity is zero
func (w Weight) IsZero() bool {
	return w.value.IsZero()
}

// ToMetricTons converts the weight to metric tons, the canonical unit for
// cross-record comparisons: KG/1000, LB/2204.62, BAGS at 60kg each.
func (w Weight) ToMetricTons() decimal.Decimal {
	switch w.unit {
	case UnitKG:
		return w.value.Div(kgPerMetricTon)
	case UnitLB:
		return w.value.Div(lbPerMetricTon)
	case UnitBags:
		return w.value.Mul(bagWeightMT)
	default:
		return w.value
	}
}

// Add returns the sum of both weights in metric tons
func (w Weight) Add(other Weight) Weight {
	return Weight{
		value: w.ToMetricTons().Add(other.ToMetricTons()),
		unit:  UnitMT,
	}
}

// String returns a string representation of the Weight
func (w Weight) String() string {
	return fmt.Sprintf("%s %s", w.value.String(), w.unit)
}

// MetricTonsPerUnit returns how many metric tons a single unit of u weighs.
// Unknown units are treated as already being metric tons.
func MetricTonsPerUnit(u WeightUnit) decimal.Decimal {
	switch u {
	case UnitKG:
		return decimal.NewFromInt(1).Div(kgPerMetricTon)
	case UnitLB:
		return decimal.NewFromInt(1).Div(lbPerMetricTon)
	case UnitBags:
		return bagWeightMT
	default:
		return decimal.NewFromInt(1)
	}
}
