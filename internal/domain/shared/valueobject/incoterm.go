package valueobject

import "github.com/shopspring/decimal"

// Incoterm is a standardized international trade term defining which party
// bears shipping cost and risk at each stage.
type Incoterm string

const (
	IncotermEXW Incoterm = "EXW" // Ex Works
	IncotermFCA Incoterm = "FCA" // Free Carrier
	IncotermFOB Incoterm = "FOB" // Free On Board (baseline)
	IncotermCFR Incoterm = "CFR" // Cost and Freight
	IncotermCIF Incoterm = "CIF" // Cost, Insurance and Freight
)

// incotermFactors adjusts the FOB-denominated base price for terms where the
// seller bears more or less of the shipping cost. Unknown terms use 1.00.
var incotermFactors = map[Incoterm]decimal.Decimal{
	IncotermEXW: decimal.NewFromFloat(0.95),
	IncotermFCA: decimal.NewFromFloat(0.97),
	IncotermFOB: decimal.NewFromInt(1),
	IncotermCFR: decimal.NewFromFloat(1.03),
	IncotermCIF: decimal.NewFromFloat(1.05),
}

// IsValid checks if the incoterm is one the pricing engine knows
func (i Incoterm) IsValid() bool {
	_, ok := incotermFactors[i]
	return ok
}

// String returns the string representation of the incoterm
func (i Incoterm) String() string {
	return string(i)
}

// PriceFactor returns the price adjustment multiplier for the incoterm.
func (i Incoterm) PriceFactor() decimal.Decimal {
	if f, ok := incotermFactors[i]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}
