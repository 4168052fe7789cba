package valueobject

import (
	"github.com/shopspring/decimal"
)

// DiscountTier pairs a quantity threshold with the percentage discount earned
// once an order reaches it. Tiers are kept in ascending threshold order.
type DiscountTier struct {
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// SelectDiscountTier returns the tier with the largest threshold that does not
// exceed the quantity, or nil when the quantity reaches no tier.
func SelectDiscountTier(tiers []DiscountTier, quantity decimal.Decimal) *DiscountTier {
	var selected *DiscountTier
	for idx := range tiers {
		tier := &tiers[idx]
		if tier.MinQuantity.GreaterThan(quantity) {
			continue
		}
		if selected == nil || tier.MinQuantity.GreaterThanOrEqual(selected.MinQuantity) {
			selected = tier
		}
	}
	return selected
}

// ValidateDiscountTiers reports whether the tiers are usable: non-negative
// thresholds, discounts within [0,100], and strictly ascending thresholds.
func ValidateDiscountTiers(tiers []DiscountTier) bool {
	hundred := decimal.NewFromInt(100)
	for idx, tier := range tiers {
		if tier.MinQuantity.IsNegative() {
			return false
		}
		if tier.DiscountPercent.IsNegative() || tier.DiscountPercent.GreaterThan(hundred) {
			return false
		}
		if idx > 0 && !tier.MinQuantity.GreaterThan(tiers[idx-1].MinQuantity) {
			return false
		}
	}
	return true
}
