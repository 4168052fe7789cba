package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportTiers() []DiscountTier {
	return []DiscountTier{
		{MinQuantity: decimal.NewFromInt(10), DiscountPercent: decimal.NewFromInt(3)},
		{MinQuantity: decimal.NewFromInt(50), DiscountPercent: decimal.NewFromInt(6)},
		{MinQuantity: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(10)},
	}
}

func TestSelectDiscountTier(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		want     int64 // expected discount percent, -1 for no tier
	}{
		{"below first threshold", 5, -1},
		{"exactly at threshold is inclusive", 10, 3},
		{"between tiers picks lower", 75, 6},
		{"at top tier", 100, 10},
		{"far above top tier", 1000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := SelectDiscountTier(exportTiers(), decimal.NewFromInt(tt.quantity))
			if tt.want < 0 {
				assert.Nil(t, tier)
				return
			}
			require.NotNil(t, tier)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(tier.DiscountPercent))
		})
	}

	t.Run("empty tiers select nothing", func(t *testing.T) {
		assert.Nil(t, SelectDiscountTier(nil, decimal.NewFromInt(100)))
	})
}

func TestValidateDiscountTiers(t *testing.T) {
	t.Run("ascending tiers pass", func(t *testing.T) {
		assert.True(t, ValidateDiscountTiers(exportTiers()))
	})

	t.Run("out of order tiers fail", func(t *testing.T) {
		tiers := exportTiers()
		tiers[0], tiers[2] = tiers[2], tiers[0]
		assert.False(t, ValidateDiscountTiers(tiers))
	})

	t.Run("discount above 100 fails", func(t *testing.T) {
		tiers := []DiscountTier{{MinQuantity: decimal.NewFromInt(1), DiscountPercent: decimal.NewFromInt(101)}}
		assert.False(t, ValidateDiscountTiers(tiers))
	})

	t.Run("negative threshold fails", func(t *testing.T) {
		tiers := []DiscountTier{{MinQuantity: decimal.NewFromInt(-1), DiscountPercent: decimal.NewFromInt(5)}}
		assert.False(t, ValidateDiscountTiers(tiers))
	})

	t.Run("empty is valid", func(t *testing.T) {
		assert.True(t, ValidateDiscountTiers(nil))
	})
}
