package catalog

import (
	"testing"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow   = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	testStamp = shared.Stamp{At: testNow, By: "tester"}
	testGen   = shared.UUIDGenerator{}
)

func validProductInput() CoffeeProductInput {
	return CoffeeProductInput{
		SKU:        "ROB-VN-18",
		Name:       "Vietnam Robusta Screen 18",
		Type:       CoffeeTypeRobusta,
		Grade:      Grade1,
		Processing: ProcessingNatural,
		Origin:     "Dak Lak, Vietnam",
		Specifications: Specifications{
			MoisturePercent:   decimal.NewFromFloat(12.5),
			ScreenSize:        "18",
			DefectRatePercent: decimal.NewFromFloat(2.0),
		},
		Certifications: []string{"4C"},
		Pricing: Pricing{
			BasePrice:    valueobject.NewMoneyUSDFromFloat(2400),
			Unit:         valueobject.UnitMT,
			Incoterm:     valueobject.IncotermFOB,
			MinimumOrder: decimal.NewFromInt(5),
		},
		Availability: Availability{
			InStock:       true,
			StockQuantity: decimal.NewFromInt(500),
			LeadTimeDays:  14,
		},
	}
}

func createTestProduct(t *testing.T, input CoffeeProductInput) CoffeeProduct {
	t.Helper()
	product, err := NewCoffeeProduct(testGen, testStamp, input)
	require.NoError(t, err)
	return product
}

func TestNewCoffeeProduct(t *testing.T) {
	t.Run("creates product with valid input", func(t *testing.T) {
		product := createTestProduct(t, validProductInput())

		assert.Equal(t, "ROB-VN-18", product.SKU)
		assert.Equal(t, CoffeeTypeRobusta, product.Type)
		assert.True(t, product.Active)
		assert.Equal(t, testNow, product.CreatedAt)
		assert.Equal(t, testNow, product.UpdatedAt)
		assert.Equal(t, "tester", product.UpdatedBy)
		assert.Equal(t, 1, product.Version)
	})

	t.Run("normalizes sku to uppercase", func(t *testing.T) {
		input := validProductInput()
		input.SKU = " rob-vn-18 "
		product := createTestProduct(t, input)
		assert.Equal(t, "ROB-VN-18", product.SKU)
	})

	t.Run("aggregates every violated field", func(t *testing.T) {
		input := validProductInput()
		input.SKU = ""
		input.Type = CoffeeType("DECAF")
		input.Pricing.MinimumOrder = decimal.Zero
		input.Availability.StockQuantity = decimal.NewFromInt(-1)

		_, err := NewCoffeeProduct(testGen, testStamp, input)
		require.Error(t, err)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		assert.Contains(t, fields, "sku")
		assert.Contains(t, fields, "type")
		assert.Contains(t, fields, "pricing.minimum_order")
		assert.Contains(t, fields, "availability.stock_quantity")
	})

	t.Run("rejects inverted availability window", func(t *testing.T) {
		input := validProductInput()
		from := testNow.AddDate(0, 1, 0)
		until := testNow
		input.Availability.AvailableFrom = &from
		input.Availability.AvailableUntil = &until

		_, err := NewCoffeeProduct(testGen, testStamp, input)
		require.Error(t, err)
	})

	t.Run("rejects non-ascending discount tiers", func(t *testing.T) {
		input := validProductInput()
		input.Pricing.DiscountTiers = []valueobject.DiscountTier{
			{MinQuantity: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(10)},
			{MinQuantity: decimal.NewFromInt(50), DiscountPercent: decimal.NewFromInt(5)},
		}
		_, err := NewCoffeeProduct(testGen, testStamp, input)
		require.Error(t, err)
	})
}

func TestCoffeeProduct_IsAvailable(t *testing.T) {
	t.Run("active and in stock with open window", func(t *testing.T) {
		product := createTestProduct(t, validProductInput())
		assert.True(t, product.IsAvailable(testNow))
	})

	t.Run("false when deactivated", func(t *testing.T) {
		product := createTestProduct(t, validProductInput()).Deactivate(testStamp)
		assert.False(t, product.IsAvailable(testNow))
	})

	t.Run("false when out of stock", func(t *testing.T) {
		input := validProductInput()
		input.Availability.InStock = false
		product := createTestProduct(t, input)
		assert.False(t, product.IsAvailable(testNow))
	})

	t.Run("respects availability window", func(t *testing.T) {
		input := validProductInput()
		from := testNow.AddDate(0, 0, -10)
		until := testNow.AddDate(0, 0, 10)
		input.Availability.AvailableFrom = &from
		input.Availability.AvailableUntil = &until
		product := createTestProduct(t, input)

		assert.True(t, product.IsAvailable(testNow))
		assert.False(t, product.IsAvailable(testNow.AddDate(0, 0, -11)))
		assert.False(t, product.IsAvailable(testNow.AddDate(0, 0, 11)))
	})

	t.Run("missing upper bound leaves window open", func(t *testing.T) {
		input := validProductInput()
		from := testNow.AddDate(0, 0, -10)
		input.Availability.AvailableFrom = &from
		product := createTestProduct(t, input)
		assert.True(t, product.IsAvailable(testNow.AddDate(10, 0, 0)))
	})
}

func TestCoffeeProduct_CanFulfillOrder(t *testing.T) {
	product := createTestProduct(t, validProductInput()) // min 5, stock 500

	tests := []struct {
		name     string
		quantity int64
		want     bool
	}{
		{"below minimum order", 4, false},
		{"exactly minimum order", 5, true},
		{"within stock", 300, true},
		{"exactly stock", 500, true},
		{"above stock", 501, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, product.CanFulfillOrder(decimal.NewFromInt(tt.quantity), testNow))
		})
	}

	t.Run("false when unavailable regardless of quantity", func(t *testing.T) {
		inactive := product.Deactivate(testStamp)
		assert.False(t, inactive.CanFulfillOrder(decimal.NewFromInt(100), testNow))
	})

	t.Run("agrees with availability and bounds", func(t *testing.T) {
		for q := int64(1); q <= 510; q += 7 {
			quantity := decimal.NewFromInt(q)
			expected := product.IsAvailable(testNow) &&
				quantity.GreaterThanOrEqual(product.Pricing.MinimumOrder) &&
				quantity.LessThanOrEqual(product.Availability.StockQuantity)
			assert.Equal(t, expected, product.CanFulfillOrder(quantity, testNow), "quantity %d", q)
		}
	})
}

func TestCoffeeProduct_CalculatePrice(t *testing.T) {
	input := validProductInput()
	input.Pricing.BasePrice = valueobject.NewMoneyUSDFromFloat(3000)
	input.Pricing.DiscountTiers = []valueobject.DiscountTier{
		{MinQuantity: decimal.NewFromInt(50), DiscountPercent: decimal.NewFromInt(5)},
		{MinQuantity: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(10)},
	}
	product := createTestProduct(t, input)

	t.Run("applies highest reached tier", func(t *testing.T) {
		// 3000 * 0.90 * 120 = 324000
		price := product.CalculatePrice(decimal.NewFromInt(120), "")
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(324000)), "got %s", price)
	})

	t.Run("no tier below first threshold", func(t *testing.T) {
		price := product.CalculatePrice(decimal.NewFromInt(10), "")
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(30000)), "got %s", price)
	})

	t.Run("tier boundary is inclusive", func(t *testing.T) {
		price := product.CalculatePrice(decimal.NewFromInt(50), "")
		// 3000 * 0.95 * 50 = 142500
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(142500)), "got %s", price)
	})

	t.Run("incoterm factor applies only when differing from default", func(t *testing.T) {
		base := product.CalculatePrice(decimal.NewFromInt(10), valueobject.IncotermFOB)
		assert.True(t, base.Amount().Equal(decimal.NewFromInt(30000)))

		cif := product.CalculatePrice(decimal.NewFromInt(10), valueobject.IncotermCIF)
		assert.True(t, cif.Amount().Equal(decimal.NewFromFloat(31500)), "got %s", cif)

		exw := product.CalculatePrice(decimal.NewFromInt(10), valueobject.IncotermEXW)
		assert.True(t, exw.Amount().Equal(decimal.NewFromFloat(28500)), "got %s", exw)
	})

	t.Run("unknown incoterm falls back to no adjustment", func(t *testing.T) {
		price := product.CalculatePrice(decimal.NewFromInt(10), valueobject.Incoterm("DDP"))
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(30000)))
	})

	t.Run("per-unit price is non-increasing across tier thresholds", func(t *testing.T) {
		prevUnit := decimal.NewFromInt(1 << 30)
		for q := int64(1); q <= 200; q++ {
			quantity := decimal.NewFromInt(q)
			unit := product.CalculatePrice(quantity, "").Amount().Div(quantity)
			assert.True(t, unit.LessThanOrEqual(prevUnit), "unit price rose at quantity %d", q)
			prevUnit = unit
		}
	})
}

func TestCoffeeProduct_IsSpecialtyGrade(t *testing.T) {
	tests := []struct {
		name    string
		grade   CoffeeGrade
		cupping *float64
		want    bool
	}{
		{"declared specialty", GradeSpecialty, nil, true},
		{"grade 1 without cupping", Grade1, nil, false},
		{"grade 1 cupping 80", Grade1, ptrFloat(80), true},
		{"grade 1 cupping 79.5", Grade1, ptrFloat(79.5), false},
		{"commercial cupping 85", GradeCommercial, ptrFloat(85), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProductInput()
			input.Grade = tt.grade
			if tt.cupping != nil {
				score := decimal.NewFromFloat(*tt.cupping)
				input.Specifications.CuppingScore = &score
			}
			product := createTestProduct(t, input)
			assert.Equal(t, tt.want, product.IsSpecialtyGrade())
		})
	}
}

func TestCoffeeProduct_CopyOnWrite(t *testing.T) {
	product := createTestProduct(t, validProductInput())
	later := shared.Stamp{At: testNow.Add(time.Hour), By: "ops"}

	t.Run("adjust stock returns a new record", func(t *testing.T) {
		next, err := product.AdjustStock(decimal.NewFromInt(-100), later)
		require.NoError(t, err)

		assert.True(t, next.Availability.StockQuantity.Equal(decimal.NewFromInt(400)))
		assert.True(t, product.Availability.StockQuantity.Equal(decimal.NewFromInt(500)), "receiver must not change")
		assert.Equal(t, 2, next.Version)
		assert.Equal(t, "ops", next.UpdatedBy)
		assert.Equal(t, product.ID, next.ID)
	})

	t.Run("stock cannot go negative", func(t *testing.T) {
		_, err := product.AdjustStock(decimal.NewFromInt(-501), later)
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INSUFFICIENT_STOCK", derr.Code)
	})

	t.Run("draining stock clears the in-stock flag", func(t *testing.T) {
		next, err := product.AdjustStock(decimal.NewFromInt(-500), later)
		require.NoError(t, err)
		assert.False(t, next.Availability.InStock)
	})

	t.Run("tier slice is not aliased between copies", func(t *testing.T) {
		input := validProductInput()
		input.Pricing.DiscountTiers = []valueobject.DiscountTier{
			{MinQuantity: decimal.NewFromInt(50), DiscountPercent: decimal.NewFromInt(5)},
		}
		original := createTestProduct(t, input)
		next := original.Deactivate(later)

		next.Pricing.DiscountTiers[0].DiscountPercent = decimal.NewFromInt(99)
		assert.True(t, original.Pricing.DiscountTiers[0].DiscountPercent.Equal(decimal.NewFromInt(5)))
	})

	t.Run("update pricing validates before applying", func(t *testing.T) {
		bad := product.Pricing
		bad.MinimumOrder = decimal.Zero
		_, err := product.UpdatePricing(bad, later)
		require.Error(t, err)
	})
}

func ptrFloat(f float64) *float64 {
	return &f
}
