package catalog

import (
	"testing"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validServiceInput() BusinessServiceInput {
	return BusinessServiceInput{
		Code:         "QC-INSPECT",
		Name:         "Pre-shipment Quality Inspection",
		PricingModel: PricingVolumeBased,
		BasePrice:    valueobject.NewMoneyUSDFromFloat(40), // per MT
		Timeline: DeliveryTimeline{
			MinimumDays:          3,
			AverageDays:          5,
			MaximumDays:          9,
			RushAvailable:        true,
			RushSurchargePercent: decimal.NewFromInt(25),
		},
	}
}

func createTestService(t *testing.T, input BusinessServiceInput) BusinessService {
	t.Helper()
	service, err := NewBusinessService(testGen, testStamp, input)
	require.NoError(t, err)
	return service
}

func TestNewBusinessService(t *testing.T) {
	t.Run("creates service with valid input", func(t *testing.T) {
		service := createTestService(t, validServiceInput())
		assert.Equal(t, "QC-INSPECT", service.Code)
		assert.True(t, service.Active)
	})

	t.Run("rejects disordered timeline with aggregated errors", func(t *testing.T) {
		input := validServiceInput()
		input.Code = ""
		input.Timeline.MinimumDays = 10
		input.Timeline.AverageDays = 5

		_, err := NewBusinessService(testGen, testStamp, input)
		require.Error(t, err)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})
}

func TestBusinessService_CalculatePrice(t *testing.T) {
	t.Run("volume pricing applies tiers", func(t *testing.T) {
		input := validServiceInput()
		input.VolumeTiers = []valueobject.DiscountTier{
			{MinQuantity: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(10)},
		}
		service := createTestService(t, input)

		// 40 * 0.90 * 200 = 7200
		price := service.CalculatePrice(decimal.NewFromInt(200), false)
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(7200)), "got %s", price)
	})

	t.Run("rush surcharge applies when supported", func(t *testing.T) {
		service := createTestService(t, validServiceInput())

		// 40 * 50 = 2000, +25% rush = 2500
		price := service.CalculatePrice(decimal.NewFromInt(50), true)
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(2500)), "got %s", price)
	})

	t.Run("rush ignored when unsupported", func(t *testing.T) {
		input := validServiceInput()
		input.Timeline.RushAvailable = false
		service := createTestService(t, input)

		price := service.CalculatePrice(decimal.NewFromInt(50), true)
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(2000)), "got %s", price)
	})

	t.Run("fixed pricing ignores quantity", func(t *testing.T) {
		input := validServiceInput()
		input.PricingModel = PricingFixed
		input.BasePrice = valueobject.NewMoneyUSDFromFloat(1500)
		service := createTestService(t, input)

		price := service.CalculatePrice(decimal.NewFromInt(99), false)
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(1500)))
	})

	t.Run("percentage pricing takes a share of value", func(t *testing.T) {
		input := validServiceInput()
		input.PricingModel = PricingPercentage
		input.PercentOfValue = decimal.NewFromFloat(1.5)
		service := createTestService(t, input)

		price := service.CalculatePrice(decimal.NewFromInt(200000), false)
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(3000)), "got %s", price)
	})

	t.Run("hourly pricing multiplies by hours", func(t *testing.T) {
		input := validServiceInput()
		input.PricingModel = PricingHourly
		input.BasePrice = valueobject.NewMoneyUSDFromFloat(120)
		service := createTestService(t, input)

		price := service.CalculatePrice(decimal.NewFromInt(8), false)
		assert.True(t, price.Amount().Equal(decimal.NewFromInt(960)))
	})

	t.Run("custom quote yields zero", func(t *testing.T) {
		input := validServiceInput()
		input.PricingModel = PricingCustomQuote
		service := createTestService(t, input)

		assert.True(t, service.RequiresCustomQuote())
		assert.True(t, service.CalculatePrice(decimal.NewFromInt(10), false).IsZero())
	})
}

func TestBusinessService_EstimateDeliveryDays(t *testing.T) {
	service := createTestService(t, validServiceInput()) // 3/5/9 days

	t.Run("standard delivery unchanged", func(t *testing.T) {
		tl := service.EstimateDeliveryDays(false)
		assert.Equal(t, 3, tl.MinimumDays)
		assert.Equal(t, 5, tl.AverageDays)
		assert.Equal(t, 9, tl.MaximumDays)
	})

	t.Run("rush halves each bound rounding up", func(t *testing.T) {
		tl := service.EstimateDeliveryDays(true)
		assert.Equal(t, 2, tl.MinimumDays) // ceil(1.5)
		assert.Equal(t, 3, tl.AverageDays) // ceil(2.5)
		assert.Equal(t, 5, tl.MaximumDays) // ceil(4.5)
	})

	t.Run("rush without support is standard", func(t *testing.T) {
		input := validServiceInput()
		input.Timeline.RushAvailable = false
		noRush := createTestService(t, input)

		tl := noRush.EstimateDeliveryDays(true)
		assert.Equal(t, 5, tl.AverageDays)
	})
}

func TestBusinessService_UpdatePricing(t *testing.T) {
	service := createTestService(t, validServiceInput())

	next, err := service.UpdatePricing(PricingFixed, valueobject.NewMoneyUSDFromFloat(900), decimal.Zero, nil, testStamp)
	require.NoError(t, err)

	assert.Equal(t, PricingFixed, next.PricingModel)
	assert.Equal(t, PricingVolumeBased, service.PricingModel, "receiver must not change")
	assert.Equal(t, 2, next.Version)

	_, err = service.UpdatePricing(PricingModel("BARTER"), service.BasePrice, decimal.Zero, nil, testStamp)
	require.Error(t, err)
}
