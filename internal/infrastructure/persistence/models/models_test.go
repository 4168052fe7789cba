package models

import (
	"testing"
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/fulfillment"
	"github.com/beanport/backend/internal/domain/partner"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modelNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testMeta() shared.RecordMeta {
	return shared.RecordMeta{
		ID:        uuid.New(),
		CreatedAt: modelNow,
		UpdatedAt: modelNow,
		UpdatedBy: "trader@beanport.example",
		Version:   3,
	}
}

func mustMoney(t *testing.T, amount string, currency valueobject.Currency) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoney(decimal.RequireFromString(amount), currency)
	require.NoError(t, err)
	return m
}

func TestCoffeeProductModelRoundTrip(t *testing.T) {
	cupping := decimal.RequireFromString("84.5")
	validUntil := modelNow.AddDate(0, 3, 0)

	product := catalog.CoffeeProduct{
		RecordMeta: testMeta(),
		SKU:        "ROB-VN-18",
		Name:       "Robusta Dak Lak Screen 18",
		Type:       catalog.CoffeeTypeRobusta,
		Grade:      catalog.Grade1,
		Processing: catalog.ProcessingNatural,
		Origin:     "Dak Lak, Vietnam",
		Specifications: catalog.Specifications{
			MoisturePercent:   decimal.RequireFromString("12.5"),
			ScreenSize:        "18",
			DefectRatePercent: decimal.RequireFromString("2"),
			CuppingScore:      &cupping,
		},
		Certifications: []string{"UTZ", "4C"},
		Pricing: catalog.Pricing{
			BasePrice:    mustMoney(t, "2450", valueobject.USD),
			Unit:         valueobject.UnitMT,
			Incoterm:     valueobject.IncotermFOB,
			MinimumOrder: decimal.RequireFromString("5"),
			DiscountTiers: []valueobject.DiscountTier{
				{MinQuantity: decimal.RequireFromString("100"), DiscountPercent: decimal.RequireFromString("10")},
			},
			ValidUntil: &validUntil,
		},
		Availability: catalog.Availability{
			InStock:       true,
			StockQuantity: decimal.RequireFromString("500"),
			LeadTimeDays:  14,
		},
		Active: true,
	}

	var model CoffeeProductModel
	require.NoError(t, model.FromDomain(product))

	assert.Equal(t, "ROB-VN-18", model.SKU)
	assert.Equal(t, "USD", model.BasePriceCurrency)
	assert.True(t, model.BasePriceAmount.Equal(decimal.RequireFromString("2450")))

	restored, err := model.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, product.ID, restored.ID)
	assert.Equal(t, product.Version, restored.Version)
	assert.Equal(t, product.SKU, restored.SKU)
	assert.Equal(t, product.Type, restored.Type)
	assert.Equal(t, product.Certifications, restored.Certifications)
	assert.True(t, restored.Pricing.BasePrice.Amount().Equal(decimal.RequireFromString("2450")))
	assert.Equal(t, valueobject.USD, restored.Pricing.BasePrice.Currency())
	assert.Equal(t, valueobject.IncotermFOB, restored.Pricing.Incoterm)
	assert.Len(t, restored.Pricing.DiscountTiers, 1)
	require.NotNil(t, restored.Specifications.CuppingScore)
	assert.True(t, restored.Specifications.CuppingScore.Equal(cupping))
	assert.True(t, restored.Availability.StockQuantity.Equal(decimal.RequireFromString("500")))
}

func TestBusinessServiceModelRoundTrip(t *testing.T) {
	service := catalog.BusinessService{
		RecordMeta:   testMeta(),
		Code:         "QC-INSPECT",
		Name:         "Pre-shipment quality inspection",
		PricingModel: catalog.PricingFixed,
		BasePrice:    mustMoney(t, "350", valueobject.USD),
		VolumeTiers: []valueobject.DiscountTier{
			{MinQuantity: decimal.RequireFromString("10"), DiscountPercent: decimal.RequireFromString("5")},
		},
		Timeline: catalog.DeliveryTimeline{
			MinimumDays:          2,
			AverageDays:          3,
			MaximumDays:          5,
			RushAvailable:        true,
			RushSurchargePercent: decimal.RequireFromString("25"),
		},
		Capacity:     8,
		Requirements: []string{"sample lot reference"},
		Active:       true,
	}

	var model BusinessServiceModel
	require.NoError(t, model.FromDomain(service))

	restored, err := model.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, service.ID, restored.ID)
	assert.Equal(t, service.Code, restored.Code)
	assert.Equal(t, catalog.PricingFixed, restored.PricingModel)
	assert.True(t, restored.BasePrice.Amount().Equal(decimal.RequireFromString("350")))
	assert.Equal(t, 3, restored.Timeline.AverageDays)
	assert.True(t, restored.Timeline.RushAvailable)
	assert.Equal(t, service.Requirements, restored.Requirements)
}

func TestClientCompanyModelRoundTrip(t *testing.T) {
	followUp := modelNow.AddDate(0, 1, 0)

	company := partner.ClientCompany{
		RecordMeta:         testMeta(),
		LegalName:          "Hanseatic Roasters GmbH",
		TradeName:          "Hanseatic",
		RegistrationNumber: "HRB-88231",
		Country:            "Germany",
		Status:             partner.CompanyStatusActive,
		Contacts: []partner.Contact{
			{Name: "Anna Weber", Email: "anna@hanseatic.example", Primary: true},
		},
		Financial: partner.FinancialInfo{
			CreditLimit:  mustMoney(t, "100000", valueobject.USD),
			CreditRating: "A-",
		},
		History: partner.TradingHistory{
			TotalOrders:       12,
			TotalValue:        decimal.RequireFromString("480000"),
			PaymentsOnTime:    11,
			PaymentsLate:      1,
			OutstandingAmount: decimal.RequireFromString("15000"),
		},
		Documents: []partner.Document{
			{Type: "import license", Reference: "IL-2024-7", Verified: true},
		},
		FollowUpAt: &followUp,
	}

	var model ClientCompanyModel
	require.NoError(t, model.FromDomain(company))

	assert.Equal(t, "HRB-88231", model.RegistrationNumber)
	assert.Equal(t, 12, model.TotalOrders)
	assert.True(t, model.OutstandingAmount.Equal(decimal.RequireFromString("15000")))

	restored, err := model.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, company.ID, restored.ID)
	assert.Equal(t, company.LegalName, restored.LegalName)
	assert.Equal(t, partner.CompanyStatusActive, restored.Status)
	assert.Len(t, restored.Contacts, 1)
	assert.True(t, restored.Contacts[0].Primary)
	assert.True(t, restored.Financial.CreditLimit.Amount().Equal(decimal.RequireFromString("100000")))
	assert.Equal(t, "A-", restored.Financial.CreditRating)
	assert.Equal(t, 11, restored.History.PaymentsOnTime)
	require.NotNil(t, restored.FollowUpAt)
	assert.True(t, restored.FollowUpAt.Equal(followUp))
}

func TestRFQModelRoundTrip(t *testing.T) {
	companyID := uuid.New()
	requiredBy := modelNow.AddDate(0, 2, 0)
	estimate := decimal.RequireFromString("40000")

	rfq := quote.RFQ{
		RecordMeta: testMeta(),
		Number:     "RFQ-2025-0042",
		Status:     quote.RFQStatusPending,
		Priority:   quote.PriorityMedium,
		Product: quote.ProductRequirement{
			CoffeeType: catalog.CoffeeTypeArabica,
			Grade:      catalog.Grade1,
			Quantity:   decimal.RequireFromString("10"),
			Unit:       valueobject.UnitMT,
		},
		Delivery: quote.DeliveryRequirement{
			DestinationPort: "Hamburg",
			Country:         "Germany",
			Incoterm:        valueobject.IncotermCIF,
			RequiredBy:      &requiredBy,
		},
		Payment: quote.PaymentRequirement{Method: "letter of credit", TermsDays: 60},
		Company: quote.CompanySnapshot{
			CompanyID:    &companyID,
			Name:         "Hanseatic Roasters GmbH",
			Country:      "Germany",
			ContactEmail: "anna@hanseatic.example",
		},
		Recurrence:     quote.RecurrenceQuarterly,
		EstimatedValue: &estimate,
		SubmittedAt:    modelNow,
		LastActivityAt: modelNow,
		Communications: []quote.Communication{
			{At: modelNow, Channel: "email", Summary: "initial inquiry", By: "intake"},
		},
	}

	var model RFQModel
	require.NoError(t, model.FromDomain(rfq))

	// the snapshot link is flattened into a query column
	require.NotNil(t, model.CompanyID)
	assert.Equal(t, companyID, *model.CompanyID)

	restored, err := model.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, rfq.ID, restored.ID)
	assert.Equal(t, rfq.Number, restored.Number)
	assert.Equal(t, quote.RFQStatusPending, restored.Status)
	assert.Equal(t, catalog.CoffeeTypeArabica, restored.Product.CoffeeType)
	assert.True(t, restored.Product.Quantity.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, "Hamburg", restored.Delivery.DestinationPort)
	require.NotNil(t, restored.Company.CompanyID)
	assert.Equal(t, companyID, *restored.Company.CompanyID)
	assert.Equal(t, quote.RecurrenceQuarterly, restored.Recurrence)
	require.NotNil(t, restored.EstimatedValue)
	assert.True(t, restored.EstimatedValue.Equal(estimate))
	assert.Len(t, restored.Communications, 1)
}

func TestRFQModelCompanyColumnFallback(t *testing.T) {
	companyID := uuid.New()

	rfq := quote.RFQ{
		RecordMeta:     testMeta(),
		Number:         "RFQ-2025-0099",
		Status:         quote.RFQStatusPending,
		Priority:       quote.PriorityLow,
		Recurrence:     quote.RecurrenceNone,
		SubmittedAt:    modelNow,
		LastActivityAt: modelNow,
	}

	var model RFQModel
	require.NoError(t, model.FromDomain(rfq))
	model.CompanyID = &companyID
	model.Company = ""

	restored, err := model.ToDomain()
	require.NoError(t, err)

	require.NotNil(t, restored.Company.CompanyID)
	assert.Equal(t, companyID, *restored.Company.CompanyID)
}

func TestOrderModelRoundTrip(t *testing.T) {
	productID := uuid.New()
	companyID := uuid.New()
	rfqID := uuid.New()
	delivery := modelNow.AddDate(0, 1, 15)
	etd := modelNow.AddDate(0, 1, 0)

	order := fulfillment.Order{
		RecordMeta:    testMeta(),
		Number:        "ORD-2025-0108",
		RFQID:         &rfqID,
		CompanyID:     companyID,
		Status:        fulfillment.OrderStatusConfirmed,
		PaymentStatus: fulfillment.PaymentStatusPartial,
		Items: []fulfillment.LineItem{
			{
				ProductID:  productID,
				SKU:        "ROB-VN-18",
				Name:       "Robusta Dak Lak Screen 18",
				Quantity:   decimal.RequireFromString("5"),
				Unit:       valueobject.UnitMT,
				UnitPrice:  mustMoney(t, "2000", valueobject.USD),
				TotalPrice: mustMoney(t, "10000", valueobject.USD),
				Packaging:  "60kg jute bags",
				Status:     fulfillment.LineItemStatusConfirmed,
			},
		},
		TotalAmount: mustMoney(t, "10000", valueobject.USD),
		PaymentSchedule: []fulfillment.PaymentEntry{
			{
				ID:         "deposit",
				DueDate:    modelNow.AddDate(0, 0, 10),
				Percentage: decimal.RequireFromString("40"),
				Amount:     mustMoney(t, "4000", valueobject.USD),
				PaidAmount: mustMoney(t, "4000", valueobject.USD),
				Paid:       true,
				Reference:  "SWIFT-18841",
			},
			{
				ID:         "balance",
				DueDate:    modelNow.AddDate(0, 0, 40),
				Percentage: decimal.RequireFromString("60"),
				Amount:     mustMoney(t, "6000", valueobject.USD),
				PaidAmount: mustMoney(t, "0", valueobject.USD),
			},
		},
		Shipping: fulfillment.ShippingDetails{
			Carrier:         "Maersk",
			PortOfLoading:   "Ho Chi Minh City",
			PortOfDischarge: "Hamburg",
			Incoterm:        valueobject.IncotermCIF,
			ETD:             &etd,
		},
		QualityCheckRequired: true,
		QualityControl: &fulfillment.QualityControlRecord{
			InspectedAt:    modelNow,
			Inspector:      "QC Desk",
			Passed:         true,
			CertificateRef: "QC-2025-118",
		},
		Documents: []fulfillment.Document{
			{Type: "certificate of origin", Reference: "CO-2210", Required: true, Verified: true},
		},
		RequestedDeliveryDate: &delivery,
		Notes:                 "priority client",
	}

	var model OrderModel
	require.NoError(t, model.FromDomain(order))

	assert.Equal(t, "ORD-2025-0108", model.Number)
	assert.Equal(t, "USD", model.Currency)
	assert.True(t, model.TotalAmount.Equal(decimal.RequireFromString("10000")))

	restored, err := model.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, order.ID, restored.ID)
	require.NotNil(t, restored.RFQID)
	assert.Equal(t, rfqID, *restored.RFQID)
	assert.Equal(t, companyID, restored.CompanyID)
	assert.Equal(t, fulfillment.OrderStatusConfirmed, restored.Status)
	assert.Equal(t, fulfillment.PaymentStatusPartial, restored.PaymentStatus)
	require.Len(t, restored.Items, 1)
	assert.True(t, restored.Items[0].UnitPrice.Amount().Equal(decimal.RequireFromString("2000")))
	require.Len(t, restored.PaymentSchedule, 2)
	assert.True(t, restored.PaymentSchedule[0].Paid)
	assert.Equal(t, "SWIFT-18841", restored.PaymentSchedule[0].Reference)
	assert.Equal(t, "Maersk", restored.Shipping.Carrier)
	require.NotNil(t, restored.QualityControl)
	assert.True(t, restored.QualityControl.Passed)
	require.Len(t, restored.Documents, 1)
	require.NotNil(t, restored.RequestedDeliveryDate)
	assert.True(t, restored.RequestedDeliveryDate.Equal(delivery))
}

func TestOrderModelWithoutQualityControl(t *testing.T) {
	order := fulfillment.Order{
		RecordMeta:    testMeta(),
		Number:        "ORD-2025-0109",
		CompanyID:     uuid.New(),
		Status:        fulfillment.OrderStatusDraft,
		PaymentStatus: fulfillment.PaymentStatusPending,
		TotalAmount:   mustMoney(t, "5000", valueobject.USD),
	}

	var model OrderModel
	require.NoError(t, model.FromDomain(order))
	assert.Empty(t, model.QualityControl)

	restored, err := model.ToDomain()
	require.NoError(t, err)
	assert.Nil(t, restored.QualityControl)
	assert.Nil(t, restored.RFQID)
}
