package catalog

import (
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Coffee Product DTOs
// =============================================================================

// DiscountTierRequest is one quantity/discount pair in a create or update payload
type DiscountTierRequest struct {
	MinQuantity     decimal.Decimal `json:"min_quantity" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent" binding:"required"`
}

// CreateProductRequest represents a request to list a new coffee product
type CreateProductRequest struct {
	SKU            string                `json:"sku" binding:"required,min=1,max=50"`
	Name           string                `json:"name" binding:"required,min=1,max=200"`
	Origin         string                `json:"origin" binding:"max=100"`
	CoffeeType     string                `json:"coffee_type" binding:"required,oneof=ROBUSTA ARABICA BLEND INSTANT"`
	Grade          string                `json:"grade" binding:"required"`
	Processing     string                `json:"processing" binding:"omitempty,oneof=WASHED NATURAL HONEY WET_HULLED"`
	MoisturePct    decimal.Decimal       `json:"moisture_pct"`
	ScreenSize     string                `json:"screen_size" binding:"max=20"`
	DefectRatePct  decimal.Decimal       `json:"defect_rate_pct"`
	CuppingScore   *decimal.Decimal      `json:"cupping_score"`
	Certifications []string              `json:"certifications"`
	BasePrice      decimal.Decimal       `json:"base_price" binding:"required"`
	Currency       string                `json:"currency" binding:"omitempty,oneof=USD EUR GBP CHF AED"`
	Unit           string                `json:"unit" binding:"required,oneof=KG LB MT BAGS"`
	Incoterm       string                `json:"incoterm" binding:"required,oneof=EXW FCA FOB CFR CIF"`
	MinimumOrder   decimal.Decimal       `json:"minimum_order" binding:"required"`
	DiscountTiers  []DiscountTierRequest `json:"discount_tiers"`
	PriceValidTo   *time.Time            `json:"price_valid_to"`
	StockQuantity  decimal.Decimal       `json:"stock_quantity"`
	AvailableFrom  *time.Time            `json:"available_from"`
	AvailableUntil *time.Time            `json:"available_until"`
	LeadTimeDays   int                   `json:"lead_time_days" binding:"min=0"`
}

// UpdatePricingRequest replaces a product's pricing block
type UpdatePricingRequest struct {
	BasePrice     decimal.Decimal       `json:"base_price" binding:"required"`
	Currency      string                `json:"currency" binding:"omitempty,oneof=USD EUR GBP CHF AED"`
	Unit          string                `json:"unit" binding:"required,oneof=KG LB MT BAGS"`
	Incoterm      string                `json:"incoterm" binding:"required,oneof=EXW FCA FOB CFR CIF"`
	MinimumOrder  decimal.Decimal       `json:"minimum_order" binding:"required"`
	DiscountTiers []DiscountTierRequest `json:"discount_tiers"`
	PriceValidTo  *time.Time            `json:"price_valid_to"`
}

// UpdateAvailabilityRequest replaces a product's availability block
type UpdateAvailabilityRequest struct {
	InStock        bool            `json:"in_stock"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	AvailableFrom  *time.Time      `json:"available_from"`
	AvailableUntil *time.Time      `json:"available_until"`
	LeadTimeDays   int             `json:"lead_time_days" binding:"min=0"`
}

// AdjustStockRequest shifts a product's stock by a signed delta
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"max=200"`
}

// PriceQuoteRequest asks for a computed price at a quantity and incoterm
type PriceQuoteRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Incoterm string          `json:"incoterm" binding:"omitempty,oneof=EXW FCA FOB CFR CIF"`
}

// PriceQuoteResponse is the computed price for a quantity
type PriceQuoteResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Incoterm    string          `json:"incoterm"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Currency    string          `json:"currency"`
	CanFulfill  bool            `json:"can_fulfill"`
	IsSpecialty bool            `json:"is_specialty"`
}

// ProductResponse represents a coffee product in API responses
type ProductResponse struct {
	ID             uuid.UUID             `json:"id"`
	SKU            string                `json:"sku"`
	Name           string                `json:"name"`
	Origin         string                `json:"origin"`
	CoffeeType     string                `json:"coffee_type"`
	Grade          string                `json:"grade"`
	Processing     string                `json:"processing"`
	MoisturePct    decimal.Decimal       `json:"moisture_pct"`
	ScreenSize     string                `json:"screen_size"`
	DefectRatePct  decimal.Decimal       `json:"defect_rate_pct"`
	CuppingScore   *decimal.Decimal      `json:"cupping_score,omitempty"`
	Certifications []string              `json:"certifications"`
	BasePrice      decimal.Decimal       `json:"base_price"`
	Currency       string                `json:"currency"`
	Unit           string                `json:"unit"`
	Incoterm       string                `json:"incoterm"`
	MinimumOrder   decimal.Decimal       `json:"minimum_order"`
	DiscountTiers  []DiscountTierRequest `json:"discount_tiers"`
	PriceValidTo   *time.Time            `json:"price_valid_to,omitempty"`
	InStock        bool                  `json:"in_stock"`
	StockQuantity  decimal.Decimal       `json:"stock_quantity"`
	AvailableFrom  *time.Time            `json:"available_from,omitempty"`
	AvailableUntil *time.Time            `json:"available_until,omitempty"`
	LeadTimeDays   int                   `json:"lead_time_days"`
	Active         bool                  `json:"active"`
	IsAvailable    bool                  `json:"is_available"`
	IsSpecialty    bool                  `json:"is_specialty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	CoffeeType string `form:"coffee_type" binding:"omitempty,oneof=ROBUSTA ARABICA BLEND INSTANT"`
	Grade      string `form:"grade"`
	InStock    *bool  `form:"in_stock"`
	Active     *bool  `form:"active"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toDomainTiers converts request tiers to the domain value object
func toDomainTiers(tiers []DiscountTierRequest) []valueobject.DiscountTier {
	if len(tiers) == 0 {
		return nil
	}
	out := make([]valueobject.DiscountTier, len(tiers))
	for i, tier := range tiers {
		out[i] = valueobject.DiscountTier{MinQuantity: tier.MinQuantity, DiscountPercent: tier.DiscountPercent}
	}
	return out
}

func fromDomainTiers(tiers []valueobject.DiscountTier) []DiscountTierRequest {
	out := make([]DiscountTierRequest, len(tiers))
	for i, tier := range tiers {
		out[i] = DiscountTierRequest{MinQuantity: tier.MinQuantity, DiscountPercent: tier.DiscountPercent}
	}
	return out
}

// ToProductResponse maps a domain product to its API representation
func ToProductResponse(p catalog.CoffeeProduct, now time.Time) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Origin:         p.Origin,
		CoffeeType:     string(p.Type),
		Grade:          string(p.Grade),
		Processing:     string(p.Processing),
		MoisturePct:    p.Specifications.MoisturePercent,
		ScreenSize:     p.Specifications.ScreenSize,
		DefectRatePct:  p.Specifications.DefectRatePercent,
		CuppingScore:   p.Specifications.CuppingScore,
		Certifications: p.Certifications,
		BasePrice:      p.Pricing.BasePrice.Amount(),
		Currency:       string(p.Pricing.BasePrice.Currency()),
		Unit:           string(p.Pricing.Unit),
		Incoterm:       string(p.Pricing.Incoterm),
		MinimumOrder:   p.Pricing.MinimumOrder,
		DiscountTiers:  fromDomainTiers(p.Pricing.DiscountTiers),
		PriceValidTo:   p.Pricing.ValidUntil,
		InStock:        p.Availability.InStock,
		StockQuantity:  p.Availability.StockQuantity,
		AvailableFrom:  p.Availability.AvailableFrom,
		AvailableUntil: p.Availability.AvailableUntil,
		LeadTimeDays:   p.Availability.LeadTimeDays,
		Active:         p.Active,
		IsAvailable:    p.IsAvailable(now),
		IsSpecialty:    p.IsSpecialtyGrade(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// =============================================================================
// Business Service DTOs
// =============================================================================

// CreateServiceRequest represents a request to list a new business service
type CreateServiceRequest struct {
	Code                 string                `json:"code" binding:"required,min=1,max=50"`
	Name                 string                `json:"name" binding:"required,min=1,max=200"`
	Description          string                `json:"description" binding:"max=2000"`
	PricingModel         string                `json:"pricing_model" binding:"required,oneof=FIXED PERCENTAGE VOLUME_BASED HOURLY PROJECT CUSTOM_QUOTE"`
	BasePrice            decimal.Decimal       `json:"base_price"`
	Currency             string                `json:"currency" binding:"omitempty,oneof=USD EUR GBP CHF AED"`
	PercentOfValue       decimal.Decimal       `json:"percent_of_value"`
	VolumeTiers          []DiscountTierRequest `json:"volume_tiers"`
	MinimumDays          int                   `json:"minimum_days" binding:"min=0"`
	AverageDays          int                   `json:"average_days" binding:"min=0"`
	MaximumDays          int                   `json:"maximum_days" binding:"min=0"`
	RushAvailable        bool                  `json:"rush_available"`
	RushSurchargePercent decimal.Decimal       `json:"rush_surcharge_percent"`
	Requirements         []string              `json:"requirements"`
	Capacity             int                   `json:"capacity" binding:"min=0"`
}

// UpdateServiceTimelineRequest replaces a service's delivery timeline
type UpdateServiceTimelineRequest struct {
	MinimumDays          int             `json:"minimum_days" binding:"min=0"`
	AverageDays          int             `json:"average_days" binding:"min=0"`
	MaximumDays          int             `json:"maximum_days" binding:"min=0"`
	RushAvailable        bool            `json:"rush_available"`
	RushSurchargePercent decimal.Decimal `json:"rush_surcharge_percent"`
}

// UpdateServicePricingRequest replaces a service's pricing terms
type UpdateServicePricingRequest struct {
	PricingModel   string                `json:"pricing_model" binding:"required,oneof=FIXED PERCENTAGE VOLUME_BASED HOURLY PROJECT CUSTOM_QUOTE"`
	BasePrice      decimal.Decimal       `json:"base_price"`
	Currency       string                `json:"currency" binding:"omitempty,oneof=USD EUR GBP CHF AED"`
	PercentOfValue decimal.Decimal       `json:"percent_of_value"`
	VolumeTiers    []DiscountTierRequest `json:"volume_tiers"`
}

// ServicePriceRequest asks for a computed service price
type ServicePriceRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Rush     bool            `json:"rush"`
}

// ServicePriceResponse is the computed price and delivery estimate
type ServicePriceResponse struct {
	ServiceID     uuid.UUID       `json:"service_id"`
	Code          string          `json:"code"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rush          bool            `json:"rush"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimated_days"`
	NeedsQuote    bool            `json:"needs_quote"`
}

// ServiceResponse represents a business service in API responses
type ServiceResponse struct {
	ID                   uuid.UUID             `json:"id"`
	Code                 string                `json:"code"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	PricingModel         string                `json:"pricing_model"`
	BasePrice            decimal.Decimal       `json:"base_price"`
	Currency             string                `json:"currency"`
	PercentOfValue       decimal.Decimal       `json:"percent_of_value"`
	VolumeTiers          []DiscountTierRequest `json:"volume_tiers"`
	MinimumDays          int                   `json:"minimum_days"`
	AverageDays          int                   `json:"average_days"`
	MaximumDays          int                   `json:"maximum_days"`
	RushAvailable        bool                  `json:"rush_available"`
	RushSurchargePercent decimal.Decimal       `json:"rush_surcharge_percent"`
	Requirements         []string              `json:"requirements"`
	Capacity             int                   `json:"capacity"`
	Active               bool                  `json:"active"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	Version              int                   `json:"version"`
}

// ServiceListFilter represents filter options for the service list
type ServiceListFilter struct {
	Search       string `form:"search"`
	PricingModel string `form:"pricing_model" binding:"omitempty,oneof=FIXED PERCENTAGE VOLUME_BASED HOURLY PROJECT CUSTOM_QUOTE"`
	Active       *bool  `form:"active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToServiceResponse maps a domain service to its API representation
func ToServiceResponse(s catalog.BusinessService) ServiceResponse {
	return ServiceResponse{
		ID:                   s.ID,
		Code:                 s.Code,
		Name:                 s.Name,
		Description:          s.Description,
		PricingModel:         string(s.PricingModel),
		BasePrice:            s.BasePrice.Amount(),
		Currency:             string(s.BasePrice.Currency()),
		PercentOfValue:       s.PercentOfValue,
		VolumeTiers:          fromDomainTiers(s.VolumeTiers),
		MinimumDays:          s.Timeline.MinimumDays,
		AverageDays:          s.Timeline.AverageDays,
		MaximumDays:          s.Timeline.MaximumDays,
		RushAvailable:        s.Timeline.RushAvailable,
		RushSurchargePercent: s.Timeline.RushSurchargePercent,
		Requirements:         s.Requirements,
		Capacity:             s.Capacity,
		Active:               s.Active,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		Version:              s.Version,
	}
}

// toCurrency applies the USD default used across export pricing.
func toCurrency(code string) valueobject.Currency {
	if code == "" {
		return valueobject.DefaultCurrency
	}
	return valueobject.Currency(code)
}
