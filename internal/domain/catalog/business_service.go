package catalog

import (
	"math"
	"strings"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingModel represents how a business service is priced
type PricingModel string

const (
	PricingFixed       PricingModel = "FIXED"
	PricingPercentage  PricingModel = "PERCENTAGE"
	PricingVolumeBased PricingModel = "VOLUME_BASED"
	PricingHourly      PricingModel = "HOURLY"
	PricingProject     PricingModel = "PROJECT"
	PricingCustomQuote PricingModel = "CUSTOM_QUOTE"
)

// IsValid checks if the model is a valid PricingModel
func (m PricingModel) IsValid() bool {
	switch m {
	case PricingFixed, PricingPercentage, PricingVolumeBased, PricingHourly, PricingProject, PricingCustomQuote:
		return true
	}
	return false
}

// String returns the string representation of PricingModel
func (m PricingModel) String() string {
	return string(m)
}

// DeliveryTimeline describes how long a service takes to deliver
type DeliveryTimeline struct {
	MinimumDays          int
	AverageDays          int
	MaximumDays          int
	RushAvailable        bool
	RushSurchargePercent decimal.Decimal
}

// BusinessService is an immutable catalog record for an export-support
// service (QC inspection, logistics coordination, sourcing, and so on).
type BusinessService struct {
	shared.RecordMeta
	Code         string
	Name         string
	Description  string
	PricingModel PricingModel
	BasePrice    valueobject.Money
	// PercentOfValue applies for the PERCENTAGE model: fee as a share of the
	// underlying shipment value.
	PercentOfValue decimal.Decimal
	VolumeTiers    []valueobject.DiscountTier
	Timeline       DeliveryTimeline
	Capacity       int // concurrent engagements; 0 means unbounded
	Requirements   []string
	Active         bool
}

// BusinessServiceInput is the plain payload a service is constructed from
type BusinessServiceInput struct {
	Code           string
	Name           string
	Description    string
	PricingModel   PricingModel
	BasePrice      valueobject.Money
	PercentOfValue decimal.Decimal
	VolumeTiers    []valueobject.DiscountTier
	Timeline       DeliveryTimeline
	Capacity       int
	Requirements   []string
}

// ValidateBusinessServiceInput checks every field constraint and returns an
// aggregated error naming all violations, or nil.
func ValidateBusinessServiceInput(input BusinessServiceInput) error {
	v := shared.NewValidationError()

	if strings.TrimSpace(input.Code) == "" {
		v.Add("code", "REQUIRED", "Code cannot be empty")
	}
	if strings.TrimSpace(input.Name) == "" {
		v.Add("name", "REQUIRED", "Name cannot be empty")
	}
	if !input.PricingModel.IsValid() {
		v.Add("pricing_model", "INVALID", "Unknown pricing model")
	}
	if input.BasePrice.IsNegative() {
		v.Add("base_price", "INVALID", "Base price cannot be negative")
	}
	if input.PercentOfValue.IsNegative() || input.PercentOfValue.GreaterThan(decimal.NewFromInt(100)) {
		v.Add("percent_of_value", "OUT_OF_RANGE", "Percentage fee must be between 0 and 100")
	}
	if !valueobject.ValidateDiscountTiers(input.VolumeTiers) {
		v.Add("volume_tiers", "INVALID", "Volume tiers must have ascending thresholds and discounts between 0 and 100")
	}
	if input.Capacity < 0 {
		v.Add("capacity", "INVALID", "Capacity cannot be negative")
	}

	validateTimeline(v, input.Timeline)

	return v.ErrOrNil()
}

// IsValidBusinessServiceInput is the non-throwing variant of input validation.
func IsValidBusinessServiceInput(input BusinessServiceInput) bool {
	return ValidateBusinessServiceInput(input) == nil
}

func validateTimeline(v *shared.ValidationError, tl DeliveryTimeline) {
	if tl.MinimumDays < 0 {
		v.Add("timeline.minimum_days", "INVALID", "Minimum days cannot be negative")
	}
	if tl.MinimumDays > tl.AverageDays || tl.AverageDays > tl.MaximumDays {
		v.Add("timeline.average_days", "INVALID", "Timeline must satisfy minimum <= average <= maximum")
	}
	if tl.RushSurchargePercent.IsNegative() {
		v.Add("timeline.rush_surcharge_percent", "INVALID", "Rush surcharge cannot be negative")
	}
}

// NewBusinessService constructs a service from a validated input payload.
func NewBusinessService(gen shared.IDGenerator, stamp shared.Stamp, input BusinessServiceInput) (BusinessService, error) {
	if err := ValidateBusinessServiceInput(input); err != nil {
		return BusinessService{}, err
	}

	return BusinessService{
		RecordMeta:     shared.NewRecordMeta(gen, stamp),
		Code:           strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:           input.Name,
		Description:    input.Description,
		PricingModel:   input.PricingModel,
		BasePrice:      input.BasePrice,
		PercentOfValue: input.PercentOfValue,
		VolumeTiers:    cloneTiers(input.VolumeTiers),
		Timeline:       input.Timeline,
		Capacity:       input.Capacity,
		Requirements:   cloneStrings(input.Requirements),
		Active:         true,
	}, nil
}

// IsAvailable returns true when the service is active.
func (s BusinessService) IsAvailable() bool {
	return s.Active
}

// RequiresCustomQuote returns true when no price can be computed up front.
func (s BusinessService) RequiresCustomQuote() bool {
	return s.PricingModel == PricingCustomQuote
}

// CalculatePrice computes the service fee for a quantity (units depend on the
// model: hours for HOURLY, shipment weight for VOLUME_BASED, engagement count
// for PROJECT). Volume pricing applies the highest tier the quantity reaches
// and a rush surcharge when rush delivery is requested and supported.
// CUSTOM_QUOTE services return zero; callers route those to manual quoting.
func (s BusinessService) CalculatePrice(quantity decimal.Decimal, rush bool) valueobject.Money {
	var price valueobject.Money

	switch s.PricingModel {
	case PricingFixed:
		price = s.BasePrice
	case PricingPercentage:
		// quantity carries the underlying shipment value for percentage fees
		price = valueobject.NewMoneyUSD(quantity).CalculatePercentage(s.PercentOfValue)
	case PricingVolumeBased:
		unit := s.BasePrice
		if tier := valueobject.SelectDiscountTier(s.VolumeTiers, quantity); tier != nil {
			unit = unit.ApplyDiscount(tier.DiscountPercent)
		}
		price = unit.Multiply(quantity)
		if rush && s.Timeline.RushAvailable {
			surcharge := price.CalculatePercentage(s.Timeline.RushSurchargePercent)
			price = price.MustAdd(surcharge)
		}
	case PricingHourly, PricingProject:
		price = s.BasePrice.Multiply(quantity)
	default:
		price = valueobject.Zero(s.BasePrice.Currency())
	}

	return price
}

// EstimateDeliveryDays returns the delivery timeline, with each of the
// min/avg/max day counts halved (rounded up) when rush delivery is requested
// and the service supports it.
func (s BusinessService) EstimateDeliveryDays(rush bool) DeliveryTimeline {
	tl := s.Timeline
	if !rush || !tl.RushAvailable {
		return tl
	}
	tl.MinimumDays = halveDays(tl.MinimumDays)
	tl.AverageDays = halveDays(tl.AverageDays)
	tl.MaximumDays = halveDays(tl.MaximumDays)
	return tl
}

func halveDays(days int) int {
	return int(math.Ceil(float64(days) * 0.5))
}

// UpdateTimeline returns a copy of the service with a new delivery timeline.
func (s BusinessService) UpdateTimeline(tl DeliveryTimeline, stamp shared.Stamp) (BusinessService, error) {
	v := shared.NewValidationError()
	validateTimeline(v, tl)
	if err := v.ErrOrNil(); err != nil {
		return BusinessService{}, err
	}

	next := s.clone()
	next.Timeline = tl
	next.RecordMeta = s.RecordMeta.Touched(stamp)
	return next, nil
}

// UpdatePricing returns a copy of the service with new pricing terms.
func (s BusinessService) UpdatePricing(model PricingModel, basePrice valueobject.Money, percentOfValue decimal.Decimal, tiers []valueobject.DiscountTier, stamp shared.Stamp) (BusinessService, error) {
	v := shared.NewValidationError()
	if !model.IsValid() {
		v.Add("pricing_model", "INVALID", "Unknown pricing model")
	}
	if basePrice.IsNegative() {
		v.Add("base_price", "INVALID", "Base price cannot be negative")
	}
	if percentOfValue.IsNegative() || percentOfValue.GreaterThan(decimal.NewFromInt(100)) {
		v.Add("percent_of_value", "OUT_OF_RANGE", "Percentage fee must be between 0 and 100")
	}
	if !valueobject.ValidateDiscountTiers(tiers) {
		v.Add("volume_tiers", "INVALID", "Volume tiers must have ascending thresholds and discounts between 0 and 100")
	}
	if err := v.ErrOrNil(); err != nil {
		return BusinessService{}, err
	}

	next := s.clone()
	next.PricingModel = model
	next.BasePrice = basePrice
	next.PercentOfValue = percentOfValue
	next.VolumeTiers = cloneTiers(tiers)
	next.RecordMeta = s.RecordMeta.Touched(stamp)
	return next, nil
}

// Deactivate returns a copy of the service withdrawn from the catalog.
func (s BusinessService) Deactivate(stamp shared.Stamp) BusinessService {
	next := s.clone()
	next.Active = false
	next.RecordMeta = s.RecordMeta.Touched(stamp)
	return next
}

// Activate returns a copy of the service restored to the catalog.
func (s BusinessService) Activate(stamp shared.Stamp) BusinessService {
	next := s.clone()
	next.Active = true
	next.RecordMeta = s.RecordMeta.Touched(stamp)
	return next
}

func (s BusinessService) clone() BusinessService {
	next := s
	next.VolumeTiers = cloneTiers(s.VolumeTiers)
	next.Requirements = cloneStrings(s.Requirements)
	return next
}

func cloneTiers(tiers []valueobject.DiscountTier) []valueobject.DiscountTier {
	if tiers == nil {
		return nil
	}
	next := make([]valueobject.DiscountTier, len(tiers))
	copy(next, tiers)
	return next
}
