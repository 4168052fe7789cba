package catalog

import (
	"strings"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CoffeeType represents the botanical/processing family of a coffee product
type CoffeeType string

const (
	CoffeeTypeRobusta CoffeeType = "ROBUSTA"
	CoffeeTypeArabica CoffeeType = "ARABICA"
	CoffeeTypeBlend   CoffeeType = "BLEND"
	CoffeeTypeInstant CoffeeType = "INSTANT"
)

// IsValid checks if the type is a valid CoffeeType
func (t CoffeeType) IsValid() bool {
	switch t {
	case CoffeeTypeRobusta, CoffeeTypeArabica, CoffeeTypeBlend, CoffeeTypeInstant:
		return true
	}
	return false
}

// String returns the string representation of CoffeeType
func (t CoffeeType) String() string {
	return string(t)
}

// CoffeeGrade is a quality classification tied to defect rate and screen size
type CoffeeGrade string

const (
	GradeSpecialty  CoffeeGrade = "SPECIALTY"
	GradePremium    CoffeeGrade = "PREMIUM"
	Grade1          CoffeeGrade = "GRADE_1"
	Grade2          CoffeeGrade = "GRADE_2"
	Grade3          CoffeeGrade = "GRADE_3"
	GradeCommercial CoffeeGrade = "COMMERCIAL"
)

// IsValid checks if the grade is a valid CoffeeGrade
func (g CoffeeGrade) IsValid() bool {
	switch g {
	case GradeSpecialty, GradePremium, Grade1, Grade2, Grade3, GradeCommercial:
		return true
	}
	return false
}

// ProcessingMethod represents how the cherry was processed into green coffee
type ProcessingMethod string

const (
	ProcessingWashed    ProcessingMethod = "WASHED"
	ProcessingNatural   ProcessingMethod = "NATURAL"
	ProcessingHoney     ProcessingMethod = "HONEY"
	ProcessingWetHulled ProcessingMethod = "WET_HULLED"
)

// IsValid checks if the method is a valid ProcessingMethod
func (p ProcessingMethod) IsValid() bool {
	switch p {
	case ProcessingWashed, ProcessingNatural, ProcessingHoney, ProcessingWetHulled:
		return true
	}
	return false
}

// Specifications holds the measurable quality attributes of a coffee lot
type Specifications struct {
	MoisturePercent   decimal.Decimal
	ScreenSize        string
	DefectRatePercent decimal.Decimal
	CuppingScore      *decimal.Decimal // 0-100 sensory rating, optional
}

// Pricing holds the commercial terms a product is offered under
type Pricing struct {
	BasePrice     valueobject.Money // per pricing unit, at the default incoterm
	Unit          valueobject.WeightUnit
	Incoterm      valueobject.Incoterm
	MinimumOrder  decimal.Decimal
	DiscountTiers []valueobject.DiscountTier // ascending thresholds
	ValidUntil    *time.Time
}

// Availability holds stock state and the window a product can be sold in
type Availability struct {
	InStock        bool
	StockQuantity  decimal.Decimal
	AvailableFrom  *time.Time
	AvailableUntil *time.Time
	LeadTimeDays   int
}

// CoffeeProduct is an immutable catalog record for an exportable coffee lot.
// Mutations return a new value; nothing writes to the receiver.
type CoffeeProduct struct {
	shared.RecordMeta
	SKU            string
	Name           string
	Type           CoffeeType
	Grade          CoffeeGrade
	Processing     ProcessingMethod
	Origin         string
	Specifications Specifications
	Certifications []string
	Pricing        Pricing
	Availability   Availability
	Active         bool
}

// CoffeeProductInput is the plain payload a product is constructed from
type CoffeeProductInput struct {
	SKU            string
	Name           string
	Type           CoffeeType
	Grade          CoffeeGrade
	Processing     ProcessingMethod
	Origin         string
	Specifications Specifications
	Certifications []string
	Pricing        Pricing
	Availability   Availability
}

// specialtyCuppingThreshold: lots cupping at or above this are specialty grade
// regardless of their declared grade.
var specialtyCuppingThreshold = decimal.NewFromInt(80)

// ValidateCoffeeProductInput checks every field constraint and returns an
// aggregated error naming all violations, or nil.
func ValidateCoffeeProductInput(input CoffeeProductInput) error {
	v := shared.NewValidationError()

	if strings.TrimSpace(input.SKU) == "" {
		v.Add("sku", "REQUIRED", "SKU cannot be empty")
	} else if len(input.SKU) > 50 {
		v.Add("sku", "TOO_LONG", "SKU cannot exceed 50 characters")
	}
	if strings.TrimSpace(input.Name) == "" {
		v.Add("name", "REQUIRED", "Name cannot be empty")
	}
	if !input.Type.IsValid() {
		v.Add("type", "INVALID", "Coffee type must be ROBUSTA, ARABICA, BLEND or INSTANT")
	}
	if !input.Grade.IsValid() {
		v.Add("grade", "INVALID", "Unknown coffee grade")
	}
	if !input.Processing.IsValid() {
		v.Add("processing", "INVALID", "Unknown processing method")
	}

	validateSpecifications(v, input.Specifications)
	validatePricing(v, input.Pricing)
	validateAvailability(v, input.Availability)

	return v.ErrOrNil()
}

// IsValidCoffeeProductInput is the non-throwing variant of input validation.
func IsValidCoffeeProductInput(input CoffeeProductInput) bool {
	return ValidateCoffeeProductInput(input) == nil
}

func validateSpecifications(v *shared.ValidationError, spec Specifications) {
	hundred := decimal.NewFromInt(100)
	if spec.MoisturePercent.IsNegative() || spec.MoisturePercent.GreaterThan(hundred) {
		v.Add("specifications.moisture_percent", "OUT_OF_RANGE", "Moisture must be between 0 and 100")
	}
	if spec.DefectRatePercent.IsNegative() || spec.DefectRatePercent.GreaterThan(hundred) {
		v.Add("specifications.defect_rate_percent", "OUT_OF_RANGE", "Defect rate must be between 0 and 100")
	}
	if spec.CuppingScore != nil {
		if spec.CuppingScore.IsNegative() || spec.CuppingScore.GreaterThan(hundred) {
			v.Add("specifications.cupping_score", "OUT_OF_RANGE", "Cupping score must be between 0 and 100")
		}
	}
}

func validatePricing(v *shared.ValidationError, pricing Pricing) {
	if pricing.BasePrice.IsNegative() {
		v.Add("pricing.base_price", "INVALID", "Base price cannot be negative")
	}
	if !pricing.Unit.IsValid() {
		v.Add("pricing.unit", "INVALID", "Unknown pricing unit")
	}
	if !pricing.Incoterm.IsValid() {
		v.Add("pricing.incoterm", "INVALID", "Unknown incoterm")
	}
	if !pricing.MinimumOrder.IsPositive() {
		v.Add("pricing.minimum_order", "INVALID", "Minimum order must be positive")
	}
	if !valueobject.ValidateDiscountTiers(pricing.DiscountTiers) {
		v.Add("pricing.discount_tiers", "INVALID", "Discount tiers must have ascending thresholds and discounts between 0 and 100")
	}
}

func validateAvailability(v *shared.ValidationError, avail Availability) {
	if avail.StockQuantity.IsNegative() {
		v.Add("availability.stock_quantity", "INVALID", "Stock quantity cannot be negative")
	}
	if avail.LeadTimeDays < 0 {
		v.Add("availability.lead_time_days", "INVALID", "Lead time cannot be negative")
	}
	if avail.AvailableFrom != nil && avail.AvailableUntil != nil && avail.AvailableFrom.After(*avail.AvailableUntil) {
		v.Add("availability.available_from", "INVALID", "Availability window start must not be after its end")
	}
}

// NewCoffeeProduct constructs a product from a validated input payload.
// A malformed payload is rejected with an aggregated field error; no
// partially-valid record is ever returned.
func NewCoffeeProduct(gen shared.IDGenerator, stamp shared.Stamp, input CoffeeProductInput) (CoffeeProduct, error) {
	if err := ValidateCoffeeProductInput(input); err != nil {
		return CoffeeProduct{}, err
	}

	return CoffeeProduct{
		RecordMeta:     shared.NewRecordMeta(gen, stamp),
		SKU:            strings.ToUpper(strings.TrimSpace(input.SKU)),
		Name:           input.Name,
		Type:           input.Type,
		Grade:          input.Grade,
		Processing:     input.Processing,
		Origin:         input.Origin,
		Specifications: input.Specifications,
		Certifications: cloneStrings(input.Certifications),
		Pricing:        clonePricing(input.Pricing),
		Availability:   input.Availability,
		Active:         true,
	}, nil
}

// IsAvailable returns true when the product is active, in stock, and now falls
// within the availability window. A missing upper bound leaves the window open.
func (p CoffeeProduct) IsAvailable(now time.Time) bool {
	if !p.Active || !p.Availability.InStock {
		return false
	}
	if p.Availability.AvailableFrom != nil && now.Before(*p.Availability.AvailableFrom) {
		return false
	}
	if p.Availability.AvailableUntil != nil && now.After(*p.Availability.AvailableUntil) {
		return false
	}
	return true
}

// CanFulfillOrder returns true when the product is available and the quantity
// sits between the minimum order and the stock on hand. Not fulfillable is a
// plain false, never an error.
func (p CoffeeProduct) CanFulfillOrder(quantity decimal.Decimal, now time.Time) bool {
	if !p.IsAvailable(now) {
		return false
	}
	if quantity.LessThan(p.Pricing.MinimumOrder) {
		return false
	}
	return quantity.LessThanOrEqual(p.Availability.StockQuantity)
}

// CalculatePrice computes the total price for a quantity: the base price with
// the highest discount tier the quantity reaches, adjusted by the incoterm
// factor when the requested term differs from the product's default, times the
// quantity. It always returns a number; fulfillability is the caller's check.
func (p CoffeeProduct) CalculatePrice(quantity decimal.Decimal, incoterm valueobject.Incoterm) valueobject.Money {
	unitPrice := p.Pricing.BasePrice
	if tier := valueobject.SelectDiscountTier(p.Pricing.DiscountTiers, quantity); tier != nil {
		unitPrice = unitPrice.ApplyDiscount(tier.DiscountPercent)
	}
	if incoterm != "" && incoterm != p.Pricing.Incoterm {
		unitPrice = unitPrice.Multiply(incoterm.PriceFactor())
	}
	return unitPrice.Multiply(quantity)
}

// IsSpecialtyGrade returns true for declared specialty lots or lots cupping 80+.
func (p CoffeeProduct) IsSpecialtyGrade() bool {
	if p.Grade == GradeSpecialty {
		return true
	}
	score := p.Specifications.CuppingScore
	return score != nil && score.GreaterThanOrEqual(specialtyCuppingThreshold)
}

// UpdatePricing returns a copy of the product with new commercial terms.
func (p CoffeeProduct) UpdatePricing(pricing Pricing, stamp shared.Stamp) (CoffeeProduct, error) {
	v := shared.NewValidationError()
	validatePricing(v, pricing)
	if err := v.ErrOrNil(); err != nil {
		return CoffeeProduct{}, err
	}

	next := p.clone()
	next.Pricing = clonePricing(pricing)
	next.RecordMeta = p.RecordMeta.Touched(stamp)
	return next, nil
}

// UpdateAvailability returns a copy of the product with new stock state.
func (p CoffeeProduct) UpdateAvailability(avail Availability, stamp shared.Stamp) (CoffeeProduct, error) {
	v := shared.NewValidationError()
	validateAvailability(v, avail)
	if err := v.ErrOrNil(); err != nil {
		return CoffeeProduct{}, err
	}

	next := p.clone()
	next.Availability = avail
	next.RecordMeta = p.RecordMeta.Touched(stamp)
	return next, nil
}

// AdjustStock returns a copy of the product with the stock quantity moved by
// delta. The result may not go negative.
func (p CoffeeProduct) AdjustStock(delta decimal.Decimal, stamp shared.Stamp) (CoffeeProduct, error) {
	newQuantity := p.Availability.StockQuantity.Add(delta)
	if newQuantity.IsNegative() {
		return CoffeeProduct{}, shared.NewDomainError("INSUFFICIENT_STOCK", "Stock adjustment would go below zero")
	}

	next := p.clone()
	next.Availability.StockQuantity = newQuantity
	next.Availability.InStock = newQuantity.IsPositive()
	next.RecordMeta = p.RecordMeta.Touched(stamp)
	return next, nil
}

// Deactivate returns a copy of the product withdrawn from sale. Products are
// never deleted, only deactivated.
func (p CoffeeProduct) Deactivate(stamp shared.Stamp) CoffeeProduct {
	next := p.clone()
	next.Active = false
	next.RecordMeta = p.RecordMeta.Touched(stamp)
	return next
}

// Activate returns a copy of the product restored to sale.
func (p CoffeeProduct) Activate(stamp shared.Stamp) CoffeeProduct {
	next := p.clone()
	next.Active = true
	next.RecordMeta = p.RecordMeta.Touched(stamp)
	return next
}

// clone deep-copies the product so a mutation never aliases the receiver's slices.
func (p CoffeeProduct) clone() CoffeeProduct {
	next := p
	next.Certifications = cloneStrings(p.Certifications)
	next.Pricing = clonePricing(p.Pricing)
	return next
}

func clonePricing(pricing Pricing) Pricing {
	next := pricing
	if pricing.DiscountTiers != nil {
		next.DiscountTiers = make([]valueobject.DiscountTier, len(pricing.DiscountTiers))
		copy(next.DiscountTiers, pricing.DiscountTiers)
	}
	return next
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	next := make([]string, len(values))
	copy(next, values)
	return next
}
