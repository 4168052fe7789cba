package quote

import (
	"strings"
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFQStatus represents the status of a request for quote
type RFQStatus string

const (
	RFQStatusPending     RFQStatus = "PENDING"
	RFQStatusInReview    RFQStatus = "IN_REVIEW"
	RFQStatusQuoted      RFQStatus = "QUOTED"
	RFQStatusNegotiating RFQStatus = "NEGOTIATING"
	RFQStatusAccepted    RFQStatus = "ACCEPTED"
	RFQStatusRejected    RFQStatus = "REJECTED"
	RFQStatusExpired     RFQStatus = "EXPIRED"
)

// IsValid checks if the status is a valid RFQStatus
func (s RFQStatus) IsValid() bool {
	switch s {
	case RFQStatusPending, RFQStatusInReview, RFQStatusQuoted, RFQStatusNegotiating,
		RFQStatusAccepted, RFQStatusRejected, RFQStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of RFQStatus
func (s RFQStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states an RFQ never leaves
func (s RFQStatus) IsTerminal() bool {
	switch s {
	case RFQStatusAccepted, RFQStatusRejected, RFQStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// Expiry and rejection are reachable from every non-terminal state; acceptance
// only once a quote is on the table.
func (s RFQStatus) CanTransitionTo(target RFQStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == RFQStatusExpired || target == RFQStatusRejected {
		return true
	}
	switch s {
	case RFQStatusPending:
		return target == RFQStatusInReview
	case RFQStatusInReview:
		return target == RFQStatusQuoted
	case RFQStatusQuoted:
		return target == RFQStatusNegotiating || target == RFQStatusAccepted
	case RFQStatusNegotiating:
		return target == RFQStatusAccepted
	}
	return false
}

// RFQPriority represents handling priority of an inquiry
type RFQPriority string

const (
	PriorityLow    RFQPriority = "low"
	PriorityMedium RFQPriority = "medium"
	PriorityHigh   RFQPriority = "high"
	PriorityUrgent RFQPriority = "urgent"
)

// IsValid checks if the priority is a valid RFQPriority
func (p RFQPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Recurrence describes how often a recurring inquiry repeats
type Recurrence string

const (
	RecurrenceNone       Recurrence = "none"
	RecurrenceMonthly    Recurrence = "monthly"
	RecurrenceQuarterly  Recurrence = "quarterly"
	RecurrenceSemiAnnual Recurrence = "semi_annual"
	RecurrenceAnnual     Recurrence = "annual"
)

// recurrenceMultipliers converts a recurrence to deliveries per year.
var recurrenceMultipliers = map[Recurrence]int64{
	RecurrenceMonthly:    12,
	RecurrenceQuarterly:  4,
	RecurrenceSemiAnnual: 2,
	RecurrenceAnnual:     1,
}

// IsValid checks if the recurrence is known
func (r Recurrence) IsValid() bool {
	if r == RecurrenceNone {
		return true
	}
	_, ok := recurrenceMultipliers[r]
	return ok
}

// IsRecurring returns true when the inquiry repeats
func (r Recurrence) IsRecurring() bool {
	_, ok := recurrenceMultipliers[r]
	return ok
}

// fallbackPricePerMT estimates a lot's value when the buyer names no budget,
// by coffee type in USD per metric ton.
var (
	fallbackPricePerMT = map[catalog.CoffeeType]decimal.Decimal{
		catalog.CoffeeTypeRobusta: decimal.NewFromInt(2500),
		catalog.CoffeeTypeArabica: decimal.NewFromInt(4000),
		catalog.CoffeeTypeBlend:   decimal.NewFromInt(3500),
		catalog.CoffeeTypeInstant: decimal.NewFromInt(6000),
	}
	fallbackPriceDefault = decimal.NewFromInt(3000)
)

// ProductRequirement captures what the buyer is asking for
type ProductRequirement struct {
	CoffeeType  catalog.CoffeeType
	Grade       catalog.CoffeeGrade
	Quantity    decimal.Decimal
	Unit        valueobject.WeightUnit
	TargetPrice *decimal.Decimal // buyer's indicated price per unit, optional
	Notes       string
}

// DeliveryRequirement captures where and when the buyer needs the goods
type DeliveryRequirement struct {
	DestinationPort string
	Country         string
	Incoterm        valueobject.Incoterm
	RequiredBy      *time.Time
}

// PaymentRequirement captures the buyer's payment terms and budget
type PaymentRequirement struct {
	Method    string // e.g. letter of credit, open account
	TermsDays int
	BudgetMin *decimal.Decimal
	BudgetMax *decimal.Decimal
}

// CompanySnapshot pins the inquiring company's details at submission time.
// CompanyID links to a client record when the buyer is already known.
type CompanySnapshot struct {
	CompanyID    *uuid.UUID
	Name         string
	Country      string
	ContactName  string
	ContactEmail string
}

// Communication is a logged touchpoint on an inquiry
type Communication struct {
	At      time.Time
	Channel string // email, phone, meeting
	Summary string
	By      string
}

// RFQ is an immutable request-for-quote record moving through the intake
// pipeline. Mutations return a new value; nothing writes to the receiver.
type RFQ struct {
	shared.RecordMeta
	Number         string
	Status         RFQStatus
	Priority       RFQPriority
	Product        ProductRequirement
	Delivery       DeliveryRequirement
	Payment        PaymentRequirement
	Company        CompanySnapshot
	Recurrence     Recurrence
	AssignedTo     string
	EstimatedValue *decimal.Decimal // explicit estimate set by the desk
	SubmittedAt    time.Time
	LastActivityAt time.Time
	ExpiresAt      *time.Time
	QuoteSentAt    *time.Time
	FollowUpAt     *time.Time
	Communications []Communication
}

// RFQInput is the plain payload an RFQ is constructed from
type RFQInput struct {
	Number     string
	Priority   RFQPriority
	Product    ProductRequirement
	Delivery   DeliveryRequirement
	Payment    PaymentRequirement
	Company    CompanySnapshot
	Recurrence Recurrence
	ExpiresAt  *time.Time
}

// ValidateRFQInput checks every field constraint and returns an aggregated
// error naming all violations, or nil.
func ValidateRFQInput(input RFQInput) error {
	v := shared.NewValidationError()

	if strings.TrimSpace(input.Number) == "" {
		v.Add("number", "REQUIRED", "RFQ number cannot be empty")
	}
	if !input.Priority.IsValid() {
		v.Add("priority", "INVALID", "Unknown priority")
	}
	if !input.Product.CoffeeType.IsValid() {
		v.Add("product.coffee_type", "INVALID", "Unknown coffee type")
	}
	if !input.Product.Quantity.IsPositive() {
		v.Add("product.quantity", "INVALID", "Quantity must be positive")
	}
	if !input.Product.Unit.IsValid() {
		v.Add("product.unit", "INVALID", "Unknown quantity unit")
	}
	if !input.Recurrence.IsValid() {
		v.Add("recurrence", "INVALID", "Unknown recurrence")
	}
	if strings.TrimSpace(input.Company.Name) == "" {
		v.Add("company.name", "REQUIRED", "Company name cannot be empty")
	}
	if input.Payment.BudgetMin != nil && input.Payment.BudgetMax != nil &&
		input.Payment.BudgetMin.GreaterThan(*input.Payment.BudgetMax) {
		v.Add("payment.budget_min", "INVALID", "Budget minimum cannot exceed budget maximum")
	}
	if input.Payment.TermsDays < 0 {
		v.Add("payment.terms_days", "INVALID", "Payment terms cannot be negative")
	}

	return v.ErrOrNil()
}

// IsValidRFQInput is the non-throwing variant of input validation.
func IsValidRFQInput(input RFQInput) bool {
	return ValidateRFQInput(input) == nil
}

// NewRFQ constructs a pending RFQ from a validated input payload. The
// submission instant comes from the stamp, keeping submittedAt and
// lastActivityAt ordered by construction.
func NewRFQ(gen shared.IDGenerator, stamp shared.Stamp, input RFQInput) (RFQ, error) {
	if err := ValidateRFQInput(input); err != nil {
		return RFQ{}, err
	}

	return RFQ{
		RecordMeta:     shared.NewRecordMeta(gen, stamp),
		Number:         strings.ToUpper(strings.TrimSpace(input.Number)),
		Status:         RFQStatusPending,
		Priority:       input.Priority,
		Product:        input.Product,
		Delivery:       input.Delivery,
		Payment:        input.Payment,
		Company:        input.Company,
		Recurrence:     input.Recurrence,
		SubmittedAt:    stamp.At,
		LastActivityAt: stamp.At,
		ExpiresAt:      input.ExpiresAt,
	}, nil
}

// IsActive returns true unless the inquiry was rejected or expired.
func (r RFQ) IsActive() bool {
	return r.Status != RFQStatusExpired && r.Status != RFQStatusRejected
}

// IsExpired returns true when an expiry is set and has passed.
func (r RFQ) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// CanBeQuoted returns true for active, unexpired inquiries that have not yet
// received a quote (pending or in review).
func (r RFQ) CanBeQuoted(now time.Time) bool {
	if !r.IsActive() || r.IsExpired(now) {
		return false
	}
	return r.Status == RFQStatusPending || r.Status == RFQStatusInReview
}

// QuantityInMT returns the requested quantity normalized to metric tons.
func (r RFQ) QuantityInMT() decimal.Decimal {
	weight, err := valueobject.NewWeight(r.Product.Quantity, r.Product.Unit)
	if err != nil {
		return decimal.Zero
	}
	return weight.ToMetricTons()
}

// CalculateEstimatedValue returns the inquiry's estimated USD value: an
// explicit desk estimate wins, then the buyer's budget maximum, then the
// budget minimum, then a per-type market price applied to the quantity.
func (r RFQ) CalculateEstimatedValue() decimal.Decimal {
	if r.EstimatedValue != nil {
		return *r.EstimatedValue
	}
	if r.Payment.BudgetMax != nil {
		return *r.Payment.BudgetMax
	}
	if r.Payment.BudgetMin != nil {
		return *r.Payment.BudgetMin
	}

	pricePerMT, ok := fallbackPricePerMT[r.Product.CoffeeType]
	if !ok {
		pricePerMT = fallbackPriceDefault
	}
	return pricePerMT.Mul(r.QuantityInMT())
}

// GetAnnualVolumePotential returns the yearly quantity a recurring inquiry
// represents, in the inquiry's own unit. Non-recurring inquiries yield zero.
func (r RFQ) GetAnnualVolumePotential() decimal.Decimal {
	multiplier, ok := recurrenceMultipliers[r.Recurrence]
	if !ok {
		return decimal.Zero
	}
	return r.Product.Quantity.Mul(decimal.NewFromInt(multiplier))
}

// UpdateStatus returns a copy of the inquiry moved to the target status.
// Entering QUOTED stamps the quote-sent instant once; re-entering never
// overwrites it.
func (r RFQ) UpdateStatus(target RFQStatus, stamp shared.Stamp) (RFQ, error) {
	if !target.IsValid() {
		return RFQ{}, shared.NewDomainError("INVALID_STATUS", "Unknown RFQ status")
	}
	if !r.Status.CanTransitionTo(target) {
		return RFQ{}, shared.NewDomainError("INVALID_STATE",
			"Cannot move RFQ from "+r.Status.String()+" to "+target.String())
	}

	next := r.clone()
	next.Status = target
	if target == RFQStatusQuoted && r.QuoteSentAt == nil {
		at := stamp.At
		next.QuoteSentAt = &at
	}
	next.touch(stamp)
	return next, nil
}

// Expire returns a copy of the inquiry marked expired. Terminal inquiries
// cannot expire again.
func (r RFQ) Expire(stamp shared.Stamp) (RFQ, error) {
	return r.UpdateStatus(RFQStatusExpired, stamp)
}

// AssignTo returns a copy of the inquiry assigned to a handler.
func (r RFQ) AssignTo(handler string, stamp shared.Stamp) (RFQ, error) {
	if strings.TrimSpace(handler) == "" {
		return RFQ{}, shared.NewDomainError("INVALID_ASSIGNEE", "Handler cannot be empty")
	}

	next := r.clone()
	next.AssignedTo = handler
	next.touch(stamp)
	return next, nil
}

// SetEstimatedValue returns a copy with an explicit desk estimate.
func (r RFQ) SetEstimatedValue(value decimal.Decimal, stamp shared.Stamp) (RFQ, error) {
	if value.IsNegative() {
		return RFQ{}, shared.NewDomainError("INVALID_AMOUNT", "Estimated value cannot be negative")
	}

	next := r.clone()
	next.EstimatedValue = &value
	next.touch(stamp)
	return next, nil
}

// SetFollowUpDate returns a copy with the follow-up reminder set (nil clears it).
func (r RFQ) SetFollowUpDate(at *time.Time, stamp shared.Stamp) RFQ {
	next := r.clone()
	next.FollowUpAt = at
	next.touch(stamp)
	return next
}

// AddCommunication returns a copy with the touchpoint logged.
func (r RFQ) AddCommunication(comm Communication, stamp shared.Stamp) (RFQ, error) {
	if strings.TrimSpace(comm.Summary) == "" {
		return RFQ{}, shared.NewDomainError("INVALID_COMMUNICATION", "Communication summary cannot be empty")
	}
	if comm.At.IsZero() {
		comm.At = stamp.At
	}

	next := r.clone()
	next.Communications = append(next.Communications, comm)
	next.touch(stamp)
	return next, nil
}

// touch refreshes the activity and audit timestamps on a mutated copy.
func (r *RFQ) touch(stamp shared.Stamp) {
	r.LastActivityAt = stamp.At
	r.RecordMeta = r.RecordMeta.Touched(stamp)
}

// clone deep-copies the inquiry so a mutation never aliases the receiver's slices.
func (r RFQ) clone() RFQ {
	next := r
	if r.Communications != nil {
		next.Communications = make([]Communication, len(r.Communications))
		copy(next.Communications, r.Communications)
	}
	return next
}
