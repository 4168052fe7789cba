package fulfillment

import (
	"strings"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an export order
type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "DRAFT"
	OrderStatusPendingApproval  OrderStatus = "PENDING_APPROVAL"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusInProduction     OrderStatus = "IN_PRODUCTION"
	OrderStatusQualityCheck     OrderStatus = "QUALITY_CHECK"
	OrderStatusReadyForShipment OrderStatus = "READY_FOR_SHIPMENT"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusInTransit        OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCompleted        OrderStatus = "COMPLETED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
	OrderStatusOnHold           OrderStatus = "ON_HOLD"
	OrderStatusReturned         OrderStatus = "RETURNED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPendingApproval, OrderStatusConfirmed,
		OrderStatusInProduction, OrderStatusQualityCheck, OrderStatusReadyForShipment,
		OrderStatusShipped, OrderStatusInTransit, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusOnHold, OrderStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states an order never leaves
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// nextInChain maps each status to its forward step in the fulfillment chain.
var nextInChain = map[OrderStatus]OrderStatus{
	OrderStatusDraft:            OrderStatusPendingApproval,
	OrderStatusPendingApproval:  OrderStatusConfirmed,
	OrderStatusConfirmed:        OrderStatusInProduction,
	OrderStatusInProduction:     OrderStatusQualityCheck,
	OrderStatusQualityCheck:     OrderStatusReadyForShipment,
	OrderStatusReadyForShipment: OrderStatusShipped,
	OrderStatusShipped:          OrderStatusInTransit,
	OrderStatusInTransit:        OrderStatusDelivered,
	OrderStatusDelivered:        OrderStatusCompleted,
}

// CanTransitionTo checks if the status can transition to the target status.
// Orders move forward one step at a time. Cancellation is possible until the
// goods ship, a hold suspends pre-shipment work, and shipped goods can come
// back as a return.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next, ok := nextInChain[s]; ok && target == next {
		return true
	}
	switch target {
	case OrderStatusCancelled:
		switch s {
		case OrderStatusDraft, OrderStatusPendingApproval, OrderStatusConfirmed,
			OrderStatusInProduction, OrderStatusQualityCheck, OrderStatusReadyForShipment,
			OrderStatusOnHold:
			return true
		}
	case OrderStatusOnHold:
		switch s {
		case OrderStatusConfirmed, OrderStatusInProduction, OrderStatusQualityCheck,
			OrderStatusReadyForShipment:
			return true
		}
	case OrderStatusReturned:
		switch s {
		case OrderStatusShipped, OrderStatusInTransit, OrderStatusDelivered:
			return true
		}
	case OrderStatusConfirmed, OrderStatusInProduction, OrderStatusQualityCheck,
		OrderStatusReadyForShipment:
		// Resuming from hold lands back on any pre-shipment working state.
		return s == OrderStatusOnHold
	}
	return false
}

// PaymentStatus represents the reconciliation state of an order's payments
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPartial   PaymentStatus = "PARTIAL"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusOverdue   PaymentStatus = "OVERDUE"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid,
		PaymentStatusOverdue, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

// LineItemStatus tracks a single line through fulfillment
type LineItemStatus string

const (
	LineItemStatusPending   LineItemStatus = "PENDING"
	LineItemStatusConfirmed LineItemStatus = "CONFIRMED"
	LineItemStatusFulfilled LineItemStatus = "FULFILLED"
	LineItemStatusCancelled LineItemStatus = "CANCELLED"
)

// LineItem is a single product position on an order
type LineItem struct {
	ProductID  uuid.UUID
	SKU        string
	Name       string
	Quantity   decimal.Decimal
	Unit       valueobject.WeightUnit
	UnitPrice  valueobject.Money
	TotalPrice valueobject.Money
	Packaging  string
	Status     LineItemStatus
}

// PaymentEntry is one installment of the order's payment schedule. Entries
// are kept in due-date order as supplied.
type PaymentEntry struct {
	ID         string
	DueDate    time.Time
	Percentage decimal.Decimal
	Amount     valueobject.Money
	PaidAmount valueobject.Money
	PaidAt     *time.Time
	Paid       bool
	Reference  string
}

// ShippingDetails holds the export logistics data for an order
type ShippingDetails struct {
	Carrier         string
	VesselName      string
	ContainerNumber string
	BillOfLading    string
	PortOfLoading   string
	PortOfDischarge string
	Incoterm        valueobject.Incoterm
	ETD             *time.Time
	ETA             *time.Time
}

// QualityControlRecord is the inspection outcome gating shipment
type QualityControlRecord struct {
	InspectedAt    time.Time
	Inspector      string
	Passed         bool
	CuppingScore   *decimal.Decimal
	CertificateRef string
	Notes          string
}

// Document is an export paper attached to an order, such as a certificate of
// origin or a phytosanitary certificate.
type Document struct {
	Type      string
	Reference string
	Required  bool
	Verified  bool
}

// Order is an immutable export-order record. Mutations return a new value;
// nothing writes to the receiver.
type Order struct {
	shared.RecordMeta
	Number                string
	RFQID                 *uuid.UUID
	CompanyID             uuid.UUID
	Status                OrderStatus
	PaymentStatus         PaymentStatus
	Items                 []LineItem
	TotalAmount           valueobject.Money
	PaymentSchedule       []PaymentEntry
	Shipping              ShippingDetails
	QualityCheckRequired  bool
	QualityControl        *QualityControlRecord
	Documents             []Document
	RequestedDeliveryDate *time.Time
	Notes                 string
}

// LineItemInput is the plain payload a line item is built from
type LineItemInput struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Quantity  decimal.Decimal
	Unit      valueobject.WeightUnit
	UnitPrice valueobject.Money
	Packaging string
}

// OrderInput is the plain payload an order is constructed from
type OrderInput struct {
	Number                string
	RFQID                 *uuid.UUID
	CompanyID             uuid.UUID
	Items                 []LineItemInput
	PaymentSchedule       []PaymentEntry
	Shipping              ShippingDetails
	QualityCheckRequired  bool
	Documents             []Document
	RequestedDeliveryDate *time.Time
	Notes                 string
}

// scheduleTolerance is how far the schedule percentages may drift from 100.
var scheduleTolerance = decimal.NewFromFloat(0.01)

// ValidateOrderInput checks every field constraint and returns an aggregated
// error naming all violations, or nil.
func ValidateOrderInput(input OrderInput) error {
	v := shared.NewValidationError()

	if strings.TrimSpace(input.Number) == "" {
		v.Add("number", "REQUIRED", "Order number cannot be empty")
	}
	if input.CompanyID == uuid.Nil {
		v.Add("company_id", "REQUIRED", "Order must reference a client company")
	}
	if len(input.Items) == 0 {
		v.Add("items", "REQUIRED", "Order must have at least one line item")
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			v.Add(itemField(i, "product_id"), "REQUIRED", "Line item must reference a product")
		}
		if !item.Quantity.IsPositive() {
			v.Add(itemField(i, "quantity"), "INVALID", "Line item quantity must be positive")
		}
		if !item.Unit.IsValid() {
			v.Add(itemField(i, "unit"), "INVALID", "Unknown quantity unit")
		}
		if item.UnitPrice.IsNegative() {
			v.Add(itemField(i, "unit_price"), "INVALID", "Unit price cannot be negative")
		}
	}
	if len(input.PaymentSchedule) > 0 {
		total := decimal.Zero
		for i, entry := range input.PaymentSchedule {
			if strings.TrimSpace(entry.ID) == "" {
				v.Add(scheduleField(i, "id"), "REQUIRED", "Schedule entry needs an identifier")
			}
			if entry.Percentage.IsNegative() {
				v.Add(scheduleField(i, "percentage"), "INVALID", "Schedule percentage cannot be negative")
			}
			if i > 0 && entry.DueDate.Before(input.PaymentSchedule[i-1].DueDate) {
				v.Add(scheduleField(i, "due_date"), "INVALID", "Schedule entries must be in due-date order")
			}
			total = total.Add(entry.Percentage)
		}
		if total.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(scheduleTolerance) {
			v.Add("payment_schedule", "INVALID", "Schedule percentages must sum to 100")
		}
	}

	return v.ErrOrNil()
}

// IsValidOrderInput is the non-throwing variant of input validation.
func IsValidOrderInput(input OrderInput) bool {
	return ValidateOrderInput(input) == nil
}

func itemField(idx int, field string) string {
	return "items[" + itoa(idx) + "]." + field
}

func scheduleField(idx int, field string) string {
	return "payment_schedule[" + itoa(idx) + "]." + field
}

func itoa(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}

// NewOrder constructs a draft order from a validated input payload. Line
// totals and the order total are derived from quantities and unit prices, and
// the total must come out positive.
func NewOrder(gen shared.IDGenerator, stamp shared.Stamp, input OrderInput) (Order, error) {
	if err := ValidateOrderInput(input); err != nil {
		return Order{}, err
	}

	items := make([]LineItem, len(input.Items))
	total := valueobject.Zero(input.Items[0].UnitPrice.Currency())
	for i, in := range input.Items {
		lineTotal := in.UnitPrice.Multiply(in.Quantity)
		items[i] = LineItem{
			ProductID:  in.ProductID,
			SKU:        in.SKU,
			Name:       in.Name,
			Quantity:   in.Quantity,
			Unit:       in.Unit,
			UnitPrice:  in.UnitPrice,
			TotalPrice: lineTotal,
			Packaging:  in.Packaging,
			Status:     LineItemStatusPending,
		}
		summed, err := total.Add(lineTotal)
		if err != nil {
			return Order{}, shared.NewDomainError("CURRENCY_MISMATCH", "All line items must share one currency")
		}
		total = summed
	}
	if !total.IsPositive() {
		return Order{}, shared.NewDomainError("INVALID_TOTAL", "Order total must be positive")
	}

	schedule := make([]PaymentEntry, len(input.PaymentSchedule))
	copy(schedule, input.PaymentSchedule)
	for i := range schedule {
		schedule[i].PaidAmount = valueobject.Zero(total.Currency())
		schedule[i].Paid = false
		schedule[i].PaidAt = nil
		if schedule[i].Amount.IsZero() {
			schedule[i].Amount = total.CalculatePercentage(schedule[i].Percentage)
		}
	}

	documents := make([]Document, len(input.Documents))
	copy(documents, input.Documents)

	return Order{
		RecordMeta:            shared.NewRecordMeta(gen, stamp),
		Number:                strings.ToUpper(strings.TrimSpace(input.Number)),
		RFQID:                 input.RFQID,
		CompanyID:             input.CompanyID,
		Status:                OrderStatusDraft,
		PaymentStatus:         PaymentStatusPending,
		Items:                 items,
		TotalAmount:           total,
		PaymentSchedule:       schedule,
		Shipping:              input.Shipping,
		QualityCheckRequired:  input.QualityCheckRequired,
		Documents:             documents,
		RequestedDeliveryDate: input.RequestedDeliveryDate,
		Notes:                 input.Notes,
	}, nil
}

// IsActive returns true unless the order was completed or cancelled.
func (o Order) IsActive() bool {
	return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled
}

// IsOverdue returns true for an uncompleted order whose requested delivery
// date has passed.
func (o Order) IsOverdue(now time.Time) bool {
	if o.Status == OrderStatusCompleted || o.RequestedDeliveryDate == nil {
		return false
	}
	return o.RequestedDeliveryDate.Before(now)
}

// GetTotalWeight sums the line items converted to metric tons.
func (o Order) GetTotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		weight, err := valueobject.NewWeight(item.Quantity, item.Unit)
		if err != nil {
			continue
		}
		total = total.Add(weight.ToMetricTons())
	}
	return total
}

// HasRequiredDocuments returns true when every required document is verified.
func (o Order) HasRequiredDocuments() bool {
	for _, doc := range o.Documents {
		if doc.Required && !doc.Verified {
			return false
		}
	}
	return true
}

// CanBeShipped returns true when the order sits at the shipment gate with its
// paperwork verified and, if an inspection is required, a passed result on file.
func (o Order) CanBeShipped() bool {
	if o.Status != OrderStatusReadyForShipment {
		return false
	}
	if !o.HasRequiredDocuments() {
		return false
	}
	if o.QualityCheckRequired {
		return o.QualityControl != nil && o.QualityControl.Passed
	}
	return true
}

// TotalPaid sums the paid amounts across the payment schedule.
func (o Order) TotalPaid() valueobject.Money {
	total := valueobject.Zero(o.TotalAmount.Currency())
	for _, entry := range o.PaymentSchedule {
		total = total.MustAdd(entry.PaidAmount)
	}
	return total
}

// UpdateStatus returns a copy of the order moved to the target status.
func (o Order) UpdateStatus(target OrderStatus, stamp shared.Stamp) (Order, error) {
	if !target.IsValid() {
		return Order{}, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return Order{}, shared.NewDomainError("INVALID_STATE",
			"Cannot move order from "+o.Status.String()+" to "+target.String())
	}

	next := o.clone()
	next.Status = target
	if target == OrderStatusCancelled {
		next.PaymentStatus = PaymentStatusCancelled
	}
	next.touch(stamp)
	return next, nil
}

// Cancel returns a copy of the order cancelled.
func (o Order) Cancel(stamp shared.Stamp) (Order, error) {
	return o.UpdateStatus(OrderStatusCancelled, stamp)
}

// RecordPayment returns a copy with the matching schedule entry settled and
// the overall payment status recomputed from the paid sum against the total.
func (o Order) RecordPayment(entryID string, amount valueobject.Money, reference string, stamp shared.Stamp) (Order, error) {
	if !amount.IsPositive() {
		return Order{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Currency() != o.TotalAmount.Currency() {
		return Order{}, shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency must match the order")
	}

	next := o.clone()
	found := false
	for i := range next.PaymentSchedule {
		if next.PaymentSchedule[i].ID != entryID {
			continue
		}
		if next.PaymentSchedule[i].Paid {
			return Order{}, shared.NewDomainError("ALREADY_PAID", "Schedule entry is already settled")
		}
		at := stamp.At
		next.PaymentSchedule[i].PaidAmount = amount
		next.PaymentSchedule[i].PaidAt = &at
		next.PaymentSchedule[i].Paid = true
		next.PaymentSchedule[i].Reference = reference
		found = true
		break
	}
	if !found {
		return Order{}, shared.NewDomainError("NOT_FOUND", "No schedule entry with id "+entryID)
	}

	next.PaymentStatus = next.reconcilePayments()
	next.touch(stamp)
	return next, nil
}

// reconcilePayments derives the payment status from the settled sum.
func (o Order) reconcilePayments() PaymentStatus {
	paid := o.TotalPaid()
	switch {
	case paid.Amount().GreaterThanOrEqual(o.TotalAmount.Amount()):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// SetQualityControl returns a copy with the inspection result on file. A pass
// advances the order to the shipment gate; a failure parks it at the quality
// check for rework.
func (o Order) SetQualityControl(record QualityControlRecord, stamp shared.Stamp) (Order, error) {
	switch o.Status {
	case OrderStatusInProduction, OrderStatusQualityCheck, OrderStatusReadyForShipment:
	default:
		return Order{}, shared.NewDomainError("INVALID_STATE",
			"Quality control applies to orders in production or under inspection")
	}
	if record.InspectedAt.IsZero() {
		record.InspectedAt = stamp.At
	}

	next := o.clone()
	next.QualityControl = &record
	if record.Passed {
		next.Status = OrderStatusReadyForShipment
	} else {
		next.Status = OrderStatusQualityCheck
	}
	next.touch(stamp)
	return next, nil
}

// SetShippingDetails returns a copy with the logistics data replaced.
func (o Order) SetShippingDetails(details ShippingDetails, stamp shared.Stamp) Order {
	next := o.clone()
	next.Shipping = details
	next.touch(stamp)
	return next
}

// AddDocument returns a copy with the export paper attached.
func (o Order) AddDocument(doc Document, stamp shared.Stamp) (Order, error) {
	if strings.TrimSpace(doc.Type) == "" {
		return Order{}, shared.NewDomainError("INVALID_DOCUMENT", "Document type cannot be empty")
	}

	next := o.clone()
	next.Documents = append(next.Documents, doc)
	next.touch(stamp)
	return next, nil
}

// VerifyDocument returns a copy with the document at the given position
// marked verified.
func (o Order) VerifyDocument(index int, stamp shared.Stamp) (Order, error) {
	if index < 0 || index >= len(o.Documents) {
		return Order{}, shared.NewDomainError("NOT_FOUND", "No document at that position")
	}

	next := o.clone()
	next.Documents[index].Verified = true
	next.touch(stamp)
	return next, nil
}

// UpdateLineItemStatus returns a copy with one line moved to a new status.
func (o Order) UpdateLineItemStatus(index int, status LineItemStatus, stamp shared.Stamp) (Order, error) {
	if index < 0 || index >= len(o.Items) {
		return Order{}, shared.NewDomainError("NOT_FOUND", "No line item at that position")
	}

	next := o.clone()
	next.Items[index].Status = status
	next.touch(stamp)
	return next, nil
}

// touch refreshes the audit metadata on a mutated copy.
func (o *Order) touch(stamp shared.Stamp) {
	o.RecordMeta = o.RecordMeta.Touched(stamp)
}

// clone deep-copies the order so a mutation never aliases the receiver's slices.
func (o Order) clone() Order {
	next := o
	if o.Items != nil {
		next.Items = make([]LineItem, len(o.Items))
		copy(next.Items, o.Items)
	}
	if o.PaymentSchedule != nil {
		next.PaymentSchedule = make([]PaymentEntry, len(o.PaymentSchedule))
		copy(next.PaymentSchedule, o.PaymentSchedule)
	}
	if o.Documents != nil {
		next.Documents = make([]Document, len(o.Documents))
		copy(next.Documents, o.Documents)
	}
	if o.QualityControl != nil {
		qc := *o.QualityControl
		next.QualityControl = &qc
	}
	return next
}
