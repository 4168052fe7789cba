package fulfillment

import (
	"time"

	"github.com/beanport/backend/internal/domain/fulfillment"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Export Order DTOs
// =============================================================================

// LineItemRequest is one product position in a create payload
type LineItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"required,oneof=KG LB MT BAGS"`
	Packaging string          `json:"packaging" binding:"max=100"`
}

// PaymentEntryRequest is one installment in the order's payment schedule
type PaymentEntryRequest struct {
	ID         string          `json:"id" binding:"required,max=50"`
	DueDate    time.Time       `json:"due_date" binding:"required"`
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
}

// ShippingDetailsRequest carries the export logistics data
type ShippingDetailsRequest struct {
	Carrier         string     `json:"carrier" binding:"max=100"`
	VesselName      string     `json:"vessel_name" binding:"max=100"`
	ContainerNumber string     `json:"container_number" binding:"max=50"`
	BillOfLading    string     `json:"bill_of_lading" binding:"max=100"`
	PortOfLoading   string     `json:"port_of_loading" binding:"max=100"`
	PortOfDischarge string     `json:"port_of_discharge" binding:"max=100"`
	Incoterm        string     `json:"incoterm" binding:"omitempty,oneof=EXW FCA FOB CFR CIF"`
	ETD             *time.Time `json:"etd"`
	ETA             *time.Time `json:"eta"`
}

// OrderDocumentRequest attaches an export paper to an order
type OrderDocumentRequest struct {
	Type      string `json:"type" binding:"required,max=100"`
	Reference string `json:"reference" binding:"max=200"`
	Required  bool   `json:"required"`
}

// CreateOrderRequest represents a request to open an export order
type CreateOrderRequest struct {
	Number                string                 `json:"number" binding:"required,min=1,max=50"`
	CompanyID             uuid.UUID              `json:"company_id" binding:"required"`
	Items                 []LineItemRequest      `json:"items" binding:"required,min=1,dive"`
	Incoterm              string                 `json:"incoterm" binding:"omitempty,oneof=EXW FCA FOB CFR CIF"`
	PaymentSchedule       []PaymentEntryRequest  `json:"payment_schedule" binding:"omitempty,dive"`
	Shipping              ShippingDetailsRequest `json:"shipping"`
	QualityCheckRequired  bool                   `json:"quality_check_required"`
	Documents             []OrderDocumentRequest `json:"documents" binding:"omitempty,dive"`
	RequestedDeliveryDate *time.Time             `json:"requested_delivery_date"`
	Notes                 string                 `json:"notes"`
}

// CreateOrderFromRFQRequest turns an accepted inquiry into an export order.
// The product is resolved from the catalog and priced there; the inquiry
// supplies quantity, destination, and delivery date.
type CreateOrderFromRFQRequest struct {
	Number               string                `json:"number" binding:"required,min=1,max=50"`
	ProductID            uuid.UUID             `json:"product_id" binding:"required"`
	Packaging            string                `json:"packaging" binding:"max=100"`
	PaymentSchedule      []PaymentEntryRequest `json:"payment_schedule" binding:"omitempty,dive"`
	QualityCheckRequired bool                  `json:"quality_check_required"`
	Notes                string                `json:"notes"`
}

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT PENDING_APPROVAL CONFIRMED IN_PRODUCTION QUALITY_CHECK READY_FOR_SHIPMENT SHIPPED IN_TRANSIT DELIVERED COMPLETED CANCELLED ON_HOLD RETURNED"`
}

// RecordOrderPaymentRequest settles an installment on the schedule
type RecordOrderPaymentRequest struct {
	EntryID   string          `json:"entry_id" binding:"required,max=50"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Currency  string          `json:"currency" binding:"omitempty,len=3"`
	Reference string          `json:"reference" binding:"max=200"`
}

// QualityControlRequest records an inspection outcome
type QualityControlRequest struct {
	InspectedAt    *time.Time       `json:"inspected_at"`
	Inspector      string           `json:"inspector" binding:"required,max=100"`
	Passed         bool             `json:"passed"`
	CuppingScore   *decimal.Decimal `json:"cupping_score"`
	CertificateRef string           `json:"certificate_ref" binding:"max=200"`
	Notes          string           `json:"notes"`
}

// UpdateLineItemStatusRequest moves a single line through fulfillment
type UpdateLineItemStatusRequest struct {
	Index  int    `json:"index" binding:"min=0"`
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED FULFILLED CANCELLED"`
}

// LineItemResponse is one product position in an order response
type LineItemResponse struct {
	ProductID  uuid.UUID       `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Packaging  string          `json:"packaging,omitempty"`
	Status     string          `json:"status"`
}

// PaymentEntryResponse is one installment with its settlement state
type PaymentEntryResponse struct {
	ID         string          `json:"id"`
	DueDate    time.Time       `json:"due_date"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Paid       bool            `json:"paid"`
	Reference  string          `json:"reference,omitempty"`
}

// QualityControlResponse is the recorded inspection outcome
type QualityControlResponse struct {
	InspectedAt    time.Time        `json:"inspected_at"`
	Inspector      string           `json:"inspector"`
	Passed         bool             `json:"passed"`
	CuppingScore   *decimal.Decimal `json:"cupping_score,omitempty"`
	CertificateRef string           `json:"certificate_ref,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// OrderDocumentResponse is one export paper with its verification state
type OrderDocumentResponse struct {
	Type      string `json:"type"`
	Reference string `json:"reference,omitempty"`
	Required  bool   `json:"required"`
	Verified  bool   `json:"verified"`
}

// OrderResponse represents an export order in API responses
type OrderResponse struct {
	ID                    uuid.UUID               `json:"id"`
	Number                string                  `json:"number"`
	RFQID                 *uuid.UUID              `json:"rfq_id,omitempty"`
	CompanyID             uuid.UUID               `json:"company_id"`
	Status                string                  `json:"status"`
	PaymentStatus         string                  `json:"payment_status"`
	Items                 []LineItemResponse      `json:"items"`
	TotalAmount           decimal.Decimal         `json:"total_amount"`
	Currency              string                  `json:"currency"`
	TotalPaid             decimal.Decimal         `json:"total_paid"`
	TotalWeightMT         decimal.Decimal         `json:"total_weight_mt"`
	PaymentSchedule       []PaymentEntryResponse  `json:"payment_schedule"`
	Carrier               string                  `json:"carrier,omitempty"`
	VesselName            string                  `json:"vessel_name,omitempty"`
	ContainerNumber       string                  `json:"container_number,omitempty"`
	BillOfLading          string                  `json:"bill_of_lading,omitempty"`
	PortOfLoading         string                  `json:"port_of_loading,omitempty"`
	PortOfDischarge       string                  `json:"port_of_discharge,omitempty"`
	Incoterm              string                  `json:"incoterm,omitempty"`
	ETD                   *time.Time              `json:"etd,omitempty"`
	ETA                   *time.Time              `json:"eta,omitempty"`
	QualityCheckRequired  bool                    `json:"quality_check_required"`
	QualityControl        *QualityControlResponse `json:"quality_control,omitempty"`
	Documents             []OrderDocumentResponse `json:"documents"`
	RequestedDeliveryDate *time.Time              `json:"requested_delivery_date,omitempty"`
	Notes                 string                  `json:"notes,omitempty"`
	IsActive              bool                    `json:"is_active"`
	IsOverdue             bool                    `json:"is_overdue"`
	CanBeShipped          bool                    `json:"can_be_shipped"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
	Version               int                     `json:"version"`
}

// OrderListFilter is the query payload for listing orders
type OrderListFilter struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT PENDING_APPROVAL CONFIRMED IN_PRODUCTION QUALITY_CHECK READY_FOR_SHIPMENT SHIPPED IN_TRANSIT DELIVERED COMPLETED CANCELLED ON_HOLD RETURNED"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=PENDING PARTIAL PAID OVERDUE REFUNDED CANCELLED"`
	CompanyID     string `form:"company_id" binding:"omitempty,uuid"`
	Search        string `form:"search" binding:"omitempty,max=100"`
	OrderBy       string `form:"order_by" binding:"omitempty,oneof=number status created_at updated_at"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderResponse converts a domain order to an OrderResponse
func ToOrderResponse(o fulfillment.Order, now time.Time) OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = LineItemResponse{
			ProductID:  item.ProductID,
			SKU:        item.SKU,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Unit:       string(item.Unit),
			UnitPrice:  item.UnitPrice.Amount(),
			TotalPrice: item.TotalPrice.Amount(),
			Packaging:  item.Packaging,
			Status:     string(item.Status),
		}
	}

	schedule := make([]PaymentEntryResponse, len(o.PaymentSchedule))
	for i, entry := range o.PaymentSchedule {
		schedule[i] = PaymentEntryResponse{
			ID:         entry.ID,
			DueDate:    entry.DueDate,
			Percentage: entry.Percentage,
			Amount:     entry.Amount.Amount(),
			PaidAmount: entry.PaidAmount.Amount(),
			PaidAt:     entry.PaidAt,
			Paid:       entry.Paid,
			Reference:  entry.Reference,
		}
	}

	documents := make([]OrderDocumentResponse, len(o.Documents))
	for i, doc := range o.Documents {
		documents[i] = OrderDocumentResponse{Type: doc.Type, Reference: doc.Reference, Required: doc.Required, Verified: doc.Verified}
	}

	var qc *QualityControlResponse
	if o.QualityControl != nil {
		qc = &QualityControlResponse{
			InspectedAt:    o.QualityControl.InspectedAt,
			Inspector:      o.QualityControl.Inspector,
			Passed:         o.QualityControl.Passed,
			CuppingScore:   o.QualityControl.CuppingScore,
			CertificateRef: o.QualityControl.CertificateRef,
			Notes:          o.QualityControl.Notes,
		}
	}

	return OrderResponse{
		ID:                    o.ID,
		Number:                o.Number,
		RFQID:                 o.RFQID,
		CompanyID:             o.CompanyID,
		Status:                string(o.Status),
		PaymentStatus:         string(o.PaymentStatus),
		Items:                 items,
		TotalAmount:           o.TotalAmount.Amount(),
		Currency:              string(o.TotalAmount.Currency()),
		TotalPaid:             o.TotalPaid().Amount(),
		TotalWeightMT:         o.GetTotalWeight(),
		PaymentSchedule:       schedule,
		Carrier:               o.Shipping.Carrier,
		VesselName:            o.Shipping.VesselName,
		ContainerNumber:       o.Shipping.ContainerNumber,
		BillOfLading:          o.Shipping.BillOfLading,
		PortOfLoading:         o.Shipping.PortOfLoading,
		PortOfDischarge:       o.Shipping.PortOfDischarge,
		Incoterm:              string(o.Shipping.Incoterm),
		ETD:                   o.Shipping.ETD,
		ETA:                   o.Shipping.ETA,
		QualityCheckRequired:  o.QualityCheckRequired,
		QualityControl:        qc,
		Documents:             documents,
		RequestedDeliveryDate: o.RequestedDeliveryDate,
		Notes:                 o.Notes,
		IsActive:              o.IsActive(),
		IsOverdue:             o.IsOverdue(now),
		CanBeShipped:          o.CanBeShipped(),
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Version:               o.Version,
	}
}

func toShippingDetails(req ShippingDetailsRequest) fulfillment.ShippingDetails {
	return fulfillment.ShippingDetails{
		Carrier:         req.Carrier,
		VesselName:      req.VesselName,
		ContainerNumber: req.ContainerNumber,
		BillOfLading:    req.BillOfLading,
		PortOfLoading:   req.PortOfLoading,
		PortOfDischarge: req.PortOfDischarge,
		Incoterm:        valueobject.Incoterm(req.Incoterm),
		ETD:             req.ETD,
		ETA:             req.ETA,
	}
}

func toPaymentEntries(reqs []PaymentEntryRequest) []fulfillment.PaymentEntry {
	entries := make([]fulfillment.PaymentEntry, len(reqs))
	for i, r := range reqs {
		entries[i] = fulfillment.PaymentEntry{ID: r.ID, DueDate: r.DueDate, Percentage: r.Percentage}
	}
	return entries
}

func toOrderDocuments(reqs []OrderDocumentRequest) []fulfillment.Document {
	docs := make([]fulfillment.Document, len(reqs))
	for i, r := range reqs {
		docs[i] = fulfillment.Document{Type: r.Type, Reference: r.Reference, Required: r.Required}
	}
	return docs
}
