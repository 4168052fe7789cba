package fulfillment

import (
	"context"
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/fulfillment"
	"github.com/beanport/backend/internal/domain/partner"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultBalanceDays is how far out the single fallback installment is due
// when no payment schedule is supplied.
const defaultBalanceDays = 30

// OrderService handles export order use cases. Opening an order reserves
// credit on the client company and converting an inquiry closes it, so the
// service spans the catalog, partner, and quote aggregates.
type OrderService struct {
	orderRepo   fulfillment.OrderRepository
	rfqRepo     quote.RFQRepository
	productRepo catalog.CoffeeProductRepository
	companyRepo partner.ClientCompanyRepository
	clock       shared.Clock
	idGen       shared.IDGenerator
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo fulfillment.OrderRepository,
	rfqRepo quote.RFQRepository,
	productRepo catalog.CoffeeProductRepository,
	companyRepo partner.ClientCompanyRepository,
	clock shared.Clock,
	idGen shared.IDGenerator,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		rfqRepo:     rfqRepo,
		productRepo: productRepo,
		companyRepo: companyRepo,
		clock:       clock,
		idGen:       idGen,
	}
}

// Create opens an export order. Line items are priced from the catalog at
// the order's incoterm and the total is checked against the client's
// available credit before anything is saved.
func (s *OrderService) Create(ctx context.Context, actor string, req CreateOrderRequest) (*OrderResponse, error) {
	exists, err := s.orderRepo.ExistsByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order with this number already exists")
	}

	company, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	incoterm := valueobject.Incoterm(req.Incoterm)
	items := make([]fulfillment.LineItemInput, len(req.Items))
	for i, item := range req.Items {
		line, err := s.priceLineItem(ctx, item.ProductID, item.Quantity, valueobject.WeightUnit(item.Unit), incoterm, item.Packaging, now)
		if err != nil {
			return nil, err
		}
		items[i] = line
	}

	stamp := shared.Stamp{At: now, By: actor}
	order, err := fulfillment.NewOrder(s.idGen, stamp, fulfillment.OrderInput{
		Number:                req.Number,
		CompanyID:             req.CompanyID,
		Items:                 items,
		PaymentSchedule:       s.buildSchedule(req.PaymentSchedule, req.RequestedDeliveryDate, now),
		Shipping:              toShippingDetails(req.Shipping),
		QualityCheckRequired:  req.QualityCheckRequired,
		Documents:             toOrderDocuments(req.Documents),
		RequestedDeliveryDate: req.RequestedDeliveryDate,
		Notes:                 req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.reserveCredit(ctx, *company, order.TotalAmount, stamp); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, &order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order, now)
	return &response, nil
}

// CreateFromRFQ converts an inquiry into an export order. The inquiry must be
// in a state that can be accepted (or already accepted); it is marked
// accepted as part of the conversion. Quantity, destination, incoterm, and
// the delivery date carry over from the inquiry, while the concrete product
// and its price come from the catalog.
func (s *OrderService) CreateFromRFQ(ctx context.Context, rfqID uuid.UUID, actor string, req CreateOrderFromRFQRequest) (*OrderResponse, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Company.CompanyID == nil {
		return nil, shared.NewDomainError("UNLINKED_COMPANY", "Inquiry is not linked to a registered client company")
	}

	exists, err := s.orderRepo.ExistsByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order with this number already exists")
	}

	company, err := s.companyRepo.FindByID(ctx, *rfq.Company.CompanyID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	stamp := shared.Stamp{At: now, By: actor}

	line, err := s.priceLineItem(ctx, req.ProductID, rfq.Product.Quantity, rfq.Product.Unit, rfq.Delivery.Incoterm, req.Packaging, now)
	if err != nil {
		return nil, err
	}

	id := rfq.ID
	order, err := fulfillment.NewOrder(s.idGen, stamp, fulfillment.OrderInput{
		Number:          req.Number,
		RFQID:           &id,
		CompanyID:       *rfq.Company.CompanyID,
		Items:           []fulfillment.LineItemInput{line},
		PaymentSchedule: s.buildSchedule(req.PaymentSchedule, rfq.Delivery.RequiredBy, now),
		Shipping: fulfillment.ShippingDetails{
			PortOfDischarge: rfq.Delivery.DestinationPort,
			Incoterm:        rfq.Delivery.Incoterm,
		},
		QualityCheckRequired:  req.QualityCheckRequired,
		RequestedDeliveryDate: rfq.Delivery.RequiredBy,
		Notes:                 req.Notes,
	})
	if err != nil {
		return nil, err
	}

	// Accept the inquiry first so a conversion race surfaces as a version
	// conflict before the order exists.
	if rfq.Status != quote.RFQStatusAccepted {
		accepted, err := rfq.UpdateStatus(quote.RFQStatusAccepted, stamp)
		if err != nil {
			return nil, err
		}
		if err := s.rfqRepo.SaveWithLock(ctx, &accepted); err != nil {
			return nil, err
		}
	}

	if err := s.reserveCredit(ctx, *company, order.TotalAmount, stamp); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, &order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order, now)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(*order, s.clock.Now())
	return &response, nil
}

// GetByNumber retrieves an order by its business number
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(*order, s.clock.Now())
	return &response, nil
}

// List retrieves orders with pagination and filtering
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		f.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.CompanyID != "" {
		f.Filters["company_id"] = filter.CompanyID
	}

	page, err := s.orderRepo.Search(ctx, f)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	now := s.clock.Now()
	responses := make([]OrderResponse, len(page.Items))
	for i, order := range page.Items {
		responses[i] = ToOrderResponse(order, now)
	}
	return shared.NewPaginated(responses, page.Total, f.Page, f.PageSize), nil
}

// ListOverdue retrieves active orders with schedule entries past due
func (s *OrderService) ListOverdue(ctx context.Context) ([]OrderResponse, error) {
	now := s.clock.Now()
	orders, err := s.orderRepo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		if !order.IsOverdue(now) {
			continue
		}
		responses = append(responses, ToOrderResponse(order, now))
	}
	return responses, nil
}

// UpdateStatus moves an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, actor string, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		return o.UpdateStatus(fulfillment.OrderStatus(req.Status), stamp)
	})
}

// Cancel cancels an order if it has not shipped
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, actor string) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		return o.Cancel(stamp)
	})
}

// RecordPayment settles an installment on the order's schedule and updates
// the client company's payment history. A payment on or before the
// installment's due date counts as on time.
func (s *OrderService) RecordPayment(ctx context.Context, id uuid.UUID, actor string, req RecordOrderPaymentRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	currency := order.TotalAmount.Currency()
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	stamp := shared.Stamp{At: now, By: actor}
	onTime := true
	for _, entry := range order.PaymentSchedule {
		if entry.ID == req.EntryID {
			onTime = !now.After(entry.DueDate)
			break
		}
	}

	updated, err := order.RecordPayment(req.EntryID, amount, req.Reference, stamp)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	if err := s.creditPayment(ctx, updated.CompanyID, amount.Amount(), onTime, stamp); err != nil {
		return nil, err
	}

	response := ToOrderResponse(updated, now)
	return &response, nil
}

// SetQualityControl records an inspection outcome on the order
func (s *OrderService) SetQualityControl(ctx context.Context, id uuid.UUID, actor string, req QualityControlRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		record := fulfillment.QualityControlRecord{
			Inspector:      req.Inspector,
			Passed:         req.Passed,
			CuppingScore:   req.CuppingScore,
			CertificateRef: req.CertificateRef,
			Notes:          req.Notes,
		}
		if req.InspectedAt != nil {
			record.InspectedAt = *req.InspectedAt
		}
		return o.SetQualityControl(record, stamp)
	})
}

// SetShipping updates the order's export logistics details
func (s *OrderService) SetShipping(ctx context.Context, id uuid.UUID, actor string, req ShippingDetailsRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		return o.SetShippingDetails(toShippingDetails(req), stamp), nil
	})
}

// AddDocument attaches an export paper to the order
func (s *OrderService) AddDocument(ctx context.Context, id uuid.UUID, actor string, req OrderDocumentRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		return o.AddDocument(fulfillment.Document{Type: req.Type, Reference: req.Reference, Required: req.Required}, stamp)
	})
}

// VerifyDocument marks an attached document as verified
func (s *OrderService) VerifyDocument(ctx context.Context, id uuid.UUID, actor string, index int) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		return o.VerifyDocument(index, stamp)
	})
}

// UpdateLineItemStatus moves a single line through fulfillment
func (s *OrderService) UpdateLineItemStatus(ctx context.Context, id uuid.UUID, actor string, req UpdateLineItemStatusRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, actor, func(o fulfillment.Order, stamp shared.Stamp) (fulfillment.Order, error) {
		return o.UpdateLineItemStatus(req.Index, fulfillment.LineItemStatus(req.Status), stamp)
	})
}

// priceLineItem resolves a product from the catalog, checks it can cover the
// quantity, and prices the line at the given incoterm.
func (s *OrderService) priceLineItem(
	ctx context.Context,
	productID uuid.UUID,
	quantity decimal.Decimal,
	unit valueobject.WeightUnit,
	incoterm valueobject.Incoterm,
	packaging string,
	now time.Time,
) (fulfillment.LineItemInput, error) {
	if !quantity.IsPositive() {
		return fulfillment.LineItemInput{}, shared.NewDomainError("INVALID_QUANTITY", "Line item quantity must be positive")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fulfillment.LineItemInput{}, err
	}
	if !product.CanFulfillOrder(quantity, now) {
		return fulfillment.LineItemInput{}, shared.NewDomainError("CANNOT_FULFILL",
			"Product "+product.SKU+" cannot cover the requested quantity")
	}

	total := product.CalculatePrice(quantity, incoterm)
	unitPrice, err := valueobject.NewMoney(total.Amount().DivRound(quantity, 4), total.Currency())
	if err != nil {
		return fulfillment.LineItemInput{}, err
	}

	return fulfillment.LineItemInput{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Quantity:  quantity,
		Unit:      unit,
		UnitPrice: unitPrice,
		Packaging: packaging,
	}, nil
}

// buildSchedule converts the requested schedule, falling back to a single
// full installment due at the delivery date or thirty days out.
func (s *OrderService) buildSchedule(reqs []PaymentEntryRequest, deliveryDate *time.Time, now time.Time) []fulfillment.PaymentEntry {
	if len(reqs) > 0 {
		return toPaymentEntries(reqs)
	}
	due := now.AddDate(0, 0, defaultBalanceDays)
	if deliveryDate != nil {
		due = *deliveryDate
	}
	return []fulfillment.PaymentEntry{{
		ID:         "balance",
		DueDate:    due,
		Percentage: decimal.NewFromInt(100),
	}}
}

// reserveCredit checks the order total against the client's available credit
// and books it onto the company's trading history. Companies without a credit
// line trade on prepayment terms and are not gated on available credit.
func (s *OrderService) reserveCredit(ctx context.Context, company partner.ClientCompany, total valueobject.Money, stamp shared.Stamp) error {
	if !company.Financial.CreditLimit.IsZero() && company.GetAvailableCredit().LessThan(total.Amount()) {
		return shared.NewDomainError("CREDIT_LIMIT_EXCEEDED",
			"Order total exceeds the client's available credit")
	}
	updated, err := company.RecordOrder(total.Amount(), stamp)
	if err != nil {
		return err
	}
	return s.companyRepo.SaveWithLock(ctx, &updated)
}

// creditPayment books a settled installment onto the company's history
func (s *OrderService) creditPayment(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal, onTime bool, stamp shared.Stamp) error {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	updated, err := company.RecordPayment(amount, onTime, stamp)
	if err != nil {
		return err
	}
	return s.companyRepo.SaveWithLock(ctx, &updated)
}

// mutate loads an order, applies a copy-on-write mutation, and saves the new
// value under the optimistic lock.
func (s *OrderService) mutate(
	ctx context.Context,
	id uuid.UUID,
	actor string,
	fn func(fulfillment.Order, shared.Stamp) (fulfillment.Order, error),
) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := fn(*order, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToOrderResponse(updated, s.clock.Now())
	return &response, nil
}
