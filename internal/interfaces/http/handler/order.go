package handler

import (
	"strconv"

	fulfillmentapp "github.com/beanport/backend/internal/application/fulfillment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles export order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *fulfillmentapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *fulfillmentapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order routes on the API group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/fulfillment/orders")
	orders.POST("", h.Create)
	orders.POST("/from-rfq/:rfq_id", h.CreateFromRFQ)
	orders.GET("", h.List)
	orders.GET("/overdue", h.ListOverdue)
	orders.GET("/:id", h.GetByID)
	orders.GET("/number/:number", h.GetByNumber)
	orders.PUT("/:id/status", h.UpdateStatus)
	orders.POST("/:id/cancel", h.Cancel)
	orders.POST("/:id/payments", h.RecordPayment)
	orders.PUT("/:id/quality-control", h.SetQualityControl)
	orders.PUT("/:id/shipping", h.SetShipping)
	orders.POST("/:id/documents", h.AddDocument)
	orders.POST("/:id/documents/:index/verify", h.VerifyDocument)
	orders.PUT("/:id/line-items", h.UpdateLineItemStatus)
}

// Create godoc
// @Summary      Open an export order
// @Description  Prices line items from the catalog at the order incoterm and
// @Description  checks the total against the client's available credit
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body fulfillment.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req fulfillmentapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// CreateFromRFQ godoc
// @Summary      Convert an accepted inquiry into an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        rfq_id path string true "RFQ ID" format(uuid)
// @Param        request body fulfillment.CreateOrderFromRFQRequest true "Conversion details"
// @Success      201 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/from-rfq/{rfq_id} [post]
func (h *OrderHandler) CreateFromRFQ(c *gin.Context) {
	rfqID, err := uuid.Parse(c.Param("rfq_id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	var req fulfillmentapp.CreateOrderFromRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.CreateFromRFQ(c.Request.Context(), rfqID, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByNumber godoc
// @Summary      Get order by number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary      List export orders
// @Tags         orders
// @Produce      json
// @Param        search query string false "Search term (order number)"
// @Param        status query string false "Order status"
// @Param        payment_status query string false "Payment status" Enums(PENDING, PARTIAL, PAID, OVERDUE, REFUNDED, CANCELLED)
// @Param        company_id query string false "Client company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]fulfillment.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter fulfillmentapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListOverdue godoc
// @Summary      List overdue orders
// @Description  Active orders whose requested delivery date has passed
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]fulfillment.OrderResponse}
// @Security     BearerAuth
// @Router       /fulfillment/orders/overdue [get]
func (h *OrderHandler) ListOverdue(c *gin.Context) {
	orders, err := h.orderService.ListOverdue(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// UpdateStatus godoc
// @Summary      Move an order to a new status
// @Description  Transitions follow the fulfillment chain; skipping ahead is rejected
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body fulfillment.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RecordPayment godoc
// @Summary      Record a payment against the schedule
// @Description  Settles an installment and rolls the payment status forward
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body fulfillment.RecordOrderPaymentRequest true "Installment payment"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/payments [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.RecordOrderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// SetQualityControl godoc
// @Summary      Record a quality inspection
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body fulfillment.QualityControlRequest true "Inspection outcome"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/quality-control [put]
func (h *OrderHandler) SetQualityControl(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.QualityControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.SetQualityControl(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// SetShipping godoc
// @Summary      Set shipping details
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body fulfillment.ShippingDetailsRequest true "Vessel, ports and dates"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/shipping [put]
func (h *OrderHandler) SetShipping(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.ShippingDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.SetShipping(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AddDocument godoc
// @Summary      Attach a trade document
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body fulfillment.OrderDocumentRequest true "Document reference"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/documents [post]
func (h *OrderHandler) AddDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.OrderDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.AddDocument(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// VerifyDocument godoc
// @Summary      Mark a trade document verified
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        index path int true "Document index"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/documents/{index}/verify [post]
func (h *OrderHandler) VerifyDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.BadRequest(c, "Invalid document index")
		return
	}

	order, err := h.orderService.VerifyDocument(c.Request.Context(), id, getActor(c), index)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateLineItemStatus godoc
// @Summary      Move a line item through fulfillment
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body fulfillment.UpdateLineItemStatusRequest true "Line index and target status"
// @Success      200 {object} dto.Response{data=fulfillment.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/line-items [put]
func (h *OrderHandler) UpdateLineItemStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.UpdateLineItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateLineItemStatus(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
