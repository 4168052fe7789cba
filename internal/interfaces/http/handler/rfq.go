package handler

import (
	quoteapp "github.com/beanport/backend/internal/application/quote"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader deduplicates retried inquiry submissions
const IdempotencyKeyHeader = "Idempotency-Key"

// RFQHandler handles inbound inquiry API endpoints
type RFQHandler struct {
	BaseHandler
	rfqService *quoteapp.RFQService
}

// NewRFQHandler creates a new RFQHandler
func NewRFQHandler(rfqService *quoteapp.RFQService) *RFQHandler {
	return &RFQHandler{
		rfqService: rfqService,
	}
}

// RegisterRoutes registers inquiry routes on the API group
func (h *RFQHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rfqs := rg.Group("/quote/rfqs")
	rfqs.POST("", h.Submit)
	rfqs.GET("", h.List)
	rfqs.GET("/:id", h.GetByID)
	rfqs.PUT("/:id/status", h.UpdateStatus)
	rfqs.PUT("/:id/assignee", h.Assign)
	rfqs.PUT("/:id/estimate", h.SetEstimate)
	rfqs.PUT("/:id/follow-up", h.SetFollowUp)
	rfqs.POST("/:id/communications", h.AddCommunication)
	rfqs.POST("/expire-overdue", h.ExpireOverdue)
}

// Submit godoc
// @Summary      Submit a request for quote
// @Description  Takes an inbound inquiry into the pipeline. Retries carrying the
// @Description  same Idempotency-Key header collapse into a single record.
// @Tags         rfqs
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client-generated submission key"
// @Param        request body quote.SubmitRFQRequest true "Inquiry submission"
// @Success      201 {object} dto.Response{data=quote.RFQResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs [post]
func (h *RFQHandler) Submit(c *gin.Context) {
	var req quoteapp.SubmitRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	rfq, err := h.rfqService.Submit(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rfq)
}

// GetByID godoc
// @Summary      Get inquiry by ID
// @Tags         rfqs
// @Produce      json
// @Param        id path string true "RFQ ID" format(uuid)
// @Success      200 {object} dto.Response{data=quote.RFQResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs/{id} [get]
func (h *RFQHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	rfq, err := h.rfqService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rfq)
}

// List godoc
// @Summary      List inquiries
// @Tags         rfqs
// @Produce      json
// @Param        search query string false "Search term (number, assignee)"
// @Param        status query string false "Inquiry status" Enums(PENDING, IN_REVIEW, QUOTED, NEGOTIATING, ACCEPTED, REJECTED, EXPIRED)
// @Param        priority query string false "Priority" Enums(low, medium, high, urgent)
// @Param        coffee_type query string false "Coffee type" Enums(ROBUSTA, ARABICA, BLEND, INSTANT)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]quote.RFQResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs [get]
func (h *RFQHandler) List(c *gin.Context) {
	var filter quoteapp.RFQListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	page, err := h.rfqService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateStatus godoc
// @Summary      Move an inquiry to a new status
// @Tags         rfqs
// @Accept       json
// @Produce      json
// @Param        id path string true "RFQ ID" format(uuid)
// @Param        request body quote.UpdateRFQStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=quote.RFQResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs/{id}/status [put]
func (h *RFQHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	var req quoteapp.UpdateRFQStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	rfq, err := h.rfqService.UpdateStatus(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rfq)
}

// Assign godoc
// @Summary      Assign an inquiry to a handler
// @Tags         rfqs
// @Accept       json
// @Produce      json
// @Param        id path string true "RFQ ID" format(uuid)
// @Param        request body quote.AssignRFQRequest true "Assignee"
// @Success      200 {object} dto.Response{data=quote.RFQResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs/{id}/assignee [put]
func (h *RFQHandler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	var req quoteapp.AssignRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	rfq, err := h.rfqService.Assign(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rfq)
}

// SetEstimate godoc
// @Summary      Pin a desk estimate on an inquiry
// @Tags         rfqs
// @Accept       json
// @Produce      json
// @Param        id path string true "RFQ ID" format(uuid)
// @Param        request body quote.SetEstimateRequest true "Estimated value"
// @Success      200 {object} dto.Response{data=quote.RFQResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs/{id}/estimate [put]
func (h *RFQHandler) SetEstimate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	var req quoteapp.SetEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	rfq, err := h.rfqService.SetEstimate(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rfq)
}

// AddCommunication godoc
// @Summary      Log a client touchpoint on an inquiry
// @Tags         rfqs
// @Accept       json
// @Produce      json
// @Param        id path string true "RFQ ID" format(uuid)
// @Param        request body quote.AddCommunicationRequest true "Channel and summary"
// @Success      200 {object} dto.Response{data=quote.RFQResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs/{id}/communications [post]
func (h *RFQHandler) AddCommunication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	var req quoteapp.AddCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	rfq, err := h.rfqService.AddCommunication(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rfq)
}

// SetFollowUp godoc
// @Summary      Schedule or clear an inquiry follow-up
// @Tags         rfqs
// @Accept       json
// @Produce      json
// @Param        id path string true "RFQ ID" format(uuid)
// @Param        request body quote.SetRFQFollowUpRequest true "Follow-up time, null to clear"
// @Success      200 {object} dto.Response{data=quote.RFQResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quote/rfqs/{id}/follow-up [put]
func (h *RFQHandler) SetFollowUp(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID format")
		return
	}

	var req quoteapp.SetRFQFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	rfq, err := h.rfqService.SetFollowUp(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rfq)
}

// ExpiredCountResponse reports how many inquiries a sweep expired
type ExpiredCountResponse struct {
	Expired int `json:"expired"`
}

// ExpireOverdue godoc
// @Summary      Expire overdue inquiries
// @Description  Sweeps inquiries whose validity window has lapsed and marks them expired
// @Tags         rfqs
// @Produce      json
// @Success      200 {object} dto.Response{data=ExpiredCountResponse}
// @Security     BearerAuth
// @Router       /quote/rfqs/expire-overdue [post]
func (h *RFQHandler) ExpireOverdue(c *gin.Context) {
	expired, err := h.rfqService.ExpireOverdue(c.Request.Context(), getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ExpiredCountResponse{Expired: expired})
}
