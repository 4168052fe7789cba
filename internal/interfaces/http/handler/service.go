package handler

import (
	catalogapp "github.com/beanport/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServiceHandler handles business service API endpoints
type ServiceHandler struct {
	BaseHandler
	serviceService *catalogapp.ServiceService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(serviceService *catalogapp.ServiceService) *ServiceHandler {
	return &ServiceHandler{
		serviceService: serviceService,
	}
}

// RegisterRoutes registers business service routes on the API group
func (h *ServiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/catalog/services")
	services.POST("", h.Create)
	services.GET("", h.List)
	services.GET("/:id", h.GetByID)
	services.POST("/:id/price-quote", h.QuotePrice)
	services.PUT("/:id/pricing", h.UpdatePricing)
	services.PUT("/:id/timeline", h.UpdateTimeline)
	services.POST("/:id/activate", h.Activate)
	services.POST("/:id/deactivate", h.Deactivate)
}

// Create godoc
// @Summary      Create a business service
// @Description  Add an ancillary export service (QC, logistics, certification) to the catalog
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateServiceRequest true "Service creation request"
// @Success      201 {object} dto.Response{data=catalog.ServiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	var req catalogapp.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	service, err := h.serviceService.Create(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, service)
}

// GetByID godoc
// @Summary      Get service by ID
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services/{id} [get]
func (h *ServiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	service, err := h.serviceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// List godoc
// @Summary      List business services
// @Tags         services
// @Produce      json
// @Param        search query string false "Search term (name, code, description)"
// @Param        pricing_model query string false "Pricing model" Enums(FIXED, PERCENTAGE, VOLUME_BASED, HOURLY, PROJECT, CUSTOM_QUOTE)
// @Param        active query bool false "Only active services"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalog.ServiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services [get]
func (h *ServiceHandler) List(c *gin.Context) {
	var filter catalogapp.ServiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	page, err := h.serviceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// QuotePrice godoc
// @Summary      Quote a service price
// @Description  Price the service under its pricing model for a given order value or volume
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body catalog.ServicePriceRequest true "Pricing inputs"
// @Success      200 {object} dto.Response{data=catalog.ServicePriceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services/{id}/price-quote [post]
func (h *ServiceHandler) QuotePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	var req catalogapp.ServicePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	quote, err := h.serviceService.QuotePrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quote)
}

// UpdatePricing godoc
// @Summary      Update service pricing
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body catalog.UpdateServicePricingRequest true "New pricing"
// @Success      200 {object} dto.Response{data=catalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services/{id}/pricing [put]
func (h *ServiceHandler) UpdatePricing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	var req catalogapp.UpdateServicePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	service, err := h.serviceService.UpdatePricing(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// UpdateTimeline godoc
// @Summary      Update service delivery timeline
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body catalog.UpdateServiceTimelineRequest true "New timeline"
// @Success      200 {object} dto.Response{data=catalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services/{id}/timeline [put]
func (h *ServiceHandler) UpdateTimeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	var req catalogapp.UpdateServiceTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	service, err := h.serviceService.UpdateTimeline(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// Activate godoc
// @Summary      Activate a service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services/{id}/activate [post]
func (h *ServiceHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	service, err := h.serviceService.Activate(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// Deactivate godoc
// @Summary      Deactivate a service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/services/{id}/deactivate [post]
func (h *ServiceHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	service, err := h.serviceService.Deactivate(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}
