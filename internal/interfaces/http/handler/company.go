package handler

import (
	"strconv"

	partnerapp "github.com/beanport/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanyHandler handles client company API endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *partnerapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// RegisterRoutes registers client company routes on the API group
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/partner/companies")
	companies.POST("", h.Create)
	companies.GET("", h.List)
	companies.GET("/follow-ups", h.ListNeedingFollowUp)
	companies.GET("/:id", h.GetByID)
	companies.PUT("/:id/status", h.UpdateStatus)
	companies.PUT("/:id/relationship", h.SetRelationship)
	companies.PUT("/:id/risk", h.SetRisk)
	companies.PUT("/:id/credit-limit", h.SetCreditLimit)
	companies.PUT("/:id/follow-up", h.SetFollowUp)
	companies.POST("/:id/contacts", h.AddContact)
	companies.POST("/:id/orders", h.RecordOrder)
	companies.POST("/:id/payments", h.RecordPayment)
	companies.POST("/:id/documents", h.AddDocument)
	companies.POST("/:id/documents/:index/verify", h.VerifyDocument)
}

// Create godoc
// @Summary      Register a client company
// @Description  Register an importer with registration data and optional credit limit
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body partner.CreateCompanyRequest true "Company registration request"
// @Success      201 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, company)
}

// GetByID godoc
// @Summary      Get company by ID
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// List godoc
// @Summary      List client companies
// @Tags         companies
// @Produce      json
// @Param        search query string false "Search term (legal name, trade name, registration number)"
// @Param        status query string false "Company status" Enums(prospect, active, inactive, suspended, blacklisted)
// @Param        relationship query string false "Relationship tier"
// @Param        risk query string false "Risk rating" Enums(low, medium, high, critical)
// @Param        country query string false "Country"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]partner.CompanyResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	var filter partnerapp.CompanyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	page, err := h.companyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListNeedingFollowUp godoc
// @Summary      List companies due for follow-up
// @Description  Active companies whose follow-up reminder has come due
// @Tags         companies
// @Produce      json
// @Success      200 {object} dto.Response{data=[]partner.CompanyResponse}
// @Security     BearerAuth
// @Router       /partner/companies/follow-ups [get]
func (h *CompanyHandler) ListNeedingFollowUp(c *gin.Context) {
	companies, err := h.companyService.ListNeedingFollowUp(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, companies)
}

// UpdateStatus godoc
// @Summary      Update company status
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.UpdateCompanyStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/status [put]
func (h *CompanyHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.UpdateCompanyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.UpdateStatus(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// SetRelationship godoc
// @Summary      Set relationship tier
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.SetRelationshipRequest true "Relationship tier"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/relationship [put]
func (h *CompanyHandler) SetRelationship(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.SetRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.SetRelationship(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// SetRisk godoc
// @Summary      Set risk rating
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.SetRiskRequest true "Risk rating"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/risk [put]
func (h *CompanyHandler) SetRisk(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.SetRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.SetRisk(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// SetCreditLimit godoc
// @Summary      Set credit limit
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.SetCreditLimitRequest true "Credit limit"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/credit-limit [put]
func (h *CompanyHandler) SetCreditLimit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.SetCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.SetCreditLimit(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// SetFollowUp godoc
// @Summary      Schedule or clear a follow-up reminder
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.SetFollowUpRequest true "Follow-up time, null to clear"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/follow-up [put]
func (h *CompanyHandler) SetFollowUp(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.SetFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.SetFollowUp(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// AddContact godoc
// @Summary      Add a contact
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.ContactRequest true "Contact details"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/contacts [post]
func (h *CompanyHandler) AddContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.AddContact(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// RecordOrder godoc
// @Summary      Record an order against trading history
// @Description  Feeds the relationship score and outstanding balance
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.RecordOrderRequest true "Order value"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/orders [post]
func (h *CompanyHandler) RecordOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.RecordOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.RecordOrder(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// RecordPayment godoc
// @Summary      Record a payment against outstanding balance
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.RecordPaymentRequest true "Payment amount and punctuality"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/payments [post]
func (h *CompanyHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.RecordPayment(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// AddDocument godoc
// @Summary      Attach a compliance document
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partner.DocumentRequest true "Document reference"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/documents [post]
func (h *CompanyHandler) AddDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req partnerapp.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	company, err := h.companyService.AddDocument(c.Request.Context(), id, getActor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// VerifyDocument godoc
// @Summary      Mark a compliance document verified
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        index path int true "Document index"
// @Success      200 {object} dto.Response{data=partner.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/companies/{id}/documents/{index}/verify [post]
func (h *CompanyHandler) VerifyDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.BadRequest(c, "Invalid document index")
		return
	}

	company, err := h.companyService.VerifyDocument(c.Request.Context(), id, getActor(c), index)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}
