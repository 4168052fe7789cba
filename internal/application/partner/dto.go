package partner

import (
	"time"

	"github.com/beanport/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Client Company DTOs
// =============================================================================

// ContactRequest is one contact in a create or update payload
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Title   string `json:"title" binding:"max=100"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Primary bool   `json:"primary"`
}

// AddressRequest is one registered location in a create or update payload
type AddressRequest struct {
	Street     string `json:"street" binding:"max=200"`
	City       string `json:"city" binding:"max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"required,max=100"`
	Primary    bool   `json:"primary"`
}

// DocumentRequest attaches a compliance document to a company
type DocumentRequest struct {
	Type      string     `json:"type" binding:"required,max=100"`
	Reference string     `json:"reference" binding:"max=200"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateCompanyRequest represents a request to register a client company
type CreateCompanyRequest struct {
	LegalName          string           `json:"legal_name" binding:"required,min=1,max=200"`
	TradeName          string           `json:"trade_name" binding:"max=200"`
	RegistrationNumber string           `json:"registration_number" binding:"required,min=1,max=100"`
	TaxID              string           `json:"tax_id" binding:"max=50"`
	Country            string           `json:"country" binding:"required,max=100"`
	Relationship       string           `json:"relationship" binding:"omitempty,oneof=new developing established strategic_partner key_account at_risk dormant"`
	Risk               string           `json:"risk" binding:"omitempty,oneof=low medium high critical"`
	Contacts           []ContactRequest `json:"contacts"`
	Addresses          []AddressRequest `json:"addresses"`
	CreditLimit        *decimal.Decimal `json:"credit_limit"`
	CreditRating       string           `json:"credit_rating" binding:"max=20"`
	Notes              string           `json:"notes"`
}

// UpdateCompanyStatusRequest moves a company to a new status
type UpdateCompanyStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=prospect active inactive suspended blacklisted"`
}

// SetRelationshipRequest reclassifies the commercial relationship
type SetRelationshipRequest struct {
	Relationship string `json:"relationship" binding:"required,oneof=new developing established strategic_partner key_account at_risk dormant"`
}

// SetRiskRequest reclassifies the company's risk level
type SetRiskRequest struct {
	Risk string `json:"risk" binding:"required,oneof=low medium high critical"`
}

// SetCreditLimitRequest replaces the agreed credit line
type SetCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,oneof=USD EUR GBP CHF AED"`
}

// RecordOrderRequest books a completed order onto the trading history
type RecordOrderRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
}

// RecordPaymentRequest books an incoming payment onto the trading history
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	OnTime bool            `json:"on_time"`
}

// SetFollowUpRequest schedules or clears the follow-up reminder
type SetFollowUpRequest struct {
	FollowUpAt *time.Time `json:"follow_up_at"`
}

// CompanyResponse represents a client company in API responses
type CompanyResponse struct {
	ID                 uuid.UUID        `json:"id"`
	LegalName          string           `json:"legal_name"`
	TradeName          string           `json:"trade_name"`
	RegistrationNumber string           `json:"registration_number"`
	TaxID              string           `json:"tax_id"`
	Country            string           `json:"country"`
	Status             string           `json:"status"`
	Relationship       string           `json:"relationship"`
	Risk               string           `json:"risk"`
	Contacts           []ContactRequest `json:"contacts"`
	Addresses          []AddressRequest `json:"addresses"`
	CreditLimit        decimal.Decimal  `json:"credit_limit"`
	CreditRating       string           `json:"credit_rating"`
	TotalOrders        int              `json:"total_orders"`
	TotalValue         decimal.Decimal  `json:"total_value"`
	PaymentsOnTime     int              `json:"payments_on_time"`
	PaymentsLate       int              `json:"payments_late"`
	OutstandingAmount  decimal.Decimal  `json:"outstanding_amount"`
	AvailableCredit    decimal.Decimal  `json:"available_credit"`
	RelationshipScore  decimal.Decimal  `json:"relationship_score"`
	IsHighRisk         bool             `json:"is_high_risk"`
	NeedsFollowUp      bool             `json:"needs_follow_up"`
	HasValidDocuments  bool             `json:"has_valid_documents"`
	FollowUpAt         *time.Time       `json:"follow_up_at,omitempty"`
	Notes              string           `json:"notes"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Version            int              `json:"version"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	Search       string `form:"search"`
	Status       string `form:"status" binding:"omitempty,oneof=prospect active inactive suspended blacklisted"`
	Relationship string `form:"relationship" binding:"omitempty,oneof=new developing established strategic_partner key_account at_risk dormant"`
	Risk         string `form:"risk" binding:"omitempty,oneof=low medium high critical"`
	Country      string `form:"country"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toDomainContacts(contacts []ContactRequest) []partner.Contact {
	if len(contacts) == 0 {
		return nil
	}
	out := make([]partner.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = partner.Contact{Name: c.Name, Title: c.Title, Email: c.Email, Phone: c.Phone, Primary: c.Primary}
	}
	return out
}

func toDomainAddresses(addresses []AddressRequest) []partner.Address {
	if len(addresses) == 0 {
		return nil
	}
	out := make([]partner.Address, len(addresses))
	for i, a := range addresses {
		out[i] = partner.Address{Street: a.Street, City: a.City, Region: a.Region, PostalCode: a.PostalCode, Country: a.Country, Primary: a.Primary}
	}
	return out
}

// ToCompanyResponse maps a domain company to its API representation
func ToCompanyResponse(c partner.ClientCompany, now time.Time) CompanyResponse {
	contacts := make([]ContactRequest, len(c.Contacts))
	for i, contact := range c.Contacts {
		contacts[i] = ContactRequest{Name: contact.Name, Title: contact.Title, Email: contact.Email, Phone: contact.Phone, Primary: contact.Primary}
	}
	addresses := make([]AddressRequest, len(c.Addresses))
	for i, address := range c.Addresses {
		addresses[i] = AddressRequest{Street: address.Street, City: address.City, Region: address.Region, PostalCode: address.PostalCode, Country: address.Country, Primary: address.Primary}
	}

	return CompanyResponse{
		ID:                 c.ID,
		LegalName:          c.LegalName,
		TradeName:          c.TradeName,
		RegistrationNumber: c.RegistrationNumber,
		TaxID:              c.TaxID,
		Country:            c.Country,
		Status:             string(c.Status),
		Relationship:       string(c.Relationship),
		Risk:               string(c.Risk),
		Contacts:           contacts,
		Addresses:          addresses,
		CreditLimit:        c.Financial.CreditLimit.Amount(),
		CreditRating:       c.Financial.CreditRating,
		TotalOrders:        c.History.TotalOrders,
		TotalValue:         c.History.TotalValue,
		PaymentsOnTime:     c.History.PaymentsOnTime,
		PaymentsLate:       c.History.PaymentsLate,
		OutstandingAmount:  c.History.OutstandingAmount,
		AvailableCredit:    c.GetAvailableCredit(),
		RelationshipScore:  c.CalculateRelationshipScore(),
		IsHighRisk:         c.IsHighRisk(),
		NeedsFollowUp:      c.NeedsFollowUp(now),
		HasValidDocuments:  c.HasValidDocuments(now),
		FollowUpAt:         c.FollowUpAt,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Version:            c.Version,
	}
}
