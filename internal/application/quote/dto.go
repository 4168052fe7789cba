package quote

import (
	"time"

	"github.com/beanport/backend/internal/domain/quote"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RFQ DTOs
// =============================================================================

// SubmitRFQRequest represents an inbound request for quote
type SubmitRFQRequest struct {
	Number          string           `json:"number" binding:"required,min=1,max=50"`
	Priority        string           `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	CoffeeType      string           `json:"coffee_type" binding:"required,oneof=ROBUSTA ARABICA BLEND INSTANT"`
	Grade           string           `json:"grade"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	Unit            string           `json:"unit" binding:"required,oneof=KG LB MT BAGS"`
	TargetPrice     *decimal.Decimal `json:"target_price"`
	ProductNotes    string           `json:"product_notes" binding:"max=2000"`
	DestinationPort string           `json:"destination_port" binding:"max=100"`
	Country         string           `json:"country" binding:"max=100"`
	Incoterm        string           `json:"incoterm" binding:"omitempty,oneof=EXW FCA FOB CFR CIF"`
	RequiredBy      *time.Time       `json:"required_by"`
	PaymentMethod   string           `json:"payment_method" binding:"max=50"`
	PaymentTerms    int              `json:"payment_terms_days" binding:"min=0"`
	BudgetMin       *decimal.Decimal `json:"budget_min"`
	BudgetMax       *decimal.Decimal `json:"budget_max"`
	CompanyID       *uuid.UUID       `json:"company_id"`
	CompanyName     string           `json:"company_name" binding:"required,max=200"`
	CompanyCountry  string           `json:"company_country" binding:"max=100"`
	ContactName     string           `json:"contact_name" binding:"max=100"`
	ContactEmail    string           `json:"contact_email" binding:"omitempty,email,max=200"`
	Recurrence      string           `json:"recurrence" binding:"omitempty,oneof=none monthly quarterly semi_annual annual"`
	ExpiresAt       *time.Time       `json:"expires_at"`
	// IdempotencyKey deduplicates form resubmissions at the intake boundary
	IdempotencyKey string `json:"-"`
}

// UpdateRFQStatusRequest moves an inquiry to a new status
type UpdateRFQStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING IN_REVIEW QUOTED NEGOTIATING ACCEPTED REJECTED EXPIRED"`
}

// AssignRFQRequest hands an inquiry to a handler
type AssignRFQRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required,max=100"`
}

// SetEstimateRequest pins an explicit desk estimate on an inquiry
type SetEstimateRequest struct {
	EstimatedValue decimal.Decimal `json:"estimated_value" binding:"required"`
}

// AddCommunicationRequest logs a touchpoint on an inquiry
type AddCommunicationRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email phone meeting other"`
	Summary string `json:"summary" binding:"required,max=2000"`
}

// SetRFQFollowUpRequest schedules or clears the follow-up reminder
type SetRFQFollowUpRequest struct {
	FollowUpAt *time.Time `json:"follow_up_at"`
}

// RFQResponse represents an inquiry in API responses
type RFQResponse struct {
	ID                    uuid.UUID        `json:"id"`
	Number                string           `json:"number"`
	Status                string           `json:"status"`
	Priority              string           `json:"priority"`
	CoffeeType            string           `json:"coffee_type"`
	Grade                 string           `json:"grade"`
	Quantity              decimal.Decimal  `json:"quantity"`
	Unit                  string           `json:"unit"`
	TargetPrice           *decimal.Decimal `json:"target_price,omitempty"`
	DestinationPort       string           `json:"destination_port"`
	Country               string           `json:"country"`
	Incoterm              string           `json:"incoterm"`
	RequiredBy            *time.Time       `json:"required_by,omitempty"`
	PaymentMethod         string           `json:"payment_method"`
	PaymentTerms          int              `json:"payment_terms_days"`
	BudgetMin             *decimal.Decimal `json:"budget_min,omitempty"`
	BudgetMax             *decimal.Decimal `json:"budget_max,omitempty"`
	CompanyID             *uuid.UUID       `json:"company_id,omitempty"`
	CompanyName           string           `json:"company_name"`
	ContactEmail          string           `json:"contact_email"`
	Recurrence            string           `json:"recurrence"`
	AssignedTo            string           `json:"assigned_to"`
	EstimatedValue        decimal.Decimal  `json:"estimated_value"`
	AnnualVolumePotential decimal.Decimal  `json:"annual_volume_potential"`
	IsActive              bool             `json:"is_active"`
	CanBeQuoted           bool             `json:"can_be_quoted"`
	SubmittedAt           time.Time        `json:"submitted_at"`
	LastActivityAt        time.Time        `json:"last_activity_at"`
	ExpiresAt             *time.Time       `json:"expires_at,omitempty"`
	QuoteSentAt           *time.Time       `json:"quote_sent_at,omitempty"`
	FollowUpAt            *time.Time       `json:"follow_up_at,omitempty"`
	Communications        int              `json:"communications"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	Version               int              `json:"version"`
}

// RFQListFilter represents filter options for the inquiry list
type RFQListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING IN_REVIEW QUOTED NEGOTIATING ACCEPTED REJECTED EXPIRED"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	CoffeeType string `form:"coffee_type" binding:"omitempty,oneof=ROBUSTA ARABICA BLEND INSTANT"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToRFQResponse maps a domain inquiry to its API representation
func ToRFQResponse(r quote.RFQ, now time.Time) RFQResponse {
	return RFQResponse{
		ID:                    r.ID,
		Number:                r.Number,
		Status:                string(r.Status),
		Priority:              string(r.Priority),
		CoffeeType:            string(r.Product.CoffeeType),
		Grade:                 string(r.Product.Grade),
		Quantity:              r.Product.Quantity,
		Unit:                  string(r.Product.Unit),
		TargetPrice:           r.Product.TargetPrice,
		DestinationPort:       r.Delivery.DestinationPort,
		Country:               r.Delivery.Country,
		Incoterm:              string(r.Delivery.Incoterm),
		RequiredBy:            r.Delivery.RequiredBy,
		PaymentMethod:         r.Payment.Method,
		PaymentTerms:          r.Payment.TermsDays,
		BudgetMin:             r.Payment.BudgetMin,
		BudgetMax:             r.Payment.BudgetMax,
		CompanyID:             r.Company.CompanyID,
		CompanyName:           r.Company.Name,
		ContactEmail:          r.Company.ContactEmail,
		Recurrence:            string(r.Recurrence),
		AssignedTo:            r.AssignedTo,
		EstimatedValue:        r.CalculateEstimatedValue(),
		AnnualVolumePotential: r.GetAnnualVolumePotential(),
		IsActive:              r.IsActive(),
		CanBeQuoted:           r.CanBeQuoted(now),
		SubmittedAt:           r.SubmittedAt,
		LastActivityAt:        r.LastActivityAt,
		ExpiresAt:             r.ExpiresAt,
		QuoteSentAt:           r.QuoteSentAt,
		FollowUpAt:            r.FollowUpAt,
		Communications:        len(r.Communications),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		Version:               r.Version,
	}
}
