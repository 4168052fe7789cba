package models

import (
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFQModel is the persistence model for the RFQ domain record.
type RFQModel struct {
	RecordModel
	Number         string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status         quote.RFQStatus   `gorm:"type:varchar(20);not null;index"`
	Priority       quote.RFQPriority `gorm:"type:varchar(10);not null;index"`
	// CoffeeType is denormalized from the product requirement so list
	// filters hit an indexed column instead of the jsonb blob
	CoffeeType     catalog.CoffeeType `gorm:"type:varchar(20);index"`
	Product        string             `gorm:"type:jsonb"`
	Delivery       string             `gorm:"type:jsonb"`
	Payment        string             `gorm:"type:jsonb"`
	CompanyID      *uuid.UUID         `gorm:"type:uuid;index"`
	Company        string             `gorm:"type:jsonb"`
	Recurrence     quote.Recurrence   `gorm:"type:varchar(15);not null;default:'none'"`
	AssignedTo     string             `gorm:"type:varchar(200);index"`
	EstimatedValue *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	SubmittedAt    time.Time          `gorm:"not null"`
	LastActivityAt time.Time          `gorm:"not null"`
	ExpiresAt      *time.Time         `gorm:"index"`
	QuoteSentAt    *time.Time
	FollowUpAt     *time.Time `gorm:"index"`
	Communications string     `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (RFQModel) TableName() string {
	return "rfqs"
}

// ToDomain converts the persistence model to a domain RFQ.
func (m *RFQModel) ToDomain() (quote.RFQ, error) {
	var product quote.ProductRequirement
	if err := unmarshalJSON(m.Product, &product); err != nil {
		return quote.RFQ{}, err
	}
	var delivery quote.DeliveryRequirement
	if err := unmarshalJSON(m.Delivery, &delivery); err != nil {
		return quote.RFQ{}, err
	}
	var payment quote.PaymentRequirement
	if err := unmarshalJSON(m.Payment, &payment); err != nil {
		return quote.RFQ{}, err
	}
	var company quote.CompanySnapshot
	if err := unmarshalJSON(m.Company, &company); err != nil {
		return quote.RFQ{}, err
	}
	var communications []quote.Communication
	if err := unmarshalJSON(m.Communications, &communications); err != nil {
		return quote.RFQ{}, err
	}
	// company_id is the query column; the snapshot stays authoritative but an
	// absent snapshot link falls back to the column.
	if company.CompanyID == nil {
		company.CompanyID = m.CompanyID
	}

	return quote.RFQ{
		RecordMeta:     m.ToMeta(),
		Number:         m.Number,
		Status:         m.Status,
		Priority:       m.Priority,
		Product:        product,
		Delivery:       delivery,
		Payment:        payment,
		Company:        company,
		Recurrence:     m.Recurrence,
		AssignedTo:     m.AssignedTo,
		EstimatedValue: m.EstimatedValue,
		SubmittedAt:    m.SubmittedAt,
		LastActivityAt: m.LastActivityAt,
		ExpiresAt:      m.ExpiresAt,
		QuoteSentAt:    m.QuoteSentAt,
		FollowUpAt:     m.FollowUpAt,
		Communications: communications,
	}, nil
}

// FromDomain populates the persistence model from a domain RFQ.
func (m *RFQModel) FromDomain(r quote.RFQ) error {
	product, err := marshalJSON(r.Product)
	if err != nil {
		return err
	}
	delivery, err := marshalJSON(r.Delivery)
	if err != nil {
		return err
	}
	payment, err := marshalJSON(r.Payment)
	if err != nil {
		return err
	}
	company, err := marshalJSON(r.Company)
	if err != nil {
		return err
	}
	communications, err := marshalJSON(r.Communications)
	if err != nil {
		return err
	}

	m.FromMeta(r.RecordMeta)
	m.Number = r.Number
	m.Status = r.Status
	m.Priority = r.Priority
	m.CoffeeType = r.Product.CoffeeType
	m.Product = product
	m.Delivery = delivery
	m.Payment = payment
	m.CompanyID = r.Company.CompanyID
	m.Company = company
	m.Recurrence = r.Recurrence
	m.AssignedTo = r.AssignedTo
	m.EstimatedValue = r.EstimatedValue
	m.SubmittedAt = r.SubmittedAt
	m.LastActivityAt = r.LastActivityAt
	m.ExpiresAt = r.ExpiresAt
	m.QuoteSentAt = r.QuoteSentAt
	m.FollowUpAt = r.FollowUpAt
	m.Communications = communications
	return nil
}
