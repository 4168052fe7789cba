package models

import (
	"time"

	"github.com/beanport/backend/internal/domain/partner"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ClientCompanyModel is the persistence model for the ClientCompany domain record.
type ClientCompanyModel struct {
	RecordModel
	LegalName           string                     `gorm:"type:varchar(200);not null"`
	TradeName           string                     `gorm:"type:varchar(200)"`
	RegistrationNumber  string                     `gorm:"type:varchar(100);not null;uniqueIndex"`
	TaxID               string                     `gorm:"type:varchar(50)"`
	Country             string                     `gorm:"type:varchar(100);index"`
	Status              partner.CompanyStatus      `gorm:"type:varchar(20);not null;index"`
	Relationship        partner.RelationshipStatus `gorm:"type:varchar(30);not null;index"`
	Risk                partner.RiskLevel          `gorm:"type:varchar(10);not null;index"`
	Contacts            string                     `gorm:"type:jsonb"`
	Addresses           string                     `gorm:"type:jsonb"`
	CreditLimitAmount   decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	CreditLimitCurrency string                     `gorm:"type:varchar(3);not null;default:'USD'"`
	CreditRating        string                     `gorm:"type:varchar(20)"`
	TotalOrders         int                        `gorm:"not null;default:0"`
	TotalValue          decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentsOnTime      int                        `gorm:"not null;default:0"`
	PaymentsLate        int                        `gorm:"not null;default:0"`
	OutstandingAmount   decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Documents           string                     `gorm:"type:jsonb"`
	FollowUpAt          *time.Time                 `gorm:"index"`
	Notes               string                     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientCompanyModel) TableName() string {
	return "client_companies"
}

// ToDomain converts the persistence model to a domain ClientCompany.
func (m *ClientCompanyModel) ToDomain() (partner.ClientCompany, error) {
	var contacts []partner.Contact
	if err := unmarshalJSON(m.Contacts, &contacts); err != nil {
		return partner.ClientCompany{}, err
	}
	var addresses []partner.Address
	if err := unmarshalJSON(m.Addresses, &addresses); err != nil {
		return partner.ClientCompany{}, err
	}
	var documents []partner.Document
	if err := unmarshalJSON(m.Documents, &documents); err != nil {
		return partner.ClientCompany{}, err
	}
	creditLimit, err := valueobject.NewMoney(m.CreditLimitAmount, valueobject.Currency(m.CreditLimitCurrency))
	if err != nil {
		return partner.ClientCompany{}, err
	}

	return partner.ClientCompany{
		RecordMeta:         m.ToMeta(),
		LegalName:          m.LegalName,
		TradeName:          m.TradeName,
		RegistrationNumber: m.RegistrationNumber,
		TaxID:              m.TaxID,
		Country:            m.Country,
		Status:             m.Status,
		Relationship:       m.Relationship,
		Contacts:           contacts,
		Addresses:          addresses,
		Financial: partner.FinancialInfo{
			CreditLimit:  creditLimit,
			CreditRating: m.CreditRating,
		},
		History: partner.TradingHistory{
			TotalOrders:       m.TotalOrders,
			TotalValue:        m.TotalValue,
			PaymentsOnTime:    m.PaymentsOnTime,
			PaymentsLate:      m.PaymentsLate,
			OutstandingAmount: m.OutstandingAmount,
		},
		Risk:       m.Risk,
		Documents:  documents,
		FollowUpAt: m.FollowUpAt,
		Notes:      m.Notes,
	}, nil
}

// FromDomain populates the persistence model from a domain ClientCompany.
func (m *ClientCompanyModel) FromDomain(c partner.ClientCompany) error {
	contacts, err := marshalJSON(c.Contacts)
	if err != nil {
		return err
	}
	addresses, err := marshalJSON(c.Addresses)
	if err != nil {
		return err
	}
	documents, err := marshalJSON(c.Documents)
	if err != nil {
		return err
	}

	m.FromMeta(c.RecordMeta)
	m.LegalName = c.LegalName
	m.TradeName = c.TradeName
	m.RegistrationNumber = c.RegistrationNumber
	m.TaxID = c.TaxID
	m.Country = c.Country
	m.Status = c.Status
	m.Relationship = c.Relationship
	m.Risk = c.Risk
	m.Contacts = contacts
	m.Addresses = addresses
	m.CreditLimitAmount = c.Financial.CreditLimit.Amount()
	m.CreditLimitCurrency = string(c.Financial.CreditLimit.Currency())
	m.CreditRating = c.Financial.CreditRating
	m.TotalOrders = c.History.TotalOrders
	m.TotalValue = c.History.TotalValue
	m.PaymentsOnTime = c.History.PaymentsOnTime
	m.PaymentsLate = c.History.PaymentsLate
	m.OutstandingAmount = c.History.OutstandingAmount
	m.Documents = documents
	m.FollowUpAt = c.FollowUpAt
	m.Notes = c.Notes
	return nil
}
