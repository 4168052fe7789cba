package models

import (
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CoffeeProductModel is the persistence model for the CoffeeProduct domain record.
// Filterable attributes live in first-class columns; nested value objects are
// stored as jsonb.
type CoffeeProductModel struct {
	RecordModel
	SKU               string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string                   `gorm:"type:varchar(200);not null"`
	Type              catalog.CoffeeType       `gorm:"type:varchar(20);not null;index"`
	Grade             catalog.CoffeeGrade      `gorm:"type:varchar(20);not null"`
	Processing        catalog.ProcessingMethod `gorm:"type:varchar(20);not null"`
	Origin            string                   `gorm:"type:varchar(200)"`
	Specifications    string                   `gorm:"type:jsonb"`
	Certifications    string                   `gorm:"type:jsonb"`
	BasePriceAmount   decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	BasePriceCurrency string                   `gorm:"type:varchar(3);not null;default:'USD'"`
	PricingUnit       valueobject.WeightUnit   `gorm:"type:varchar(10);not null;default:'MT'"`
	Incoterm          valueobject.Incoterm     `gorm:"type:varchar(3);not null;default:'FOB'"`
	MinimumOrder      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTiers     string                   `gorm:"type:jsonb"`
	PriceValidUntil   *time.Time
	InStock           bool            `gorm:"not null;default:false;index"`
	StockQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableFrom     *time.Time
	AvailableUntil    *time.Time
	LeadTimeDays      int  `gorm:"not null;default:0"`
	Active            bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CoffeeProductModel) TableName() string {
	return "coffee_products"
}

// ToDomain converts the persistence model to a domain CoffeeProduct.
func (m *CoffeeProductModel) ToDomain() (catalog.CoffeeProduct, error) {
	var specs catalog.Specifications
	if err := unmarshalJSON(m.Specifications, &specs); err != nil {
		return catalog.CoffeeProduct{}, err
	}
	var certs []string
	if err := unmarshalJSON(m.Certifications, &certs); err != nil {
		return catalog.CoffeeProduct{}, err
	}
	var tiers []valueobject.DiscountTier
	if err := unmarshalJSON(m.DiscountTiers, &tiers); err != nil {
		return catalog.CoffeeProduct{}, err
	}
	basePrice, err := valueobject.NewMoney(m.BasePriceAmount, valueobject.Currency(m.BasePriceCurrency))
	if err != nil {
		return catalog.CoffeeProduct{}, err
	}

	return catalog.CoffeeProduct{
		RecordMeta:     m.ToMeta(),
		SKU:            m.SKU,
		Name:           m.Name,
		Type:           m.Type,
		Grade:          m.Grade,
		Processing:     m.Processing,
		Origin:         m.Origin,
		Specifications: specs,
		Certifications: certs,
		Pricing: catalog.Pricing{
			BasePrice:     basePrice,
			Unit:          m.PricingUnit,
			Incoterm:      m.Incoterm,
			MinimumOrder:  m.MinimumOrder,
			DiscountTiers: tiers,
			ValidUntil:    m.PriceValidUntil,
		},
		Availability: catalog.Availability{
			InStock:        m.InStock,
			StockQuantity:  m.StockQuantity,
			AvailableFrom:  m.AvailableFrom,
			AvailableUntil: m.AvailableUntil,
			LeadTimeDays:   m.LeadTimeDays,
		},
		Active: m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain CoffeeProduct.
func (m *CoffeeProductModel) FromDomain(p catalog.CoffeeProduct) error {
	specs, err := marshalJSON(p.Specifications)
	if err != nil {
		return err
	}
	certs, err := marshalJSON(p.Certifications)
	if err != nil {
		return err
	}
	tiers, err := marshalJSON(p.Pricing.DiscountTiers)
	if err != nil {
		return err
	}

	m.FromMeta(p.RecordMeta)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Type = p.Type
	m.Grade = p.Grade
	m.Processing = p.Processing
	m.Origin = p.Origin
	m.Specifications = specs
	m.Certifications = certs
	m.BasePriceAmount = p.Pricing.BasePrice.Amount()
	m.BasePriceCurrency = string(p.Pricing.BasePrice.Currency())
	m.PricingUnit = p.Pricing.Unit
	m.Incoterm = p.Pricing.Incoterm
	m.MinimumOrder = p.Pricing.MinimumOrder
	m.DiscountTiers = tiers
	m.PriceValidUntil = p.Pricing.ValidUntil
	m.InStock = p.Availability.InStock
	m.StockQuantity = p.Availability.StockQuantity
	m.AvailableFrom = p.Availability.AvailableFrom
	m.AvailableUntil = p.Availability.AvailableUntil
	m.LeadTimeDays = p.Availability.LeadTimeDays
	m.Active = p.Active
	return nil
}

// BusinessServiceModel is the persistence model for the BusinessService domain record.
type BusinessServiceModel struct {
	RecordModel
	Code              string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string               `gorm:"type:varchar(200);not null"`
	Description       string               `gorm:"type:text"`
	PricingModel      catalog.PricingModel `gorm:"type:varchar(20);not null;index"`
	BasePriceAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	BasePriceCurrency string               `gorm:"type:varchar(3);not null;default:'USD'"`
	PercentOfValue    decimal.Decimal      `gorm:"type:decimal(9,4);not null;default:0"`
	VolumeTiers       string               `gorm:"type:jsonb"`
	Timeline          string               `gorm:"type:jsonb"`
	Capacity          int                  `gorm:"not null;default:0"`
	Requirements      string               `gorm:"type:jsonb"`
	Active            bool                 `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (BusinessServiceModel) TableName() string {
	return "business_services"
}

// ToDomain converts the persistence model to a domain BusinessService.
func (m *BusinessServiceModel) ToDomain() (catalog.BusinessService, error) {
	var tiers []valueobject.DiscountTier
	if err := unmarshalJSON(m.VolumeTiers, &tiers); err != nil {
		return catalog.BusinessService{}, err
	}
	var timeline catalog.DeliveryTimeline
	if err := unmarshalJSON(m.Timeline, &timeline); err != nil {
		return catalog.BusinessService{}, err
	}
	var requirements []string
	if err := unmarshalJSON(m.Requirements, &requirements); err != nil {
		return catalog.BusinessService{}, err
	}
	basePrice, err := valueobject.NewMoney(m.BasePriceAmount, valueobject.Currency(m.BasePriceCurrency))
	if err != nil {
		return catalog.BusinessService{}, err
	}

	return catalog.BusinessService{
		RecordMeta:     m.ToMeta(),
		Code:           m.Code,
		Name:           m.Name,
		Description:    m.Description,
		PricingModel:   m.PricingModel,
		BasePrice:      basePrice,
		PercentOfValue: m.PercentOfValue,
		VolumeTiers:    tiers,
		Timeline:       timeline,
		Capacity:       m.Capacity,
		Requirements:   requirements,
		Active:         m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain BusinessService.
func (m *BusinessServiceModel) FromDomain(s catalog.BusinessService) error {
	tiers, err := marshalJSON(s.VolumeTiers)
	if err != nil {
		return err
	}
	timeline, err := marshalJSON(s.Timeline)
	if err != nil {
		return err
	}
	requirements, err := marshalJSON(s.Requirements)
	if err != nil {
		return err
	}

	m.FromMeta(s.RecordMeta)
	m.Code = s.Code
	m.Name = s.Name
	m.Description = s.Description
	m.PricingModel = s.PricingModel
	m.BasePriceAmount = s.BasePrice.Amount()
	m.BasePriceCurrency = string(s.BasePrice.Currency())
	m.PercentOfValue = s.PercentOfValue
	m.VolumeTiers = tiers
	m.Timeline = timeline
	m.Capacity = s.Capacity
	m.Requirements = requirements
	m.Active = s.Active
	return nil
}
