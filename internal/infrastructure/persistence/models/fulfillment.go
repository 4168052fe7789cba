package models

import (
	"time"

	"github.com/beanport/backend/internal/domain/fulfillment"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain record.
type OrderModel struct {
	RecordModel
	Number                string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	RFQID                 *uuid.UUID                `gorm:"type:uuid;index"`
	CompanyID             uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Status                fulfillment.OrderStatus   `gorm:"type:varchar(25);not null;index"`
	PaymentStatus         fulfillment.PaymentStatus `gorm:"type:varchar(15);not null;index"`
	Items                 string                    `gorm:"type:jsonb"`
	TotalAmount           decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Currency              string                    `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentSchedule       string                    `gorm:"type:jsonb"`
	Shipping              string                    `gorm:"type:jsonb"`
	QualityCheckRequired  bool                      `gorm:"not null;default:false"`
	QualityControl        string                    `gorm:"type:jsonb"`
	Documents             string                    `gorm:"type:jsonb"`
	RequestedDeliveryDate *time.Time                `gorm:"index"`
	Notes                 string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() (fulfillment.Order, error) {
	var items []fulfillment.LineItem
	if err := unmarshalJSON(m.Items, &items); err != nil {
		return fulfillment.Order{}, err
	}
	var schedule []fulfillment.PaymentEntry
	if err := unmarshalJSON(m.PaymentSchedule, &schedule); err != nil {
		return fulfillment.Order{}, err
	}
	var shipping fulfillment.ShippingDetails
	if err := unmarshalJSON(m.Shipping, &shipping); err != nil {
		return fulfillment.Order{}, err
	}
	var qc *fulfillment.QualityControlRecord
	if m.QualityControl != "" && m.QualityControl != "null" {
		qc = &fulfillment.QualityControlRecord{}
		if err := unmarshalJSON(m.QualityControl, qc); err != nil {
			return fulfillment.Order{}, err
		}
	}
	var documents []fulfillment.Document
	if err := unmarshalJSON(m.Documents, &documents); err != nil {
		return fulfillment.Order{}, err
	}
	total, err := valueobject.NewMoney(m.TotalAmount, valueobject.Currency(m.Currency))
	if err != nil {
		return fulfillment.Order{}, err
	}

	return fulfillment.Order{
		RecordMeta:            m.ToMeta(),
		Number:                m.Number,
		RFQID:                 m.RFQID,
		CompanyID:             m.CompanyID,
		Status:                m.Status,
		PaymentStatus:         m.PaymentStatus,
		Items:                 items,
		TotalAmount:           total,
		PaymentSchedule:       schedule,
		Shipping:              shipping,
		QualityCheckRequired:  m.QualityCheckRequired,
		QualityControl:        qc,
		Documents:             documents,
		RequestedDeliveryDate: m.RequestedDeliveryDate,
		Notes:                 m.Notes,
	}, nil
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o fulfillment.Order) error {
	items, err := marshalJSON(o.Items)
	if err != nil {
		return err
	}
	schedule, err := marshalJSON(o.PaymentSchedule)
	if err != nil {
		return err
	}
	shipping, err := marshalJSON(o.Shipping)
	if err != nil {
		return err
	}
	qc := ""
	if o.QualityControl != nil {
		qc, err = marshalJSON(o.QualityControl)
		if err != nil {
			return err
		}
	}
	documents, err := marshalJSON(o.Documents)
	if err != nil {
		return err
	}

	m.FromMeta(o.RecordMeta)
	m.Number = o.Number
	m.RFQID = o.RFQID
	m.CompanyID = o.CompanyID
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.Items = items
	m.TotalAmount = o.TotalAmount.Amount()
	m.Currency = string(o.TotalAmount.Currency())
	m.PaymentSchedule = schedule
	m.Shipping = shipping
	m.QualityCheckRequired = o.QualityCheckRequired
	m.QualityControl = qc
	m.Documents = documents
	m.RequestedDeliveryDate = o.RequestedDeliveryDate
	m.Notes = o.Notes
	return nil
}
