package partner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CompanyStatus represents the operational status of a client company
type CompanyStatus string

const (
	CompanyStatusProspect    CompanyStatus = "prospect"
	CompanyStatusActive      CompanyStatus = "active"
	CompanyStatusInactive    CompanyStatus = "inactive"
	CompanyStatusSuspended   CompanyStatus = "suspended"
	CompanyStatusBlacklisted CompanyStatus = "blacklisted"
)

// IsValid checks if the status is a valid CompanyStatus
func (s CompanyStatus) IsValid() bool {
	switch s {
	case CompanyStatusProspect, CompanyStatusActive, CompanyStatusInactive, CompanyStatusSuspended, CompanyStatusBlacklisted:
		return true
	}
	return false
}

// RelationshipStatus places a client on the commercial relationship spectrum
type RelationshipStatus string

const (
	RelationshipNew              RelationshipStatus = "new"
	RelationshipDeveloping       RelationshipStatus = "developing"
	RelationshipEstablished      RelationshipStatus = "established"
	RelationshipStrategicPartner RelationshipStatus = "strategic_partner"
	RelationshipKeyAccount       RelationshipStatus = "key_account"
	RelationshipAtRisk           RelationshipStatus = "at_risk"
	RelationshipDormant          RelationshipStatus = "dormant"
)

// IsValid checks if the status is a valid RelationshipStatus
func (s RelationshipStatus) IsValid() bool {
	_, ok := relationshipBaseScores[s]
	return ok
}

// RiskLevel classifies the commercial risk a client carries
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsValid checks if the level is a valid RiskLevel
func (r RiskLevel) IsValid() bool {
	_, ok := riskPenalties[r]
	return ok
}

// Relationship score weights. Base score by relationship status, capped
// bonuses for order count and traded value, payment punctuality share, and a
// penalty by risk level; the sum is clamped to [0, 100].
var (
	relationshipBaseScores = map[RelationshipStatus]int64{
		RelationshipNew:              10,
		RelationshipDeveloping:       30,
		RelationshipEstablished:      60,
		RelationshipStrategicPartner: 90,
		RelationshipKeyAccount:       100,
		RelationshipAtRisk:           20,
		RelationshipDormant:          5,
	}
	riskPenalties = map[RiskLevel]int64{
		RiskLow:      0,
		RiskMedium:   5,
		RiskHigh:     15,
		RiskCritical: 30,
	}
	orderBonusCap    = decimal.NewFromInt(20)
	valueBonusCap    = decimal.NewFromInt(30)
	valueBonusPer    = decimal.NewFromInt(10000)
	punctualityScale = decimal.NewFromInt(20)
	scoreFloor       = decimal.Zero
	scoreCeiling     = decimal.NewFromInt(100)
)

// Contact is a named person at a client company
type Contact struct {
	Name    string
	Title   string
	Email   string
	Phone   string
	Primary bool
}

// Address is a registered location of a client company
type Address struct {
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
	Primary    bool
}

// FinancialInfo holds credit terms agreed with a client
type FinancialInfo struct {
	CreditLimit  valueobject.Money // zero means no credit line
	CreditRating string            // optional agency rating
}

// TradingHistory accumulates the client's commercial track record
type TradingHistory struct {
	TotalOrders       int
	TotalValue        decimal.Decimal
	PaymentsOnTime    int
	PaymentsLate      int
	OutstandingAmount decimal.Decimal
}

// Document is a compliance document held on file for a client
type Document struct {
	Type      string // e.g. import license, certificate of incorporation
	Reference string
	Verified  bool
	ExpiresAt *time.Time
}

// ClientCompany is an immutable record of a trading counterpart. Mutations
// return a new value; nothing writes to the receiver.
type ClientCompany struct {
	shared.RecordMeta
	LegalName          string
	TradeName          string
	RegistrationNumber string
	TaxID              string
	Country            string
	Status             CompanyStatus
	Relationship       RelationshipStatus
	Contacts           []Contact
	Addresses          []Address
	Financial          FinancialInfo
	History            TradingHistory
	Risk               RiskLevel
	Documents          []Document
	FollowUpAt         *time.Time
	Notes              string
}

// ClientCompanyInput is the plain payload a company is constructed from
type ClientCompanyInput struct {
	LegalName          string
	TradeName          string
	RegistrationNumber string
	TaxID              string
	Country            string
	Status             CompanyStatus
	Relationship       RelationshipStatus
	Contacts           []Contact
	Addresses          []Address
	Financial          FinancialInfo
	Risk               RiskLevel
	Notes              string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateClientCompanyInput checks every field constraint and returns an
// aggregated error naming all violations, or nil.
func ValidateClientCompanyInput(input ClientCompanyInput) error {
	v := shared.NewValidationError()

	if strings.TrimSpace(input.LegalName) == "" {
		v.Add("legal_name", "REQUIRED", "Legal name cannot be empty")
	} else if len(input.LegalName) > 200 {
		v.Add("legal_name", "TOO_LONG", "Legal name cannot exceed 200 characters")
	}
	if strings.TrimSpace(input.Country) == "" {
		v.Add("country", "REQUIRED", "Country cannot be empty")
	}
	if !input.Status.IsValid() {
		v.Add("status", "INVALID", "Unknown company status")
	}
	if !input.Relationship.IsValid() {
		v.Add("relationship", "INVALID", "Unknown relationship status")
	}
	if !input.Risk.IsValid() {
		v.Add("risk", "INVALID", "Unknown risk level")
	}
	if input.Financial.CreditLimit.IsNegative() {
		v.Add("financial.credit_limit", "INVALID", "Credit limit cannot be negative")
	}
	for idx, contact := range input.Contacts {
		if strings.TrimSpace(contact.Name) == "" {
			v.Add(contactField(idx, "name"), "REQUIRED", "Contact name cannot be empty")
		}
		if contact.Email != "" && !emailPattern.MatchString(contact.Email) {
			v.Add(contactField(idx, "email"), "INVALID", "Invalid email format")
		}
	}

	return v.ErrOrNil()
}

// IsValidClientCompanyInput is the non-throwing variant of input validation.
func IsValidClientCompanyInput(input ClientCompanyInput) bool {
	return ValidateClientCompanyInput(input) == nil
}

func contactField(idx int, field string) string {
	return fmt.Sprintf("contacts[%d].%s", idx, field)
}

// NewClientCompany constructs a company from a validated input payload.
func NewClientCompany(gen shared.IDGenerator, stamp shared.Stamp, input ClientCompanyInput) (ClientCompany, error) {
	if err := ValidateClientCompanyInput(input); err != nil {
		return ClientCompany{}, err
	}

	history := TradingHistory{
		TotalValue:        decimal.Zero,
		OutstandingAmount: decimal.Zero,
	}

	return ClientCompany{
		RecordMeta:         shared.NewRecordMeta(gen, stamp),
		LegalName:          input.LegalName,
		TradeName:          input.TradeName,
		RegistrationNumber: input.RegistrationNumber,
		TaxID:              input.TaxID,
		Country:            input.Country,
		Status:             input.Status,
		Relationship:       input.Relationship,
		Contacts:           cloneContacts(input.Contacts),
		Addresses:          cloneAddresses(input.Addresses),
		Financial:          input.Financial,
		History:            history,
		Risk:               input.Risk,
		Notes:              input.Notes,
	}, nil
}

// CalculateRelationshipScore derives the bounded [0,100] composite score from
// relationship status, trading history and risk.
func (c ClientCompany) CalculateRelationshipScore() decimal.Decimal {
	score := decimal.NewFromInt(relationshipBaseScores[c.Relationship])

	orderBonus := decimal.NewFromInt(int64(c.History.TotalOrders) * 2)
	score = score.Add(decimal.Min(orderBonus, orderBonusCap))

	valueBonus := c.History.TotalValue.Div(valueBonusPer)
	score = score.Add(decimal.Min(valueBonus, valueBonusCap))

	totalPayments := c.History.PaymentsOnTime + c.History.PaymentsLate
	if totalPayments > 0 {
		onTimeRate := decimal.NewFromInt(int64(c.History.PaymentsOnTime)).
			Div(decimal.NewFromInt(int64(totalPayments)))
		score = score.Add(onTimeRate.Mul(punctualityScale))
	}

	score = score.Sub(decimal.NewFromInt(riskPenalties[c.Risk]))

	return decimal.Max(scoreFloor, decimal.Min(score, scoreCeiling))
}

// GetAvailableCredit returns the credit headroom: limit minus outstanding,
// or zero when no credit line is set.
func (c ClientCompany) GetAvailableCredit() decimal.Decimal {
	if c.Financial.CreditLimit.IsZero() {
		return decimal.Zero
	}
	return c.Financial.CreditLimit.Amount().Sub(c.History.OutstandingAmount)
}

// IsHighRisk returns true for high or critical risk clients.
func (c ClientCompany) IsHighRisk() bool {
	return c.Risk == RiskHigh || c.Risk == RiskCritical
}

// NeedsFollowUp returns true when a follow-up date exists and has passed.
func (c ClientCompany) NeedsFollowUp(now time.Time) bool {
	return c.FollowUpAt != nil && c.FollowUpAt.Before(now)
}

// HasValidDocuments returns true when at least one document is verified and
// either has no expiry or expires in the future.
func (c ClientCompany) HasValidDocuments(now time.Time) bool {
	for _, doc := range c.Documents {
		if !doc.Verified {
			continue
		}
		if doc.ExpiresAt == nil || doc.ExpiresAt.After(now) {
			return true
		}
	}
	return false
}

// PrimaryContact returns the first contact flagged primary, falling back to
// the first contact. Multiple primary flags are tolerated; array order wins.
func (c ClientCompany) PrimaryContact() *Contact {
	for idx := range c.Contacts {
		if c.Contacts[idx].Primary {
			return &c.Contacts[idx]
		}
	}
	if len(c.Contacts) > 0 {
		return &c.Contacts[0]
	}
	return nil
}

// PrimaryAddress returns the first address flagged primary, falling back to
// the first address.
func (c ClientCompany) PrimaryAddress() *Address {
	for idx := range c.Addresses {
		if c.Addresses[idx].Primary {
			return &c.Addresses[idx]
		}
	}
	if len(c.Addresses) > 0 {
		return &c.Addresses[0]
	}
	return nil
}

// IsActive returns true if the company may trade.
func (c ClientCompany) IsActive() bool {
	return c.Status == CompanyStatusActive
}

// UpdateStatus returns a copy of the company in the given status.
func (c ClientCompany) UpdateStatus(status CompanyStatus, stamp shared.Stamp) (ClientCompany, error) {
	if !status.IsValid() {
		return ClientCompany{}, shared.NewDomainError("INVALID_STATUS", "Unknown company status")
	}
	if c.Status == CompanyStatusBlacklisted && status != CompanyStatusBlacklisted {
		return ClientCompany{}, shared.NewDomainError("INVALID_STATE", "A blacklisted company cannot be restored directly")
	}

	next := c.clone()
	next.Status = status
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// SetRelationship returns a copy with the relationship status moved.
func (c ClientCompany) SetRelationship(status RelationshipStatus, stamp shared.Stamp) (ClientCompany, error) {
	if !status.IsValid() {
		return ClientCompany{}, shared.NewDomainError("INVALID_RELATIONSHIP", "Unknown relationship status")
	}

	next := c.clone()
	next.Relationship = status
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// SetRisk returns a copy with the risk level moved.
func (c ClientCompany) SetRisk(risk RiskLevel, stamp shared.Stamp) (ClientCompany, error) {
	if !risk.IsValid() {
		return ClientCompany{}, shared.NewDomainError("INVALID_RISK", "Unknown risk level")
	}

	next := c.clone()
	next.Risk = risk
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// SetCreditLimit returns a copy with a new credit line.
func (c ClientCompany) SetCreditLimit(limit valueobject.Money, stamp shared.Stamp) (ClientCompany, error) {
	if limit.IsNegative() {
		return ClientCompany{}, shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	next := c.clone()
	next.Financial.CreditLimit = limit
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// AddContact returns a copy with the contact appended.
func (c ClientCompany) AddContact(contact Contact, stamp shared.Stamp) (ClientCompany, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return ClientCompany{}, shared.NewDomainError("INVALID_CONTACT", "Contact name cannot be empty")
	}
	if contact.Email != "" && !emailPattern.MatchString(contact.Email) {
		return ClientCompany{}, shared.NewDomainError("INVALID_CONTACT", "Invalid contact email format")
	}

	next := c.clone()
	next.Contacts = append(next.Contacts, contact)
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// AddAddress returns a copy with the address appended.
func (c ClientCompany) AddAddress(address Address, stamp shared.Stamp) (ClientCompany, error) {
	if strings.TrimSpace(address.Country) == "" {
		return ClientCompany{}, shared.NewDomainError("INVALID_ADDRESS", "Address country cannot be empty")
	}

	next := c.clone()
	next.Addresses = append(next.Addresses, address)
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// RecordOrder returns a copy with the trading totals advanced by a completed
// order and the outstanding amount raised by its value.
func (c ClientCompany) RecordOrder(value decimal.Decimal, stamp shared.Stamp) (ClientCompany, error) {
	if value.IsNegative() {
		return ClientCompany{}, shared.NewDomainError("INVALID_AMOUNT", "Order value cannot be negative")
	}

	next := c.clone()
	next.History.TotalOrders++
	next.History.TotalValue = c.History.TotalValue.Add(value)
	next.History.OutstandingAmount = c.History.OutstandingAmount.Add(value)
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// RecordPayment returns a copy with a settled payment applied: the punctuality
// counters advance and the outstanding amount falls (floored at zero).
func (c ClientCompany) RecordPayment(amount decimal.Decimal, onTime bool, stamp shared.Stamp) (ClientCompany, error) {
	if !amount.IsPositive() {
		return ClientCompany{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	next := c.clone()
	if onTime {
		next.History.PaymentsOnTime++
	} else {
		next.History.PaymentsLate++
	}
	next.History.OutstandingAmount = decimal.Max(decimal.Zero, c.History.OutstandingAmount.Sub(amount))
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// SetFollowUpDate returns a copy with the follow-up reminder set (nil clears it).
func (c ClientCompany) SetFollowUpDate(at *time.Time, stamp shared.Stamp) ClientCompany {
	next := c.clone()
	next.FollowUpAt = at
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next
}

// AddDocument returns a copy with the compliance document appended.
func (c ClientCompany) AddDocument(doc Document, stamp shared.Stamp) (ClientCompany, error) {
	if strings.TrimSpace(doc.Type) == "" {
		return ClientCompany{}, shared.NewDomainError("INVALID_DOCUMENT", "Document type cannot be empty")
	}

	next := c.clone()
	next.Documents = append(next.Documents, doc)
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// VerifyDocument returns a copy with the document at the index marked verified.
func (c ClientCompany) VerifyDocument(index int, stamp shared.Stamp) (ClientCompany, error) {
	if index < 0 || index >= len(c.Documents) {
		return ClientCompany{}, shared.NewDomainError("DOCUMENT_NOT_FOUND", "No document at that position")
	}

	next := c.clone()
	next.Documents[index].Verified = true
	next.RecordMeta = c.RecordMeta.Touched(stamp)
	return next, nil
}

// clone deep-copies the company so a mutation never aliases the receiver's slices.
func (c ClientCompany) clone() ClientCompany {
	next := c
	next.Contacts = cloneContacts(c.Contacts)
	next.Addresses = cloneAddresses(c.Addresses)
	if c.Documents != nil {
		next.Documents = make([]Document, len(c.Documents))
		copy(next.Documents, c.Documents)
	}
	return next
}

func cloneContacts(contacts []Contact) []Contact {
	if contacts == nil {
		return nil
	}
	next := make([]Contact, len(contacts))
	copy(next, contacts)
	return next
}

func cloneAddresses(addresses []Address) []Address {
	if addresses == nil {
		return nil
	}
	next := make([]Address, len(addresses))
	copy(next, addresses)
	return next
}
