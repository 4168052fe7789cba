package partner

import (
	"context"
	"errors"

	"github.com/beanport/backend/internal/domain/partner"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CompanyService handles client-company operations
type CompanyService struct {
	companyRepo partner.ClientCompanyRepository
	clock       shared.Clock
	idGen       shared.IDGenerator
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo partner.ClientCompanyRepository, clock shared.Clock, idGen shared.IDGenerator) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		clock:       clock,
		idGen:       idGen,
	}
}

// Create registers a new client company
func (s *CompanyService) Create(ctx context.Context, actor string, req CreateCompanyRequest) (*CompanyResponse, error) {
	existing, err := s.companyRepo.FindByRegistrationNumber(ctx, req.RegistrationNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company with this registration number already exists")
	}

	relationship := partner.RelationshipNew
	if req.Relationship != "" {
		relationship = partner.RelationshipStatus(req.Relationship)
	}
	risk := partner.RiskLow
	if req.Risk != "" {
		risk = partner.RiskLevel(req.Risk)
	}

	financial := partner.FinancialInfo{CreditRating: req.CreditRating}
	if req.CreditLimit != nil {
		limit, err := valueobject.NewMoney(*req.CreditLimit, valueobject.DefaultCurrency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		financial.CreditLimit = limit
	}

	stamp := shared.NewStamp(s.clock, actor)
	company, err := partner.NewClientCompany(s.idGen, stamp, partner.ClientCompanyInput{
		LegalName:          req.LegalName,
		TradeName:          req.TradeName,
		RegistrationNumber: req.RegistrationNumber,
		TaxID:              req.TaxID,
		Country:            req.Country,
		Status:             partner.CompanyStatusProspect,
		Relationship:       relationship,
		Contacts:           toDomainContacts(req.Contacts),
		Addresses:          toDomainAddresses(req.Addresses),
		Financial:          financial,
		Risk:               risk,
		Notes:              req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, &company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company, s.clock.Now())
	return &response, nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCompanyResponse(*company, s.clock.Now())
	return &response, nil
}

// List returns a page of companies matching the filter
func (s *CompanyService) List(ctx context.Context, req CompanyListFilter) (shared.Paginated[CompanyResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.Relationship != "" {
		filter.Filters["relationship"] = req.Relationship
	}
	if req.Risk != "" {
		filter.Filters["risk"] = req.Risk
	}
	if req.Country != "" {
		filter.Filters["country"] = req.Country
	}

	page, err := s.companyRepo.Search(ctx, filter)
	if err != nil {
		return shared.Paginated[CompanyResponse]{}, err
	}

	now := s.clock.Now()
	items := make([]CompanyResponse, len(page.Items))
	for i, company := range page.Items {
		items[i] = ToCompanyResponse(company, now)
	}

	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ListNeedingFollowUp returns the companies whose follow-up reminder has passed
func (s *CompanyService) ListNeedingFollowUp(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.companyRepo.FindNeedingFollowUp(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	items := make([]CompanyResponse, len(companies))
	for i, company := range companies {
		items[i] = ToCompanyResponse(company, now)
	}
	return items, nil
}

// UpdateStatus moves a company to a new status
func (s *CompanyService) UpdateStatus(ctx context.Context, id uuid.UUID, actor string, req UpdateCompanyStatusRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.UpdateStatus(partner.CompanyStatus(req.Status), stamp)
	}, actor)
}

// SetRelationship reclassifies the commercial relationship
func (s *CompanyService) SetRelationship(ctx context.Context, id uuid.UUID, actor string, req SetRelationshipRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.SetRelationship(partner.RelationshipStatus(req.Relationship), stamp)
	}, actor)
}

// SetRisk reclassifies the company's risk level
func (s *CompanyService) SetRisk(ctx context.Context, id uuid.UUID, actor string, req SetRiskRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.SetRisk(partner.RiskLevel(req.Risk), stamp)
	}, actor)
}

// SetCreditLimit replaces the agreed credit line
func (s *CompanyService) SetCreditLimit(ctx context.Context, id uuid.UUID, actor string, req SetCreditLimitRequest) (*CompanyResponse, error) {
	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	limit, err := valueobject.NewMoney(req.CreditLimit, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.SetCreditLimit(limit, stamp)
	}, actor)
}

// AddContact attaches a contact to the company
func (s *CompanyService) AddContact(ctx context.Context, id uuid.UUID, actor string, req ContactRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.AddContact(partner.Contact{
			Name: req.Name, Title: req.Title, Email: req.Email, Phone: req.Phone, Primary: req.Primary,
		}, stamp)
	}, actor)
}

// RecordOrder books a completed order onto the trading history. The
// relationship score is derived, so recording the order is all it takes for
// the next read to reflect it.
func (s *CompanyService) RecordOrder(ctx context.Context, id uuid.UUID, actor string, req RecordOrderRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.RecordOrder(req.Value, stamp)
	}, actor)
}

// RecordPayment books an incoming payment onto the trading history
func (s *CompanyService) RecordPayment(ctx context.Context, id uuid.UUID, actor string, req RecordPaymentRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.RecordPayment(req.Amount, req.OnTime, stamp)
	}, actor)
}

// SetFollowUp schedules or clears the follow-up reminder
func (s *CompanyService) SetFollowUp(ctx context.Context, id uuid.UUID, actor string, req SetFollowUpRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.SetFollowUpDate(req.FollowUpAt, stamp), nil
	}, actor)
}

// AddDocument attaches a compliance document to the company
func (s *CompanyService) AddDocument(ctx context.Context, id uuid.UUID, actor string, req DocumentRequest) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.AddDocument(partner.Document{
			Type: req.Type, Reference: req.Reference, ExpiresAt: req.ExpiresAt,
		}, stamp)
	}, actor)
}

// VerifyDocument marks the document at a position verified
func (s *CompanyService) VerifyDocument(ctx context.Context, id uuid.UUID, actor string, index int) (*CompanyResponse, error) {
	return s.mutate(ctx, id, func(c partner.ClientCompany, stamp shared.Stamp) (partner.ClientCompany, error) {
		return c.VerifyDocument(index, stamp)
	}, actor)
}

// mutate loads a company, applies a copy-on-write mutation, and saves the new
// value under the optimistic lock.
func (s *CompanyService) mutate(ctx context.Context, id uuid.UUID, fn func(partner.ClientCompany, shared.Stamp) (partner.ClientCompany, error), actor string) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := fn(*company, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(updated, s.clock.Now())
	return &response, nil
}
