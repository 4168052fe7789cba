package catalog

import (
	"context"
	"errors"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ServiceService handles business-service catalog operations
type ServiceService struct {
	serviceRepo catalog.BusinessServiceRepository
	clock       shared.Clock
	idGen       shared.IDGenerator
}

// NewServiceService creates a new ServiceService
func NewServiceService(serviceRepo catalog.BusinessServiceRepository, clock shared.Clock, idGen shared.IDGenerator) *ServiceService {
	return &ServiceService{
		serviceRepo: serviceRepo,
		clock:       clock,
		idGen:       idGen,
	}
}

// Create lists a new business service
func (s *ServiceService) Create(ctx context.Context, actor string, req CreateServiceRequest) (*ServiceResponse, error) {
	existing, err := s.serviceRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Service with this code already exists")
	}

	basePrice, err := valueobject.NewMoney(req.BasePrice, toCurrency(req.Currency))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	stamp := shared.NewStamp(s.clock, actor)
	service, err := catalog.NewBusinessService(s.idGen, stamp, catalog.BusinessServiceInput{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		PricingModel:   catalog.PricingModel(req.PricingModel),
		BasePrice:      basePrice,
		PercentOfValue: req.PercentOfValue,
		VolumeTiers:    toDomainTiers(req.VolumeTiers),
		Timeline: catalog.DeliveryTimeline{
			MinimumDays:          req.MinimumDays,
			AverageDays:          req.AverageDays,
			MaximumDays:          req.MaximumDays,
			RushAvailable:        req.RushAvailable,
			RushSurchargePercent: req.RushSurchargePercent,
		},
		Capacity:     req.Capacity,
		Requirements: req.Requirements,
	})
	if err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Save(ctx, &service); err != nil {
		return nil, err
	}

	response := ToServiceResponse(service)
	return &response, nil
}

// GetByID retrieves a service by ID
func (s *ServiceService) GetByID(ctx context.Context, id uuid.UUID) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToServiceResponse(*service)
	return &response, nil
}

// List returns a page of services matching the filter
func (s *ServiceService) List(ctx context.Context, req ServiceListFilter) (shared.Paginated[ServiceResponse], error) {
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
	if req.PricingModel != "" {
		filter.Filters["pricing_model"] = req.PricingModel
	}
	if req.Active != nil {
		filter.Filters["active"] = *req.Active
	}

	page, err := s.serviceRepo.Search(ctx, filter)
	if err != nil {
		return shared.Paginated[ServiceResponse]{}, err
	}

	items := make([]ServiceResponse, len(page.Items))
	for i, service := range page.Items {
		items[i] = ToServiceResponse(service)
	}

	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// QuotePrice computes the service fee for a quantity, with the delivery
// estimate at the requested speed. Custom-quote services come back flagged
// for manual handling instead of with a number.
func (s *ServiceService) QuotePrice(ctx context.Context, id uuid.UUID, req ServicePriceRequest) (*ServicePriceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price := service.CalculatePrice(req.Quantity, req.Rush)
	timeline := service.EstimateDeliveryDays(req.Rush)

	return &ServicePriceResponse{
		ServiceID:     service.ID,
		Code:          service.Code,
		Quantity:      req.Quantity,
		Rush:          req.Rush,
		Price:         price.Amount(),
		Currency:      string(price.Currency()),
		EstimatedDays: timeline.AverageDays,
		NeedsQuote:    service.RequiresCustomQuote(),
	}, nil
}

// UpdateTimeline replaces a service's delivery timeline
func (s *ServiceService) UpdateTimeline(ctx context.Context, id uuid.UUID, actor string, req UpdateServiceTimelineRequest) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := service.UpdateTimeline(catalog.DeliveryTimeline{
		MinimumDays:          req.MinimumDays,
		AverageDays:          req.AverageDays,
		MaximumDays:          req.MaximumDays,
		RushAvailable:        req.RushAvailable,
		RushSurchargePercent: req.RushSurchargePercent,
	}, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.serviceRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToServiceResponse(updated)
	return &response, nil
}

// UpdatePricing replaces a service's pricing terms
func (s *ServiceService) UpdatePricing(ctx context.Context, id uuid.UUID, actor string, req UpdateServicePricingRequest) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	basePrice, err := valueobject.NewMoney(req.BasePrice, toCurrency(req.Currency))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	updated, err := service.UpdatePricing(
		catalog.PricingModel(req.PricingModel),
		basePrice,
		req.PercentOfValue,
		toDomainTiers(req.VolumeTiers),
		shared.NewStamp(s.clock, actor),
	)
	if err != nil {
		return nil, err
	}

	if err := s.serviceRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToServiceResponse(updated)
	return &response, nil
}

// Deactivate takes a service off the catalog without deleting it
func (s *ServiceService) Deactivate(ctx context.Context, id uuid.UUID, actor string) (*ServiceResponse, error) {
	return s.setActive(ctx, id, actor, false)
}

// Activate returns a service to the catalog
func (s *ServiceService) Activate(ctx context.Context, id uuid.UUID, actor string) (*ServiceResponse, error) {
	return s.setActive(ctx, id, actor, true)
}

func (s *ServiceService) setActive(ctx context.Context, id uuid.UUID, actor string, active bool) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stamp := shared.NewStamp(s.clock, actor)
	var updated catalog.BusinessService
	if active {
		updated = service.Activate(stamp)
	} else {
		updated = service.Deactivate(stamp)
	}

	if err := s.serviceRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToServiceResponse(updated)
	return &response, nil
}
