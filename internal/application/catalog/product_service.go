package catalog

import (
	"context"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles coffee-product catalog operations
type ProductService struct {
	productRepo catalog.CoffeeProductRepository
	clock       shared.Clock
	idGen       shared.IDGenerator
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.CoffeeProductRepository, clock shared.Clock, idGen shared.IDGenerator) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		clock:       clock,
		idGen:       idGen,
	}
}

// Create lists a new coffee product
func (s *ProductService) Create(ctx context.Context, actor string, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	basePrice, err := valueobject.NewMoney(req.BasePrice, toCurrency(req.Currency))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	stamp := shared.NewStamp(s.clock, actor)
	product, err := catalog.NewCoffeeProduct(s.idGen, stamp, catalog.CoffeeProductInput{
		SKU:        req.SKU,
		Name:       req.Name,
		Type:       catalog.CoffeeType(req.CoffeeType),
		Grade:      catalog.CoffeeGrade(req.Grade),
		Processing: catalog.ProcessingMethod(req.Processing),
		Origin:     req.Origin,
		Specifications: catalog.Specifications{
			MoisturePercent:   req.MoisturePct,
			ScreenSize:        req.ScreenSize,
			DefectRatePercent: req.DefectRatePct,
			CuppingScore:      req.CuppingScore,
		},
		Certifications: req.Certifications,
		Pricing: catalog.Pricing{
			BasePrice:     basePrice,
			Unit:          valueobject.WeightUnit(req.Unit),
			Incoterm:      valueobject.Incoterm(req.Incoterm),
			MinimumOrder:  req.MinimumOrder,
			DiscountTiers: toDomainTiers(req.DiscountTiers),
			ValidUntil:    req.PriceValidTo,
		},
		Availability: catalog.Availability{
			InStock:        req.StockQuantity.IsPositive(),
			StockQuantity:  req.StockQuantity,
			AvailableFrom:  req.AvailableFrom,
			AvailableUntil: req.AvailableUntil,
			LeadTimeDays:   req.LeadTimeDays,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, &product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product, s.clock.Now())
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(*product, s.clock.Now())
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(*product, s.clock.Now())
	return &response, nil
}

// List returns a page of products matching the filter
func (s *ProductService) List(ctx context.Context, req ProductListFilter) (shared.Paginated[ProductResponse], error) {
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
	if req.CoffeeType != "" {
		filter.Filters["type"] = req.CoffeeType
	}
	if req.Grade != "" {
		filter.Filters["grade"] = req.Grade
	}
	if req.InStock != nil {
		filter.Filters["in_stock"] = *req.InStock
	}
	if req.Active != nil {
		filter.Filters["active"] = *req.Active
	}

	page, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	now := s.clock.Now()
	items := make([]ProductResponse, len(page.Items))
	for i, product := range page.Items {
		items[i] = ToProductResponse(product, now)
	}

	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// QuotePrice computes the price for a quantity at an incoterm, alongside
// whether the product could actually fulfill an order of that size.
func (s *ProductService) QuotePrice(ctx context.Context, id uuid.UUID, req PriceQuoteRequest) (*PriceQuoteResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	incoterm := product.Pricing.Incoterm
	if req.Incoterm != "" {
		incoterm = valueobject.Incoterm(req.Incoterm)
	}

	price := product.CalculatePrice(req.Quantity, incoterm)
	return &PriceQuoteResponse{
		ProductID:   product.ID,
		SKU:         product.SKU,
		Quantity:    req.Quantity,
		Unit:        string(product.Pricing.Unit),
		Incoterm:    string(incoterm),
		TotalPrice:  price.Amount(),
		Currency:    string(price.Currency()),
		CanFulfill:  product.CanFulfillOrder(req.Quantity, s.clock.Now()),
		IsSpecialty: product.IsSpecialtyGrade(),
	}, nil
}

// UpdatePricing replaces a product's pricing block
func (s *ProductService) UpdatePricing(ctx context.Context, id uuid.UUID, actor string, req UpdatePricingRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	basePrice, err := valueobject.NewMoney(req.BasePrice, toCurrency(req.Currency))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	updated, err := product.UpdatePricing(catalog.Pricing{
		BasePrice:     basePrice,
		Unit:          valueobject.WeightUnit(req.Unit),
		Incoterm:      valueobject.Incoterm(req.Incoterm),
		MinimumOrder:  req.MinimumOrder,
		DiscountTiers: toDomainTiers(req.DiscountTiers),
		ValidUntil:    req.PriceValidTo,
	}, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToProductResponse(updated, s.clock.Now())
	return &response, nil
}

// UpdateAvailability replaces a product's availability block
func (s *ProductService) UpdateAvailability(ctx context.Context, id uuid.UUID, actor string, req UpdateAvailabilityRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := product.UpdateAvailability(catalog.Availability{
		InStock:        req.InStock,
		StockQuantity:  req.StockQuantity,
		AvailableFrom:  req.AvailableFrom,
		AvailableUntil: req.AvailableUntil,
		LeadTimeDays:   req.LeadTimeDays,
	}, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToProductResponse(updated, s.clock.Now())
	return &response, nil
}

// AdjustStock shifts a product's stock by a signed delta
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, actor string, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := product.AdjustStock(req.Delta, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToProductResponse(updated, s.clock.Now())
	return &response, nil
}

// Deactivate takes a product off the catalog without deleting it
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID, actor string) (*ProductResponse, error) {
	return s.setActive(ctx, id, actor, false)
}

// Activate returns a product to the catalog
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID, actor string) (*ProductResponse, error) {
	return s.setActive(ctx, id, actor, true)
}

func (s *ProductService) setActive(ctx context.Context, id uuid.UUID, actor string, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stamp := shared.NewStamp(s.clock, actor)
	var updated catalog.CoffeeProduct
	if active {
		updated = product.Activate(stamp)
	} else {
		updated = product.Deactivate(stamp)
	}

	if err := s.productRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToProductResponse(updated, s.clock.Now())
	return &response, nil
}
