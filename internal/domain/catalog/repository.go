package catalog

import (
	"context"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CoffeeProductRepository defines the persistence contract for coffee products
type CoffeeProductRepository interface {
	// FindByID finds a product by ID; shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*CoffeeProduct, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*CoffeeProduct, error)

	// FindAll finds products matching the filter (status/type/text/sort)
	FindAll(ctx context.Context, filter shared.Filter) ([]CoffeeProduct, error)

	// Search returns a paginated result for the filter
	Search(ctx context.Context, filter shared.Filter) (shared.Paginated[CoffeeProduct], error)

	// Save creates or updates a product
	Save(ctx context.Context, product *CoffeeProduct) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, product *CoffeeProduct) error

	// Delete removes a product record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks whether a SKU is already taken
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}

// BusinessServiceRepository defines the persistence contract for business services
type BusinessServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessService, error)
	FindByCode(ctx context.Context, code string) (*BusinessService, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BusinessService, error)
	Search(ctx context.Context, filter shared.Filter) (shared.Paginated[BusinessService], error)
	Save(ctx context.Context, service *BusinessService) error
	SaveWithLock(ctx context.Context, service *BusinessService) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
