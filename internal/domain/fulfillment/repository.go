package fulfillment

import (
	"context"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence contract for export orders
type OrderRepository interface {
	// FindByID finds an order by ID; shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindByCompany finds the orders placed by a client company
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Order, error)

	// FindOverdue finds active orders whose requested delivery date has passed
	FindOverdue(ctx context.Context, asOf time.Time) ([]Order, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Search returns a paginated result for the filter
	// (status/payment-status/company/date-range/text/sort)
	Search(ctx context.Context, filter shared.Filter) (shared.Paginated[Order], error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, order *Order) error

	// Delete removes an order record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByNumber checks whether an order number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
