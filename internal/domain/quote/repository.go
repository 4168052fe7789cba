package quote

import (
	"context"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RFQRepository defines the persistence contract for inquiries
type RFQRepository interface {
	// FindByID finds an inquiry by ID; shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*RFQ, error)

	// FindByNumber finds an inquiry by its RFQ number
	FindByNumber(ctx context.Context, number string) (*RFQ, error)

	// FindByCompany finds the inquiries linked to a client company
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]RFQ, error)

	// FindExpiring finds active inquiries whose deadline falls before the cutoff
	FindExpiring(ctx context.Context, before time.Time) ([]RFQ, error)

	// FindAll finds inquiries matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]RFQ, error)

	// Search returns a paginated result for the filter
	// (status/priority/company/date-range/text/sort)
	Search(ctx context.Context, filter shared.Filter) (shared.Paginated[RFQ], error)

	// Save creates or updates an inquiry
	Save(ctx context.Context, rfq *RFQ) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, rfq *RFQ) error

	// Delete removes an inquiry record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts inquiries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByNumber checks whether an RFQ number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
