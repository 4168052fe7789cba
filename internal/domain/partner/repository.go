package partner

import (
	"context"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientCompanyRepository defines the persistence contract for client companies
type ClientCompanyRepository interface {
	// FindByID finds a company by ID; shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*ClientCompany, error)

	// FindByRegistrationNumber finds a company by its registration number
	FindByRegistrationNumber(ctx context.Context, number string) (*ClientCompany, error)

	// FindAll finds companies matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ClientCompany, error)

	// Search returns a paginated result for the filter
	// (status/relationship/risk/country/text/sort)
	Search(ctx context.Context, filter shared.Filter) (shared.Paginated[ClientCompany], error)

	// FindNeedingFollowUp finds companies whose follow-up date has passed
	FindNeedingFollowUp(ctx context.Context) ([]ClientCompany, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *ClientCompany) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, company *ClientCompany) error

	// Delete removes a company record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts companies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
