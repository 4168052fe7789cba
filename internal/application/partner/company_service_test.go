package partner

import (
	"context"
	"testing"
	"time"

	"github.com/beanport/backend/internal/domain/partner"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCompanyRepository is a mock implementation of ClientCompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ClientCompany, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ClientCompany), args.Error(1)
}

func (m *MockCompanyRepository) FindByRegistrationNumber(ctx context.Context, number string) (*partner.ClientCompany, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ClientCompany), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.ClientCompany, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.ClientCompany), args.Error(1)
}

func (m *MockCompanyRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[partner.ClientCompany], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[partner.ClientCompany]), args.Error(1)
}

func (m *MockCompanyRepository) FindNeedingFollowUp(ctx context.Context) ([]partner.ClientCompany, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.ClientCompany), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.ClientCompany) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) SaveWithLock(ctx context.Context, company *partner.ClientCompany) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	testNow   = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	testClock = shared.FixedClock{Instant: testNow}
	testGen   = shared.UUIDGenerator{}
)

func createCompanyRequest() CreateCompanyRequest {
	return CreateCompanyRequest{
		LegalName:          "Hanseatic Roasters GmbH",
		RegistrationNumber: "HRB-88231",
		Country:            "Germany",
		Contacts: []ContactRequest{
			{Name: "J. Weber", Email: "weber@hanseatic.example", Primary: true},
		},
	}
}

func storedCompany(t *testing.T) *partner.ClientCompany {
	t.Helper()
	company, err := partner.NewClientCompany(testGen, shared.Stamp{At: testNow, By: "seed"}, partner.ClientCompanyInput{
		LegalName:          "Hanseatic Roasters GmbH",
		RegistrationNumber: "HRB-88231",
		Country:            "Germany",
		Status:             partner.CompanyStatusActive,
		Relationship:       partner.RelationshipDeveloping,
		Risk:               partner.RiskLow,
		Financial: partner.FinancialInfo{
			CreditLimit: valueobject.NewMoneyUSD(decimal.NewFromInt(100000)),
		},
	})
	require.NoError(t, err)
	return &company
}

// =============================================================================
// Tests
// =============================================================================

func TestCompanyServiceCreate(t *testing.T) {
	t.Run("registers a new prospect", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		service := NewCompanyService(repo, testClock, testGen)

		repo.On("FindByRegistrationNumber", mock.Anything, "HRB-88231").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.ClientCompany")).Return(nil)

		resp, err := service.Create(context.Background(), "sales", createCompanyRequest())
		require.NoError(t, err)
		assert.Equal(t, "prospect", resp.Status)
		assert.Equal(t, "new", resp.Relationship)
		assert.Equal(t, "low", resp.Risk)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate registration number", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		service := NewCompanyService(repo, testClock, testGen)

		repo.On("FindByRegistrationNumber", mock.Anything, "HRB-88231").Return(storedCompany(t), nil)

		_, err := service.Create(context.Background(), "sales", createCompanyRequest())
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_EXISTS", derr.Code)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestCompanyServiceTradingHistory(t *testing.T) {
	t.Run("recording an order moves score and credit exposure", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		service := NewCompanyService(repo, testClock, testGen)

		company := storedCompany(t)
		repo.On("FindByID", mock.Anything, company.ID).Return(company, nil)
		repo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(c *partner.ClientCompany) bool {
			return c.History.TotalOrders == 1 && c.Version == company.Version+1
		})).Return(nil)

		resp, err := service.RecordOrder(context.Background(), company.ID, "sales", RecordOrderRequest{
			Value: decimal.NewFromInt(20000),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalOrders)
		assert.True(t, decimal.NewFromInt(20000).Equal(resp.OutstandingAmount))
		assert.True(t, decimal.NewFromInt(80000).Equal(resp.AvailableCredit))

		// developing base 30 + orders bonus 2 + value bonus 2, no payments yet.
		assert.True(t, decimal.NewFromInt(34).Equal(resp.RelationshipScore), "got %s", resp.RelationshipScore)
		repo.AssertExpectations(t)
	})

	t.Run("payment reduces outstanding", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		service := NewCompanyService(repo, testClock, testGen)

		company := storedCompany(t)
		withOrder, err := company.RecordOrder(decimal.NewFromInt(20000), shared.Stamp{At: testNow, By: "sales"})
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, company.ID).Return(&withOrder, nil)
		repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*partner.ClientCompany")).Return(nil)

		resp, err := service.RecordPayment(context.Background(), company.ID, "finance", RecordPaymentRequest{
			Amount: decimal.NewFromInt(15000),
			OnTime: true,
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5000).Equal(resp.OutstandingAmount))
		assert.Equal(t, 1, resp.PaymentsOnTime)
	})
}

func TestCompanyServiceStatus(t *testing.T) {
	t.Run("suspend then reactivate", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		service := NewCompanyService(repo, testClock, testGen)

		company := storedCompany(t)
		repo.On("FindByID", mock.Anything, company.ID).Return(company, nil)
		repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*partner.ClientCompany")).Return(nil)

		resp, err := service.UpdateStatus(context.Background(), company.ID, "compliance", UpdateCompanyStatusRequest{Status: "suspended"})
		require.NoError(t, err)
		assert.Equal(t, "suspended", resp.Status)
	})

	t.Run("blacklisted company cannot be restored", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		service := NewCompanyService(repo, testClock, testGen)

		company := storedCompany(t)
		blacklisted, err := company.UpdateStatus(partner.CompanyStatusBlacklisted, shared.Stamp{At: testNow, By: "compliance"})
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, company.ID).Return(&blacklisted, nil)

		_, err = service.UpdateStatus(context.Background(), company.ID, "sales", UpdateCompanyStatusRequest{Status: "active"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestCompanyServiceDocuments(t *testing.T) {
	repo := new(MockCompanyRepository)
	service := NewCompanyService(repo, testClock, testGen)

	company := storedCompany(t)
	repo.On("FindByID", mock.Anything, company.ID).Return(company, nil)
	repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*partner.ClientCompany")).Return(nil)

	resp, err := service.AddDocument(context.Background(), company.ID, "compliance", DocumentRequest{
		Type:      "import_license",
		Reference: "IL-2025-889",
	})
	require.NoError(t, err)
	assert.False(t, resp.HasValidDocuments)

	// Verification flows through a fresh read of the saved record in real use;
	// here the mock still serves the original, so verify against a chained value.
	withDoc, err := company.AddDocument(partner.Document{Type: "import_license"}, shared.Stamp{At: testNow, By: "compliance"})
	require.NoError(t, err)
	verified, err := withDoc.VerifyDocument(0, shared.Stamp{At: testNow, By: "compliance"})
	require.NoError(t, err)
	assert.True(t, verified.HasValidDocuments(testNow))
}
