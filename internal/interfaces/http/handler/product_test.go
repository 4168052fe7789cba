package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/beanport/backend/internal/application/catalog"
	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/beanport/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockProductRepository implements catalog.CoffeeProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CoffeeProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CoffeeProduct), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.CoffeeProduct, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CoffeeProduct), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.CoffeeProduct, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CoffeeProduct), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.CoffeeProduct], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[catalog.CoffeeProduct]), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.CoffeeProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.CoffeeProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

var productTestNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newProductRouter(repo catalog.CoffeeProductRepository) *gin.Engine {
	svc := catalogapp.NewProductService(repo, shared.FixedClock{Instant: productTestNow}, shared.UUIDGenerator{})
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewProductHandler(svc).RegisterRoutes(api)
	return engine
}

func catalogProduct(t *testing.T) catalog.CoffeeProduct {
	t.Helper()

	basePrice, err := valueobject.NewMoney(decimal.RequireFromString("2450"), valueobject.USD)
	require.NoError(t, err)

	return catalog.CoffeeProduct{
		RecordMeta: shared.RecordMeta{
			ID:        uuid.New(),
			CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			UpdatedBy: "trader@beanport.example",
			Version:   2,
		},
		SKU:        "ROB-VN-18",
		Name:       "Robusta Dak Lak Screen 18",
		Type:       catalog.CoffeeTypeRobusta,
		Grade:      catalog.Grade1,
		Processing: catalog.ProcessingNatural,
		Origin:     "Dak Lak, Vietnam",
		Pricing: catalog.Pricing{
			BasePrice:    basePrice,
			Unit:         valueobject.UnitMT,
			Incoterm:     valueobject.IncotermFOB,
			MinimumOrder: decimal.RequireFromString("5"),
		},
		Availability: catalog.Availability{
			InStock:       true,
			StockQuantity: decimal.RequireFromString("120"),
		},
		Active: true,
	}
}

func createProductBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"sku":            "ROB-VN-18",
		"name":           "Robusta Dak Lak Screen 18",
		"origin":         "Dak Lak, Vietnam",
		"coffee_type":    "ROBUSTA",
		"grade":          "GRADE_1",
		"processing":     "NATURAL",
		"base_price":     "2450",
		"currency":       "USD",
		"unit":           "MT",
		"incoterm":       "FOB",
		"minimum_order":  "5",
		"stock_quantity": "120",
	})
	require.NoError(t, err)
	return body
}

func TestProductHandlerCreate(t *testing.T) {
	t.Run("creates product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, "ROB-VN-18").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.CoffeeProduct")).Return(nil)

		engine := newProductRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", bytes.NewReader(createProductBody(t)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool                       `json:"success"`
			Data    catalogapp.ProductResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "ROB-VN-18", resp.Data.SKU)
		assert.Equal(t, "ROBUSTA", resp.Data.CoffeeType)
		assert.True(t, resp.Data.InStock)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate SKU returns conflict", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, "ROB-VN-18").Return(true, nil)

		engine := newProductRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", bytes.NewReader(createProductBody(t)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_ALREADY_EXISTS")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing required fields returns bad request", func(t *testing.T) {
		repo := new(MockProductRepository)
		engine := newProductRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", bytes.NewReader([]byte(`{"name":"No SKU"}`)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandlerGet(t *testing.T) {
	t.Run("returns product by id", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := catalogProduct(t)
		repo.On("FindByID", mock.Anything, product.ID).Return(&product, nil)

		engine := newProductRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/"+product.ID.String(), nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ROB-VN-18")
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		engine := newProductRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/"+uuid.NewString(), nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("malformed id returns bad request", func(t *testing.T) {
		repo := new(MockProductRepository)
		engine := newProductRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/not-a-uuid", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandlerList(t *testing.T) {
	repo := new(MockProductRepository)
	product := catalogProduct(t)
	page := shared.NewPaginated([]catalog.CoffeeProduct{product}, 1, 1, 20)
	repo.On("Search", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["type"] == "ROBUSTA"
	})).Return(page, nil)

	engine := newProductRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?coffee_type=ROBUSTA", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                         `json:"success"`
		Data    []catalogapp.ProductResponse `json:"data"`
		Meta    struct {
			Total      int64 `json:"total"`
			Page       int   `json:"page"`
			PageSize   int   `json:"page_size"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}

func TestProductHandlerUpdatePricing(t *testing.T) {
	t.Run("stale version returns conflict", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := catalogProduct(t)
		repo.On("FindByID", mock.Anything, product.ID).Return(&product, nil)
		repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*catalog.CoffeeProduct")).
			Return(shared.ErrConcurrencyConflict)

		engine := newProductRouter(repo)

		body, err := json.Marshal(map[string]any{
			"base_price":    "2520",
			"currency":      "USD",
			"unit":          "MT",
			"incoterm":      "CIF",
			"minimum_order": "5",
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/catalog/products/"+product.ID.String()+"/pricing", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_CONCURRENCY_CONFLICT")
	})
}
