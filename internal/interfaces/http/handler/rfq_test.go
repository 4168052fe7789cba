package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	quoteapp "github.com/beanport/backend/internal/application/quote"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRFQRepository implements quote.RFQRepository for testing
type MockRFQRepository struct {
	mock.Mock
}

func (m *MockRFQRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.RFQ, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindByNumber(ctx context.Context, number string) (*quote.RFQ, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]quote.RFQ, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindExpiring(ctx context.Context, before time.Time) ([]quote.RFQ, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.RFQ, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.RFQ), args.Error(1)
}

func (m *MockRFQRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[quote.RFQ], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[quote.RFQ]), args.Error(1)
}

func (m *MockRFQRepository) Save(ctx context.Context, rfq *quote.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) SaveWithLock(ctx context.Context, rfq *quote.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRFQRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRFQRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

// stubIntakeStore is a canned-answer idempotency store
type stubIntakeStore struct {
	reserved     bool
	reserveCalls []string
	releaseCalls []string
}

func (s *stubIntakeStore) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.reserveCalls = append(s.reserveCalls, key)
	return s.reserved, nil
}

func (s *stubIntakeStore) Release(_ context.Context, key string) error {
	s.releaseCalls = append(s.releaseCalls, key)
	return nil
}

// nopNotifier drops lifecycle events
type nopNotifier struct{}

func (nopNotifier) RFQReceived(context.Context, quote.RFQ) {}
func (nopNotifier) RFQQuoted(context.Context, quote.RFQ)   {}
func (nopNotifier) RFQClosed(context.Context, quote.RFQ)   {}

var rfqTestNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newRFQRouter(repo quote.RFQRepository, intake quoteapp.IdempotencyStore) *gin.Engine {
	svc := quoteapp.NewRFQService(repo, intake, nopNotifier{}, shared.FixedClock{Instant: rfqTestNow}, shared.UUIDGenerator{})
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewRFQHandler(svc).RegisterRoutes(api)
	return engine
}

func submitBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"number":       "RFQ-2025-0042",
		"coffee_type":  "ROBUSTA",
		"grade":        "GRADE_1",
		"quantity":     "40",
		"unit":         "MT",
		"incoterm":     "FOB",
		"company_name": "Hanseatic Roasters GmbH",
	})
	require.NoError(t, err)
	return body
}

func TestRFQHandlerSubmit(t *testing.T) {
	t.Run("creates inquiry and reserves idempotency key", func(t *testing.T) {
		repo := new(MockRFQRepository)
		repo.On("ExistsByNumber", mock.Anything, "RFQ-2025-0042").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*quote.RFQ")).Return(nil)
		intake := &stubIntakeStore{reserved: true}

		engine := newRFQRouter(repo, intake)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/rfqs", bytes.NewReader(submitBody(t)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "intake-key-118")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, []string{"intake-key-118"}, intake.reserveCalls)

		var resp struct {
			Success bool                 `json:"success"`
			Data    quoteapp.RFQResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "RFQ-2025-0042", resp.Data.Number)
		assert.Equal(t, "PENDING", resp.Data.Status)
		repo.AssertExpectations(t)
	})

	t.Run("replayed idempotency key returns conflict", func(t *testing.T) {
		repo := new(MockRFQRepository)
		intake := &stubIntakeStore{reserved: false}

		engine := newRFQRouter(repo, intake)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/rfqs", bytes.NewReader(submitBody(t)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "intake-key-118")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_DUPLICATE_SUBMISSION")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate number returns conflict and releases the key", func(t *testing.T) {
		repo := new(MockRFQRepository)
		repo.On("ExistsByNumber", mock.Anything, "RFQ-2025-0042").Return(true, nil)
		intake := &stubIntakeStore{reserved: true}

		engine := newRFQRouter(repo, intake)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/rfqs", bytes.NewReader(submitBody(t)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "intake-key-118")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_ALREADY_EXISTS")
		assert.Equal(t, []string{"intake-key-118"}, intake.releaseCalls)
	})

	t.Run("rejects payload missing required fields", func(t *testing.T) {
		repo := new(MockRFQRepository)
		engine := newRFQRouter(repo, &stubIntakeStore{reserved: true})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/rfqs", bytes.NewReader([]byte(`{"number":"RFQ-1"}`)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
		assert.Contains(t, w.Body.String(), "coffee_type")
	})
}

func TestRFQHandlerGetByID(t *testing.T) {
	t.Run("unknown inquiry returns 404", func(t *testing.T) {
		repo := new(MockRFQRepository)
		rfqID := uuid.New()
		repo.On("FindByID", mock.Anything, rfqID).Return(nil, shared.ErrNotFound)

		engine := newRFQRouter(repo, &stubIntakeStore{reserved: true})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quote/rfqs/"+rfqID.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		engine := newRFQRouter(new(MockRFQRepository), &stubIntakeStore{reserved: true})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quote/rfqs/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRFQHandlerList(t *testing.T) {
	repo := new(MockRFQRepository)
	repo.On("Search", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return(shared.NewPaginated([]quote.RFQ{}, 0, 1, 20), nil)

	engine := newRFQRouter(repo, &stubIntakeStore{reserved: true})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quote/rfqs?status=PENDING&priority=high", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Meta    struct {
			Total    int64 `json:"total"`
			Page     int   `json:"page"`
			PageSize int   `json:"page_size"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(0), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
}

func TestRFQHandlerSetEstimate(t *testing.T) {
	repo := new(MockRFQRepository)
	rfqID := uuid.New()
	repo.On("FindByID", mock.Anything, rfqID).Return(nil, shared.ErrNotFound)

	engine := newRFQRouter(repo, &stubIntakeStore{reserved: true})

	body, err := json.Marshal(map[string]any{"estimated_value": decimal.RequireFromString("98000")})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/quote/rfqs/"+rfqID.String()+"/estimate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
