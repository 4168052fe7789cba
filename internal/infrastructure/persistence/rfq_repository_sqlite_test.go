package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RFQModelSQLite mirrors RFQModel without the Postgres-only column types
// so AutoMigrate works against SQLite
type RFQModelSQLite struct {
	ID             uuid.UUID `gorm:"type:text;primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UpdatedBy      string
	Version        int    `gorm:"not null;default:1"`
	Number         string `gorm:"uniqueIndex"`
	Status         string `gorm:"index"`
	Priority       string
	CoffeeType     string `gorm:"index"`
	Product        string
	Delivery       string
	Payment        string
	CompanyID      *uuid.UUID `gorm:"type:text"`
	Company        string
	Recurrence     string
	AssignedTo     string
	EstimatedValue *decimal.Decimal `gorm:"type:decimal(18,4)"`
	SubmittedAt    time.Time
	LastActivityAt time.Time
	ExpiresAt      *time.Time
	QuoteSentAt    *time.Time
	FollowUpAt     *time.Time
	Communications string
}

func (RFQModelSQLite) TableName() string {
	return "rfqs"
}

func setupRFQTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&RFQModelSQLite{}))
	return db
}

func sqliteRFQ(t *testing.T, number string, coffeeType catalog.CoffeeType) quote.RFQ {
	t.Helper()

	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return quote.RFQ{
		RecordMeta: shared.RecordMeta{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
			UpdatedBy: "trader@beanport.example",
			Version:   1,
		},
		Number:   number,
		Status:   quote.RFQStatusPending,
		Priority: quote.PriorityMedium,
		Product: quote.ProductRequirement{
			CoffeeType: coffeeType,
			Grade:      catalog.Grade1,
			Quantity:   decimal.RequireFromString("40"),
			Unit:       valueobject.UnitMT,
		},
		Delivery: quote.DeliveryRequirement{
			DestinationPort: "Hamburg",
			Country:         "Germany",
			Incoterm:        valueobject.IncotermFOB,
		},
		Company: quote.CompanySnapshot{
			Name:    "Hanseatic Roasters GmbH",
			Country: "Germany",
		},
		Recurrence:     quote.RecurrenceNone,
		SubmittedAt:    now,
		LastActivityAt: now,
	}
}

func TestGormRFQRepository_SQLiteSearch(t *testing.T) {
	t.Run("coffee type filter narrows results", func(t *testing.T) {
		db := setupRFQTestDB(t)
		repo := NewGormRFQRepository(db)

		arabica := sqliteRFQ(t, "RFQ-2025-0051", catalog.CoffeeTypeArabica)
		robusta := sqliteRFQ(t, "RFQ-2025-0052", catalog.CoffeeTypeRobusta)
		require.NoError(t, repo.Save(context.Background(), &arabica))
		require.NoError(t, repo.Save(context.Background(), &robusta))

		filter := shared.DefaultFilter()
		filter.Filters["coffee_type"] = "ARABICA"

		page, err := repo.Search(context.Background(), filter)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, "RFQ-2025-0051", page.Items[0].Number)
		assert.Equal(t, catalog.CoffeeTypeArabica, page.Items[0].Product.CoffeeType)
	})

	t.Run("save then find restores the product requirement", func(t *testing.T) {
		db := setupRFQTestDB(t)
		repo := NewGormRFQRepository(db)

		rfq := sqliteRFQ(t, "RFQ-2025-0053", catalog.CoffeeTypeRobusta)
		require.NoError(t, repo.Save(context.Background(), &rfq))

		found, err := repo.FindByID(context.Background(), rfq.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.CoffeeTypeRobusta, found.Product.CoffeeType)
		assert.True(t, found.Product.Quantity.Equal(decimal.RequireFromString("40")))
		assert.Equal(t, "Hamburg", found.Delivery.DestinationPort)
	})
}
