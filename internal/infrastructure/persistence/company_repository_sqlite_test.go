package persistence

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
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ClientCompanyModelSQLite mirrors ClientCompanyModel without the
// Postgres-only column types so AutoMigrate works against SQLite
type ClientCompanyModelSQLite struct {
	ID                  uuid.UUID `gorm:"type:text;primaryKey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	UpdatedBy           string
	Version             int `gorm:"not null;default:1"`
	LegalName           string
	TradeName           string
	RegistrationNumber  string `gorm:"uniqueIndex"`
	TaxID               string
	Country             string
	Status              string
	Relationship        string
	Risk                string
	Contacts            string
	Addresses           string
	CreditLimitAmount   decimal.Decimal `gorm:"type:decimal(18,4)"`
	CreditLimitCurrency string
	CreditRating        string
	TotalOrders         int
	TotalValue          decimal.Decimal `gorm:"type:decimal(18,4)"`
	PaymentsOnTime      int
	PaymentsLate        int
	OutstandingAmount   decimal.Decimal `gorm:"type:decimal(18,4)"`
	Documents           string
	FollowUpAt          *time.Time
	Notes               string
}

func (ClientCompanyModelSQLite) TableName() string {
	return "client_companies"
}

func setupCompanyTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&ClientCompanyModelSQLite{}))
	return db
}

func sqliteCompany(t *testing.T) partner.ClientCompany {
	t.Helper()

	creditLimit, err := valueobject.NewMoney(decimal.RequireFromString("250000"), valueobject.EUR)
	require.NoError(t, err)

	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	return partner.ClientCompany{
		RecordMeta: shared.RecordMeta{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
			UpdatedBy: "trader@beanport.example",
			Version:   1,
		},
		LegalName:          "Hanseatic Roasters GmbH",
		TradeName:          "Hanseatic Coffee",
		RegistrationNumber: "HRB-88231",
		Country:            "Germany",
		Status:             partner.CompanyStatusActive,
		Relationship:       partner.RelationshipDeveloping,
		Risk:               partner.RiskLow,
		Contacts: []partner.Contact{
			{Name: "Lena Ortiz", Title: "Head of Sourcing", Email: "lena@hanseatic.example", Primary: true},
		},
		Addresses: []partner.Address{
			{Street: "Speicherstadt 12", City: "Hamburg", Country: "Germany", Primary: true},
		},
		Financial: partner.FinancialInfo{
			CreditLimit:  creditLimit,
			CreditRating: "A-",
		},
		History: partner.TradingHistory{
			TotalOrders:       12,
			TotalValue:        decimal.RequireFromString("480000"),
			PaymentsOnTime:    11,
			PaymentsLate:      1,
			OutstandingAmount: decimal.RequireFromString("35000"),
		},
	}
}

func TestGormClientCompanyRepository_SQLiteRoundTrip(t *testing.T) {
	t.Run("save then find by id restores nested fields", func(t *testing.T) {
		db := setupCompanyTestDB(t)
		repo := NewGormClientCompanyRepository(db)
		company := sqliteCompany(t)

		require.NoError(t, repo.Save(context.Background(), &company))

		found, err := repo.FindByID(context.Background(), company.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hanseatic Roasters GmbH", found.LegalName)
		assert.Equal(t, partner.RelationshipDeveloping, found.Relationship)
		require.Len(t, found.Contacts, 1)
		assert.Equal(t, "Lena Ortiz", found.Contacts[0].Name)
		assert.True(t, found.Contacts[0].Primary)
		require.Len(t, found.Addresses, 1)
		assert.Equal(t, "Hamburg", found.Addresses[0].City)
		assert.True(t, found.Financial.CreditLimit.Amount().Equal(decimal.RequireFromString("250000")))
		assert.Equal(t, valueobject.EUR, found.Financial.CreditLimit.Currency())
		assert.Equal(t, 12, found.History.TotalOrders)
	})

	t.Run("find by registration number", func(t *testing.T) {
		db := setupCompanyTestDB(t)
		repo := NewGormClientCompanyRepository(db)
		company := sqliteCompany(t)

		require.NoError(t, repo.Save(context.Background(), &company))

		found, err := repo.FindByRegistrationNumber(context.Background(), "HRB-88231")
		require.NoError(t, err)
		assert.Equal(t, company.ID, found.ID)

		_, err = repo.FindByRegistrationNumber(context.Background(), "HRB-00000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("optimistic lock rejects stale version", func(t *testing.T) {
		db := setupCompanyTestDB(t)
		repo := NewGormClientCompanyRepository(db)
		company := sqliteCompany(t)

		require.NoError(t, repo.Save(context.Background(), &company))

		fresh := company
		fresh.Version = 2
		fresh.Notes = "credit review done"
		require.NoError(t, repo.SaveWithLock(context.Background(), &fresh))

		stale := company
		stale.Version = 2 // expects stored version 1, but it is now 2
		err := repo.SaveWithLock(context.Background(), &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("follow-up query returns only due companies", func(t *testing.T) {
		db := setupCompanyTestDB(t)
		repo := NewGormClientCompanyRepository(db)

		due := sqliteCompany(t)
		dueAt := time.Now().Add(-24 * time.Hour)
		due.FollowUpAt = &dueAt

		later := sqliteCompany(t)
		later.ID = uuid.New()
		later.RegistrationNumber = "HRB-99999"
		laterAt := time.Now().Add(72 * time.Hour)
		later.FollowUpAt = &laterAt

		require.NoError(t, repo.Save(context.Background(), &due))
		require.NoError(t, repo.Save(context.Background(), &later))

		companies, err := repo.FindNeedingFollowUp(context.Background())
		require.NoError(t, err)
		require.Len(t, companies, 1)
		assert.Equal(t, due.ID, companies[0].ID)
	})
}
