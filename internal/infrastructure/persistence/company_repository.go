package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/beanport/backend/internal/domain/partner"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientCompanyRepository implements ClientCompanyRepository using GORM
type GormClientCompanyRepository struct {
	db *gorm.DB
}

// NewGormClientCompanyRepository creates a new GormClientCompanyRepository
func NewGormClientCompanyRepository(db *gorm.DB) *GormClientCompanyRepository {
	return &GormClientCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormClientCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ClientCompany, error) {
	var model models.ClientCompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	company, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindByRegistrationNumber finds a company by its registration number
func (r *GormClientCompanyRepository) FindByRegistrationNumber(ctx context.Context, number string) (*partner.ClientCompany, error) {
	var model models.ClientCompanyModel
	if err := r.db.WithContext(ctx).
		Where("registration_number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	company, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindAll finds all companies matching the filter
func (r *GormClientCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.ClientCompany, error) {
	var rows []models.ClientCompanyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientCompanyModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return companiesToDomain(rows)
}

// Search returns a paginated result for the filter
func (r *GormClientCompanyRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[partner.ClientCompany], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[partner.ClientCompany]{}, err
	}

	companies, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[partner.ClientCompany]{}, err
	}

	return shared.NewPaginated(companies, total, filter.Page, filter.PageSize), nil
}

// FindNeedingFollowUp finds companies whose follow-up date has passed
func (r *GormClientCompanyRepository) FindNeedingFollowUp(ctx context.Context) ([]partner.ClientCompany, error) {
	var rows []models.ClientCompanyModel
	if err := r.db.WithContext(ctx).
		Where("follow_up_at IS NOT NULL AND follow_up_at <= ?", time.Now()).
		Where("status = ?", partner.CompanyStatusActive).
		Order("follow_up_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return companiesToDomain(rows)
}

// Save creates or updates a company
func (r *GormClientCompanyRepository) Save(ctx context.Context, company *partner.ClientCompany) error {
	var model models.ClientCompanyModel
	if err := model.FromDomain(*company); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormClientCompanyRepository) SaveWithLock(ctx context.Context, company *partner.ClientCompany) error {
	var model models.ClientCompanyModel
	if err := model.FromDomain(*company); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.ClientCompanyModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Select("*").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a company
func (r *GormClientCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientCompanyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts companies matching the filter
func (r *GormClientCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ClientCompanyModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormClientCompanyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CompanySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormClientCompanyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("legal_name ILIKE ? OR trade_name ILIKE ? OR registration_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "relationship":
			query = query.Where("relationship = ?", value)
		case "risk":
			query = query.Where("risk = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		case "has_outstanding":
			if value == true {
				query = query.Where("outstanding_amount > 0")
			} else {
				query = query.Where("outstanding_amount = 0")
			}
		}
	}

	return query
}

func companiesToDomain(rows []models.ClientCompanyModel) ([]partner.ClientCompany, error) {
	companies := make([]partner.ClientCompany, 0, len(rows))
	for i := range rows {
		company, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

// Ensure GormClientCompanyRepository implements ClientCompanyRepository
var _ partner.ClientCompanyRepository = (*GormClientCompanyRepository)(nil)
