package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBusinessServiceRepository implements BusinessServiceRepository using GORM
type GormBusinessServiceRepository struct {
	db *gorm.DB
}

// NewGormBusinessServiceRepository creates a new GormBusinessServiceRepository
func NewGormBusinessServiceRepository(db *gorm.DB) *GormBusinessServiceRepository {
	return &GormBusinessServiceRepository{db: db}
}

// FindByID finds a service by its ID
func (r *GormBusinessServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.BusinessService, error) {
	var model models.BusinessServiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	service, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// FindByCode finds a service by its code
func (r *GormBusinessServiceRepository) FindByCode(ctx context.Context, code string) (*catalog.BusinessService, error) {
	var model models.BusinessServiceModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	service, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// FindAll finds all services matching the filter
func (r *GormBusinessServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.BusinessService, error) {
	var rows []models.BusinessServiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BusinessServiceModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	services := make([]catalog.BusinessService, 0, len(rows))
	for i := range rows {
		service, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, nil
}

// Search returns a paginated result for the filter
func (r *GormBusinessServiceRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.BusinessService], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.BusinessService]{}, err
	}

	services, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.BusinessService]{}, err
	}

	return shared.NewPaginated(services, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a service
func (r *GormBusinessServiceRepository) Save(ctx context.Context, service *catalog.BusinessService) error {
	var model models.BusinessServiceModel
	if err := model.FromDomain(*service); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormBusinessServiceRepository) SaveWithLock(ctx context.Context, service *catalog.BusinessService) error {
	var model models.BusinessServiceModel
	if err := model.FromDomain(*service); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.BusinessServiceModel{}).
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

// Delete deletes a service
func (r *GormBusinessServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BusinessServiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts services matching the filter
func (r *GormBusinessServiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.BusinessServiceModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBusinessServiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ServiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBusinessServiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "pricing_model":
			query = query.Where("pricing_model = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormBusinessServiceRepository implements BusinessServiceRepository
var _ catalog.BusinessServiceRepository = (*GormBusinessServiceRepository)(nil)
