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

// GormCoffeeProductRepository implements CoffeeProductRepository using GORM
type GormCoffeeProductRepository struct {
	db *gorm.DB
}

// NewGormCoffeeProductRepository creates a new GormCoffeeProductRepository
func NewGormCoffeeProductRepository(db *gorm.DB) *GormCoffeeProductRepository {
	return &GormCoffeeProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormCoffeeProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CoffeeProduct, error) {
	var model models.CoffeeProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	product, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU
func (r *GormCoffeeProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.CoffeeProduct, error) {
	var model models.CoffeeProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(sku)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	product, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormCoffeeProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.CoffeeProduct, error) {
	var rows []models.CoffeeProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CoffeeProductModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows)
}

// Search returns a paginated result for the filter
func (r *GormCoffeeProductRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.CoffeeProduct], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.CoffeeProduct]{}, err
	}

	products, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.CoffeeProduct]{}, err
	}

	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a product
func (r *GormCoffeeProductRepository) Save(ctx context.Context, product *catalog.CoffeeProduct) error {
	var model models.CoffeeProductModel
	if err := model.FromDomain(*product); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with an optimistic version check. The record carries the
// already-bumped version, so the row must still hold the previous one.
func (r *GormCoffeeProductRepository) SaveWithLock(ctx context.Context, product *catalog.CoffeeProduct) error {
	var model models.CoffeeProductModel
	if err := model.FromDomain(*product); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.CoffeeProductModel{}).
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

// Delete deletes a product
func (r *GormCoffeeProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CoffeeProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormCoffeeProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CoffeeProductModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks if a product with the given SKU exists
func (r *GormCoffeeProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CoffeeProductModel{}).
		Where("sku = ?", strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCoffeeProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCoffeeProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR origin ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "grade":
			query = query.Where("grade = ?", value)
		case "processing":
			query = query.Where("processing = ?", value)
		case "origin":
			query = query.Where("origin = ?", value)
		case "incoterm":
			query = query.Where("incoterm = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "in_stock":
			query = query.Where("in_stock = ?", value)
		}
	}

	return query
}

func productsToDomain(rows []models.CoffeeProductModel) ([]catalog.CoffeeProduct, error) {
	products := make([]catalog.CoffeeProduct, 0, len(rows))
	for i := range rows {
		product, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// Ensure GormCoffeeProductRepository implements CoffeeProductRepository
var _ catalog.CoffeeProductRepository = (*GormCoffeeProductRepository)(nil)
