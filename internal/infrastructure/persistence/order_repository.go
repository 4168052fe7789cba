package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/beanport/backend/internal/domain/fulfillment"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its order number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCompany finds the orders placed by a client company
func (r *GormOrderRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]fulfillment.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ordersToDomain(rows)
}

// FindOverdue finds active orders whose requested delivery date has passed
func (r *GormOrderRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]fulfillment.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("requested_delivery_date IS NOT NULL AND requested_delivery_date < ?", asOf).
		Where("status NOT IN ?", []fulfillment.OrderStatus{
			fulfillment.OrderStatusCompleted, fulfillment.OrderStatusCancelled,
		}).
		Order("requested_delivery_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ordersToDomain(rows)
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return ordersToDomain(rows)
}

// Search returns a paginated result for the filter
func (r *GormOrderRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[fulfillment.Order], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[fulfillment.Order]{}, err
	}

	orders, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[fulfillment.Order]{}, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	var model models.OrderModel
	if err := model.FromDomain(*order); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *fulfillment.Order) error {
	var model models.OrderModel
	if err := model.FromDomain(*order); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
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

// Delete deletes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if an order with the given number exists
func (r *GormOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "rfq_id":
			query = query.Where("rfq_id = ?", value)
		case "created_after":
			query = query.Where("created_at >= ?", value)
		case "created_before":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

func ordersToDomain(rows []models.OrderModel) ([]fulfillment.Order, error) {
	orders := make([]fulfillment.Order, 0, len(rows))
	for i := range rows {
		order, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ fulfillment.OrderRepository = (*GormOrderRepository)(nil)
