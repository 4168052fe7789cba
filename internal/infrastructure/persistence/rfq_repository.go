package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRFQRepository implements RFQRepository using GORM
type GormRFQRepository struct {
	db *gorm.DB
}

// NewGormRFQRepository creates a new GormRFQRepository
func NewGormRFQRepository(db *gorm.DB) *GormRFQRepository {
	return &GormRFQRepository{db: db}
}

// FindByID finds an inquiry by its ID
func (r *GormRFQRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.RFQ, error) {
	var model models.RFQModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	rfq, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

// FindByNumber finds an inquiry by its RFQ number
func (r *GormRFQRepository) FindByNumber(ctx context.Context, number string) (*quote.RFQ, error) {
	var model models.RFQModel
	if err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	rfq, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

// FindByCompany finds the inquiries linked to a client company
func (r *GormRFQRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]quote.RFQ, error) {
	var rows []models.RFQModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("submitted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rfqsToDomain(rows)
}

// FindExpiring finds active inquiries whose deadline falls before the cutoff
func (r *GormRFQRepository) FindExpiring(ctx context.Context, before time.Time) ([]quote.RFQ, error) {
	var rows []models.RFQModel
	if err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Where("status NOT IN ?", []quote.RFQStatus{
			quote.RFQStatusAccepted, quote.RFQStatusRejected, quote.RFQStatusExpired,
		}).
		Order("expires_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rfqsToDomain(rows)
}

// FindAll finds all inquiries matching the filter
func (r *GormRFQRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.RFQ, error) {
	var rows []models.RFQModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RFQModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rfqsToDomain(rows)
}

// Search returns a paginated result for the filter
func (r *GormRFQRepository) Search(ctx context.Context, filter shared.Filter) (shared.Paginated[quote.RFQ], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[quote.RFQ]{}, err
	}

	rfqs, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[quote.RFQ]{}, err
	}

	return shared.NewPaginated(rfqs, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates an inquiry
func (r *GormRFQRepository) Save(ctx context.Context, rfq *quote.RFQ) error {
	var model models.RFQModel
	if err := model.FromDomain(*rfq); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormRFQRepository) SaveWithLock(ctx context.Context, rfq *quote.RFQ) error {
	var model models.RFQModel
	if err := model.FromDomain(*rfq); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.RFQModel{}).
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

// Delete deletes an inquiry
func (r *GormRFQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RFQModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts inquiries matching the filter
func (r *GormRFQRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.RFQModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if an inquiry with the given number exists
func (r *GormRFQRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RFQModel{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormRFQRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RFQSortFields, "submitted_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRFQRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR assigned_to ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "coffee_type":
			query = query.Where("coffee_type = ?", value)
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "submitted_after":
			query = query.Where("submitted_at >= ?", value)
		case "submitted_before":
			query = query.Where("submitted_at <= ?", value)
		}
	}

	return query
}

func rfqsToDomain(rows []models.RFQModel) ([]quote.RFQ, error) {
	rfqs := make([]quote.RFQ, 0, len(rows))
	for i := range rows {
		rfq, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		rfqs = append(rfqs, rfq)
	}
	return rfqs, nil
}

// Ensure GormRFQRepository implements RFQRepository
var _ quote.RFQRepository = (*GormRFQRepository)(nil)
