package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Expense, error) {
	var expense payment.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// FindByProperty finds expenses for a property
func (r *GormExpenseRepository) FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID, filter shared.Filter) ([]payment.Expense, error) {
	var expenses []payment.Expense
	query := r.db.WithContext(ctx).Model(&payment.Expense{}).
		Where("org_id = ? AND property_id = ?", orgID, propertyID)

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("incurred_at DESC")

	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Create inserts a new expense
func (r *GormExpenseRepository) Create(ctx context.Context, e *payment.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ArchiveByProperty archives all expenses for a property
func (r *GormExpenseRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&payment.Expense{}).
		Where("org_id = ? AND property_id = ? AND status <> ?", orgID, propertyID, payment.ExpenseStatusArchived).
		Updates(map[string]interface{}{
			"status":     payment.ExpenseStatusArchived,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByProperty hard-deletes all expenses for a property
func (r *GormExpenseRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&payment.Expense{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormExpenseRepository implements ExpenseRepository
var _ payment.ExpenseRepository = (*GormExpenseRepository)(nil)
