package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReminderRepository implements ReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// FindByID finds a reminder by its ID
func (r *GormReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Reminder, error) {
	var reminder leasing.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reminder, nil
}

// FindActiveByTenant finds active reminders for a tenant
func (r *GormReminderRepository) FindActiveByTenant(ctx context.Context, orgID, tenantID uuid.UUID) ([]leasing.Reminder, error) {
	var reminders []leasing.Reminder
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND tenant_id = ? AND status = ?", orgID, tenantID, leasing.ReminderStatusActive).
		Order("next_run_at ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// Save creates or updates a reminder
func (r *GormReminderRepository) Save(ctx context.Context, reminder *leasing.Reminder) error {
	return r.db.WithContext(ctx).Save(reminder).Error
}

// CompleteDueRentReminders marks active rent reminders due at or before the
// given time as completed
func (r *GormReminderRepository) CompleteDueRentReminders(ctx context.Context, orgID, tenantID uuid.UUID, dueBy time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&leasing.Reminder{}).
		Where("org_id = ? AND tenant_id = ? AND kind = ? AND status = ? AND next_run_at <= ?",
			orgID, tenantID, leasing.ReminderKindRent, leasing.ReminderStatusActive, dueBy).
		Updates(map[string]interface{}{
			"status":     leasing.ReminderStatusCompleted,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CancelByTenant cancels all active reminders for a tenant
func (r *GormReminderRepository) CancelByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	return r.cancelWhere(ctx, "org_id = ? AND tenant_id = ? AND status = ?",
		orgID, tenantID, leasing.ReminderStatusActive)
}

// CancelByProperty cancels all active reminders for a property
func (r *GormReminderRepository) CancelByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	return r.cancelWhere(ctx, "org_id = ? AND property_id = ? AND status = ?",
		orgID, propertyID, leasing.ReminderStatusActive)
}

// DeleteByTenant hard-deletes all reminders for a tenant
func (r *GormReminderRepository) DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND tenant_id = ?", orgID, tenantID).
		Delete(&leasing.Reminder{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByProperty hard-deletes all reminders for a property
func (r *GormReminderRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&leasing.Reminder{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormReminderRepository) cancelWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&leasing.Reminder{}).
		Where(cond, args...).
		Updates(map[string]interface{}{
			"status":     leasing.ReminderStatusCancelled,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormReminderRepository implements ReminderRepository
var _ leasing.ReminderRepository = (*GormReminderRepository)(nil)
