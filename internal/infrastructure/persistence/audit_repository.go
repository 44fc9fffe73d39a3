package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/audit"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditRepository implements EntryRepository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create appends an audit entry
func (r *GormAuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// FindByResource finds entries for a resource, newest first
func (r *GormAuditRepository) FindByResource(ctx context.Context, orgID uuid.UUID, resource string, resourceID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry
	query := r.db.WithContext(ctx).Model(&audit.Entry{}).
		Where("org_id = ? AND resource = ? AND resource_id = ?", orgID, resource, resourceID)

	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("timestamp DESC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByResourceID hard-deletes entries referencing a resource
func (r *GormAuditRepository) DeleteByResourceID(ctx context.Context, orgID, resourceID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND resource_id = ?", orgID, resourceID).
		Delete(&audit.Entry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormAuditRepository implements EntryRepository
var _ audit.EntryRepository = (*GormAuditRepository)(nil)
