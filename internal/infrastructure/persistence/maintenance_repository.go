package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/maintenance"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMaintenanceRequestRepository implements RequestRepository using GORM
type GormMaintenanceRequestRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRequestRepository creates a new GormMaintenanceRequestRepository
func NewGormMaintenanceRequestRepository(db *gorm.DB) *GormMaintenanceRequestRepository {
	return &GormMaintenanceRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormMaintenanceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*maintenance.Request, error) {
	var req maintenance.Request
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByProperty finds requests for a property
func (r *GormMaintenanceRequestRepository) FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID, filter shared.Filter) ([]maintenance.Request, error) {
	var reqs []maintenance.Request
	query := r.db.WithContext(ctx).Model(&maintenance.Request{}).
		Where("org_id = ? AND property_id = ?", orgID, propertyID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "unit_id":
			query = query.Where("unit_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Save creates or updates a request
func (r *GormMaintenanceRequestRepository) Save(ctx context.Context, req *maintenance.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// CancelOpenByProperty cancels open and in-progress requests for a property
func (r *GormMaintenanceRequestRepository) CancelOpenByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	return r.cancelWhere(ctx, "org_id = ? AND property_id = ? AND status IN ?",
		orgID, propertyID, openRequestStatuses())
}

// CancelOpenByTenant cancels open and in-progress requests raised by a tenant
func (r *GormMaintenanceRequestRepository) CancelOpenByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	return r.cancelWhere(ctx, "org_id = ? AND tenant_id = ? AND status IN ?",
		orgID, tenantID, openRequestStatuses())
}

// DeleteByTenant hard-deletes requests raised by a tenant
func (r *GormMaintenanceRequestRepository) DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND tenant_id = ?", orgID, tenantID).
		Delete(&maintenance.Request{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByProperty hard-deletes requests for a property
func (r *GormMaintenanceRequestRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&maintenance.Request{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormMaintenanceRequestRepository) cancelWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&maintenance.Request{}).
		Where(cond, args...).
		Updates(map[string]interface{}{
			"status":     maintenance.RequestStatusCancelled,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func openRequestStatuses() []maintenance.RequestStatus {
	return []maintenance.RequestStatus{
		maintenance.RequestStatusOpen,
		maintenance.RequestStatusInProgress,
	}
}

// GormApprovalRepository implements ApprovalRepository using GORM
type GormApprovalRepository struct {
	db *gorm.DB
}

// NewGormApprovalRepository creates a new GormApprovalRepository
func NewGormApprovalRepository(db *gorm.DB) *GormApprovalRepository {
	return &GormApprovalRepository{db: db}
}

// FindByID finds an approval by its ID
func (r *GormApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*maintenance.Approval, error) {
	var approval maintenance.Approval
	if err := r.db.WithContext(ctx).First(&approval, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &approval, nil
}

// Save creates or updates an approval
func (r *GormApprovalRepository) Save(ctx context.Context, a *maintenance.Approval) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// CancelPendingByTenant cancels pending approvals attached to a tenant
func (r *GormApprovalRepository) CancelPendingByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	return r.cancelWhere(ctx, "org_id = ? AND tenant_id = ? AND status = ?",
		orgID, tenantID, maintenance.ApprovalStatusPending)
}

// CancelPendingByProperty cancels pending approvals attached to a property
func (r *GormApprovalRepository) CancelPendingByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	return r.cancelWhere(ctx, "org_id = ? AND property_id = ? AND status = ?",
		orgID, propertyID, maintenance.ApprovalStatusPending)
}

// DeleteByTenant hard-deletes approvals attached to a tenant
func (r *GormApprovalRepository) DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND tenant_id = ?", orgID, tenantID).
		Delete(&maintenance.Approval{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByProperty hard-deletes approvals attached to a property
func (r *GormApprovalRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&maintenance.Approval{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormApprovalRepository) cancelWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&maintenance.Approval{}).
		Where(cond, args...).
		Updates(map[string]interface{}{
			"status":     maintenance.ApprovalStatusCancelled,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure the repositories implement their interfaces
var (
	_ maintenance.RequestRepository  = (*GormMaintenanceRequestRepository)(nil)
	_ maintenance.ApprovalRepository = (*GormApprovalRepository)(nil)
)
