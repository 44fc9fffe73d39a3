package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Tenant, error) {
	var tenant leasing.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindByIDForOrg finds a tenant by ID within an organization
func (r *GormTenantRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*leasing.Tenant, error) {
	var tenant leasing.Tenant
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindAllForOrg finds all tenants for an organization
func (r *GormTenantRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]leasing.Tenant, error) {
	var tenants []leasing.Tenant
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&leasing.Tenant{}).
			Where("org_id = ?", orgID),
		filter,
	)

	if err := query.Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// FindByProperty finds all tenants attached to a property
func (r *GormTenantRepository) FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID) ([]leasing.Tenant, error) {
	var tenants []leasing.Tenant
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Order("created_at DESC").
		Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// FindActiveByUnit finds the active or late tenant holding a unit, if any
func (r *GormTenantRepository) FindActiveByUnit(ctx context.Context, orgID, unitID uuid.UUID) (*leasing.Tenant, error) {
	var tenant leasing.Tenant
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND unit_id = ? AND status IN ?", orgID, unitID,
			[]leasing.TenantStatus{leasing.TenantStatusActive, leasing.TenantStatusLate}).
		First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// CountActiveByProperty counts tenants in ACTIVE or LATE status for a property
func (r *GormTenantRepository) CountActiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&leasing.Tenant{}).
		Where("org_id = ? AND property_id = ? AND status IN ?", orgID, propertyID,
			[]leasing.TenantStatus{leasing.TenantStatusActive, leasing.TenantStatusLate}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctActiveOrgIDs lists the organizations that currently have active
// or late tenants. Used by the overdue sweeper to scope its passes.
func (r *GormTenantRepository) DistinctActiveOrgIDs(ctx context.Context) ([]uuid.UUID, error) {
	var orgIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&leasing.Tenant{}).
		Distinct("org_id").
		Where("status IN ?", []leasing.TenantStatus{leasing.TenantStatusActive, leasing.TenantStatusLate}).
		Pluck("org_id", &orgIDs).Error; err != nil {
		return nil, err
	}
	return orgIDs, nil
}

// FindActiveWithoutPaymentSince returns active tenants whose most recent paid
// payment predates the cutoff, including tenants with no payments at all.
func (r *GormTenantRepository) FindActiveWithoutPaymentSince(ctx context.Context, orgID uuid.UUID, cutoff time.Time) ([]leasing.Tenant, error) {
	var tenants []leasing.Tenant
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgID, leasing.TenantStatusActive).
		Where(
			"NOT EXISTS (SELECT 1 FROM payments WHERE payments.tenant_id = tenants.id AND payments.status = ? AND payments.payment_date >= ?)",
			payment.PaymentStatusPaid, cutoff,
		).
		Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *leasing.Tenant) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete hard-deletes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&leasing.Tenant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ArchiveByProperty archives all tenants of a property
func (r *GormTenantRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&leasing.Tenant{}).
		Where("org_id = ? AND property_id = ? AND status <> ?", orgID, propertyID, leasing.TenantStatusArchived).
		Updates(map[string]interface{}{
			"status":     leasing.TenantStatusArchived,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByProperty hard-deletes all tenants of a property
func (r *GormTenantRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&leasing.Tenant{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// applyFilter applies filter options to the query
func (r *GormTenantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, TenantSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTenantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "unit_id":
			query = query.Where("unit_id = ?", value)
		case "name":
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("full_name ILIKE ?", "%"+strings.TrimSpace(s)+"%")
			}
		case "active_only":
			if value == true {
				query = query.Where("status IN ?",
					[]leasing.TenantStatus{leasing.TenantStatusActive, leasing.TenantStatusLate})
			}
		}
	}

	return query
}

// Ensure GormTenantRepository implements TenantRepository
var _ leasing.TenantRepository = (*GormTenantRepository)(nil)
