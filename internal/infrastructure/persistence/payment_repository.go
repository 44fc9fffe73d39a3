package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDForOrg finds a payment by ID within an organization
func (r *GormPaymentRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByTenant finds payments for a tenant
func (r *GormPaymentRepository) FindByTenant(ctx context.Context, orgID, tenantID uuid.UUID, filter shared.Filter) ([]payment.Payment, error) {
	var payments []payment.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&payment.Payment{}).
			Where("org_id = ? AND tenant_id = ?", orgID, tenantID),
		filter,
	)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ExistsPaidForRentMonth checks whether a PAID payment already covers the
// tenant's rent month
func (r *GormPaymentRepository) ExistsPaidForRentMonth(ctx context.Context, orgID, tenantID uuid.UUID, rentMonth string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("org_id = ? AND tenant_id = ? AND rent_month = ? AND status = ?",
			orgID, tenantID, rentMonth, payment.PaymentStatusPaid).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPaidSince checks whether the tenant has any PAID payment dated at or
// after the cutoff
func (r *GormPaymentRepository) HasPaidSince(ctx context.Context, orgID, tenantID uuid.UUID, cutoff time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("org_id = ? AND tenant_id = ? AND status = ? AND payment_date >= ?",
			orgID, tenantID, payment.PaymentStatusPaid, cutoff).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new payment. A violation of the partial unique index on
// (tenant_id, rent_month) WHERE status = 'PAID' surfaces as
// ErrDuplicateRentMonth so callers can report the conflict cleanly.
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicateRentMonth
		}
		return err
	}
	return nil
}

// Save updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicateRentMonth
		}
		return err
	}
	return nil
}

// ArchiveByProperty archives all payments for a property
func (r *GormPaymentRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	return r.archiveWhere(ctx, "org_id = ? AND property_id = ? AND status <> ?",
		orgID, propertyID, payment.PaymentStatusArchived)
}

// ArchiveByTenant archives all payments for a tenant
func (r *GormPaymentRepository) ArchiveByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	return r.archiveWhere(ctx, "org_id = ? AND tenant_id = ? AND status <> ?",
		orgID, tenantID, payment.PaymentStatusArchived)
}

// DeleteByProperty hard-deletes all payments for a property
func (r *GormPaymentRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&payment.Payment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByTenant hard-deletes all payments for a tenant
func (r *GormPaymentRepository) DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND tenant_id = ?", orgID, tenantID).
		Delete(&payment.Payment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormPaymentRepository) archiveWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where(cond, args...).
		Updates(map[string]interface{}{
			"status":     payment.PaymentStatusArchived,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "rent_month":
			query = query.Where("rent_month = ?", value)
		case "from":
			query = query.Where("payment_date >= ?", value)
		case "to":
			query = query.Where("payment_date <= ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, PaymentSortFields, "payment_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("payment_date DESC")
	}

	return query
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)
