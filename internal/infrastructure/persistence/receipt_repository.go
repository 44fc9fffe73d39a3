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

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Receipt, error) {
	var receipt payment.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByPayment finds the receipt issued for a payment, if any
func (r *GormReceiptRepository) FindByPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*payment.Receipt, error) {
	var receipt payment.Receipt
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND payment_id = ?", orgID, paymentID).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// NextSequence returns the next receipt sequence number for an organization.
// Receipt issuance runs inside the payment transaction, so the count-based
// sequence is race-free; the unique index on receipt_number backstops it.
func (r *GormReceiptRepository) NextSequence(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.Receipt{}).
		Where("org_id = ?", orgID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count + 1, nil
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *payment.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// ArchiveByProperty archives all receipts for a property
func (r *GormReceiptRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	return r.archiveWhere(ctx, "org_id = ? AND property_id = ? AND status <> ?",
		orgID, propertyID, payment.ReceiptStatusArchived)
}

// ArchiveByTenant archives all receipts for a tenant
func (r *GormReceiptRepository) ArchiveByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	return r.archiveWhere(ctx, "org_id = ? AND tenant_id = ? AND status <> ?",
		orgID, tenantID, payment.ReceiptStatusArchived)
}

// DeleteByProperty hard-deletes all receipts for a property
func (r *GormReceiptRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&payment.Receipt{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByTenant hard-deletes all receipts for a tenant
func (r *GormReceiptRepository) DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND tenant_id = ?", orgID, tenantID).
		Delete(&payment.Receipt{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormReceiptRepository) archiveWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&payment.Receipt{}).
		Where(cond, args...).
		Updates(map[string]interface{}{
			"status":     payment.ReceiptStatusArchived,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ payment.ReceiptRepository = (*GormReceiptRepository)(nil)
