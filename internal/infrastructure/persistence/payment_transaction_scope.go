package persistence

import (
	"context"

	apppayment "github.com/propdesk/backend/internal/application/payment"
	"github.com/propdesk/backend/internal/domain/audit"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/property"
	"gorm.io/gorm"
)

// GormPaymentTransactionScope implements TransactionScope using GORM
// transactions. The whole payment consistency chain commits or rolls back as
// one unit.
type GormPaymentTransactionScope struct {
	db *gorm.DB
}

// NewGormPaymentTransactionScope creates a new GormPaymentTransactionScope
func NewGormPaymentTransactionScope(db *gorm.DB) *GormPaymentTransactionScope {
	return &GormPaymentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormPaymentTransactionScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormPaymentTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormPaymentTransactionalRepositories provides access to the payment chain
// repositories within a transaction.
type gormPaymentTransactionalRepositories struct {
	tx *gorm.DB
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormPaymentTransactionalRepositories) PaymentRepo() payment.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// ReceiptRepo returns the receipt repository scoped to the current transaction
func (r *gormPaymentTransactionalRepositories) ReceiptRepo() payment.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

// TenantRepo returns the tenant repository scoped to the current transaction
func (r *gormPaymentTransactionalRepositories) TenantRepo() leasing.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

// ReminderRepo returns the reminder repository scoped to the current transaction
func (r *gormPaymentTransactionalRepositories) ReminderRepo() leasing.ReminderRepository {
	return NewGormReminderRepository(r.tx)
}

// PropertyRepo returns the property repository scoped to the current transaction
func (r *gormPaymentTransactionalRepositories) PropertyRepo() property.PropertyRepository {
	return NewGormPropertyRepository(r.tx)
}

// AuditRepo returns the audit-log sink scoped to the current transaction
func (r *gormPaymentTransactionalRepositories) AuditRepo() audit.EntryRepository {
	return NewGormAuditRepository(r.tx)
}

// Ensure GormPaymentTransactionScope implements TransactionScope
var _ apppayment.TransactionScope = (*GormPaymentTransactionScope)(nil)

// Ensure gormPaymentTransactionalRepositories implements TransactionalRepositories
var _ apppayment.TransactionalRepositories = (*gormPaymentTransactionalRepositories)(nil)
