package payment

import (
	"context"

	"github.com/propdesk/backend/internal/domain/audit"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/property"
)

// TransactionScope provides transactional access to the repositories touched
// by the payment consistency chain. Everything executed within a scope is
// committed or rolled back as one unit, the payment row included.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories of the
// payment chain, all sharing the same underlying transaction.
type TransactionalRepositories interface {
	// PaymentRepo returns the payment repository scoped to the transaction
	PaymentRepo() payment.PaymentRepository
	// ReceiptRepo returns the receipt repository scoped to the transaction
	ReceiptRepo() payment.ReceiptRepository
	// TenantRepo returns the tenant repository scoped to the transaction
	TenantRepo() leasing.TenantRepository
	// ReminderRepo returns the reminder repository scoped to the transaction
	ReminderRepo() leasing.ReminderRepository
	// PropertyRepo returns the property repository scoped to the transaction
	PropertyRepo() property.PropertyRepository
	// AuditRepo returns the audit-log sink scoped to the transaction
	AuditRepo() audit.EntryRepository
}

// NoOpTransactionScope runs the chain against plain repositories without a
// real transaction. Useful for tests.
type NoOpTransactionScope struct {
	paymentRepo  payment.PaymentRepository
	receiptRepo  payment.ReceiptRepository
	tenantRepo   leasing.TenantRepository
	reminderRepo leasing.ReminderRepository
	propertyRepo property.PropertyRepository
	auditRepo    audit.EntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	paymentRepo payment.PaymentRepository,
	receiptRepo payment.ReceiptRepository,
	tenantRepo leasing.TenantRepository,
	reminderRepo leasing.ReminderRepository,
	propertyRepo property.PropertyRepository,
	auditRepo audit.EntryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		paymentRepo:  paymentRepo,
		receiptRepo:  receiptRepo,
		tenantRepo:   tenantRepo,
		reminderRepo: reminderRepo,
		propertyRepo: propertyRepo,
		auditRepo:    auditRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() payment.PaymentRepository {
	return s.paymentRepo
}

// ReceiptRepo returns the receipt repository
func (s *NoOpTransactionScope) ReceiptRepo() payment.ReceiptRepository {
	return s.receiptRepo
}

// TenantRepo returns the tenant repository
func (s *NoOpTransactionScope) TenantRepo() leasing.TenantRepository {
	return s.tenantRepo
}

// ReminderRepo returns the reminder repository
func (s *NoOpTransactionScope) ReminderRepo() leasing.ReminderRepository {
	return s.reminderRepo
}

// PropertyRepo returns the property repository
func (s *NoOpTransactionScope) PropertyRepo() property.PropertyRepository {
	return s.propertyRepo
}

// AuditRepo returns the audit-log sink
func (s *NoOpTransactionScope) AuditRepo() audit.EntryRepository {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
