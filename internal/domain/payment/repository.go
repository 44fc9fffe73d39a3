package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForOrg finds a payment by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Payment, error)

	// FindByTenant finds payments for a tenant
	FindByTenant(ctx context.Context, orgID, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// ExistsPaidForRentMonth checks whether a PAID payment already covers
	// the tenant's rent month. The partial unique index is the hard guard;
	// this pre-check exists to produce a friendly conflict error.
	ExistsPaidForRentMonth(ctx context.Context, orgID, tenantID uuid.UUID, rentMonth string) (bool, error)

	// HasPaidSince checks whether the tenant has any PAID payment dated at
	// or after the cutoff
	HasPaidSince(ctx context.Context, orgID, tenantID uuid.UUID, cutoff time.Time) (bool, error)

	// Create inserts a new payment (append-only; status transitions go
	// through Save)
	Create(ctx context.Context, p *Payment) error

	// Save updates a payment
	Save(ctx context.Context, p *Payment) error

	// ArchiveByProperty archives all payments for a property
	ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// ArchiveByTenant archives all payments for a tenant
	ArchiveByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes all payments for a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByTenant hard-deletes all payments for a tenant
	DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)
}

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	// FindByID finds a receipt by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByPayment finds the receipt issued for a payment, if any
	FindByPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*Receipt, error)

	// NextSequence returns the next receipt sequence number for an organization
	NextSequence(ctx context.Context, orgID uuid.UUID) (int64, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, r *Receipt) error

	// ArchiveByProperty archives all receipts for a property
	ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// ArchiveByTenant archives all receipts for a tenant
	ArchiveByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes all receipts for a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByTenant hard-deletes all receipts for a tenant
	DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// FindByID finds an expense by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindByProperty finds expenses for a property
	FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID, filter shared.Filter) ([]Expense, error)

	// Create inserts a new expense
	Create(ctx context.Context, e *Expense) error

	// ArchiveByProperty archives all expenses for a property
	ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes all expenses for a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)
}
