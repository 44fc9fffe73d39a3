package payment

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusPartial   PaymentStatus = "PARTIAL"
	PaymentStatusArchived  PaymentStatus = "ARCHIVED"
)

var rentMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidRentMonth reports whether s is a YYYY-MM rent month key
func ValidRentMonth(s string) bool {
	return rentMonthPattern.MatchString(s)
}

// Payment records a money movement from a tenant against a property.
// At most one PAID payment may exist per (tenant, rent month); the partial
// unique index on the payments table is the authoritative guard.
type Payment struct {
	shared.OrgAggregateRoot
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status      PaymentStatus   `gorm:"type:varchar(32);not null;default:'PENDING';index"`
	PaymentDate time.Time       `gorm:"not null"`
	RentMonth   string          `gorm:"type:varchar(7);index"`
	Method      string          `gorm:"type:varchar(32)"`
	Reference   string          `gorm:"type:varchar(128)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment. Core fields are immutable after creation;
// only status transitions are allowed.
func NewPayment(orgID, tenantID, propertyID uuid.UUID, amount decimal.Decimal, status PaymentStatus, paymentDate time.Time, rentMonth string) (*Payment, error) {
	if tenantID == uuid.Nil || propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Tenant and property references are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if paymentDate.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date cannot be in the future")
	}
	if rentMonth != "" && !ValidRentMonth(rentMonth) {
		return nil, shared.NewDomainError("INVALID_RENT_MONTH", "Rent month must be in YYYY-MM format")
	}

	p := &Payment{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		TenantID:         tenantID,
		PropertyID:       propertyID,
		Amount:           amount,
		Status:           status,
		PaymentDate:      paymentDate,
		RentMonth:        rentMonth,
	}
	if status == PaymentStatusPaid {
		p.AddDomainEvent(NewPaymentRecordedEvent(p))
	}
	return p, nil
}

// MarkPaid transitions a pending or partial payment to paid
func (p *Payment) MarkPaid() error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusPartial {
		return shared.ErrInvalidState
	}
	p.Status = PaymentStatusPaid
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentRecordedEvent(p))
	return nil
}

// Cancel voids a payment that has not settled
func (p *Payment) Cancel() error {
	if p.Status == PaymentStatusPaid || p.Status == PaymentStatusRefunded {
		return shared.ErrInvalidState
	}
	p.Status = PaymentStatusCancelled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Refund reverses a settled payment
func (p *Payment) Refund() error {
	if p.Status != PaymentStatusPaid {
		return shared.ErrInvalidState
	}
	p.Status = PaymentStatusRefunded
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ArchivePayment marks the payment archived during a cascade
func (p *Payment) ArchivePayment() {
	p.Status = PaymentStatusArchived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsPaid reports whether the payment has settled
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}
