package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the lifecycle of a receipt
type ReceiptStatus string

const (
	ReceiptStatusIssued   ReceiptStatus = "ISSUED"
	ReceiptStatusVoided   ReceiptStatus = "VOIDED"
	ReceiptStatusArchived ReceiptStatus = "ARCHIVED"
)

// Receipt is the issued record of a settled payment. Rendering to PDF is
// handled elsewhere; this entity only tracks issuance state for cascades.
type Receipt struct {
	shared.OrgAggregateRoot
	PaymentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptNumber string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        ReceiptStatus   `gorm:"type:varchar(32);not null;default:'ISSUED'"`
	IssuedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceipt issues a receipt for a settled payment
func NewReceipt(p *Payment, sequence int64) *Receipt {
	now := time.Now()
	return &Receipt{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(p.OrgID),
		PaymentID:        p.ID,
		TenantID:         p.TenantID,
		PropertyID:       p.PropertyID,
		ReceiptNumber:    fmt.Sprintf("RCP-%s-%06d", now.Format("200601"), sequence),
		Amount:           p.Amount,
		Status:           ReceiptStatusIssued,
		IssuedAt:         now,
	}
}

// ExpenseStatus represents the lifecycle of an expense record
type ExpenseStatus string

const (
	ExpenseStatusRecorded ExpenseStatus = "RECORDED"
	ExpenseStatusArchived ExpenseStatus = "ARCHIVED"
)

// Expense is a property-scoped cost that feeds the cash-flow rollup
type Expense struct {
	shared.OrgAggregateRoot
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Category    string          `gorm:"type:varchar(64);not null"`
	Description string
	Status      ExpenseStatus `gorm:"type:varchar(32);not null;default:'RECORDED'"`
	IncurredAt  time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense records a property expense
func NewExpense(orgID, propertyID uuid.UUID, amount decimal.Decimal, category, description string, incurredAt time.Time) (*Expense, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is required")
	}
	return &Expense{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PropertyID:       propertyID,
		Amount:           amount,
		Category:         category,
		Description:      description,
		Status:           ExpenseStatusRecorded,
		IncurredAt:       incurredAt,
	}, nil
}
