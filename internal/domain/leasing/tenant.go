package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "ACTIVE"
	TenantStatusLate     TenantStatus = "LATE"
	TenantStatusInactive TenantStatus = "INACTIVE"
	TenantStatusArchived TenantStatus = "ARCHIVED"
)

// OverduePeriod is the trailing window without a paid payment after which
// an active tenant is marked late.
const OverduePeriod = 30 * 24 * time.Hour

// Tenant is the aggregate root for a renter. A tenant holds its unit by
// strong reference (UnitID); the unit carries the matching back-reference,
// and exclusivity is enforced by an atomic claim on the unit row.
type Tenant struct {
	shared.OrgAggregateRoot
	PropertyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitNumber        string          `gorm:"type:varchar(16);not null"` // display copy of the unit's number
	FullName          string          `gorm:"not null"`
	Phone             string          `gorm:"type:varchar(32)"`
	RentAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status            TenantStatus    `gorm:"type:varchar(32);not null;default:'ACTIVE';index"`
	DiscountAmount    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	DiscountExpiresAt *time.Time
	MoveInDate        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new active tenant bound to a unit
func NewTenant(orgID, propertyID, unitID uuid.UUID, unitNumber, fullName string, rentAmount decimal.Decimal) (*Tenant, error) {
	if propertyID == uuid.Nil || unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Property and unit references are required")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name is required")
	}
	if rentAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RENT", "Rent amount cannot be negative")
	}

	t := &Tenant{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PropertyID:       propertyID,
		UnitID:           unitID,
		UnitNumber:       unitNumber,
		FullName:         fullName,
		RentAmount:       rentAmount,
		Status:           TenantStatusActive,
		MoveInDate:       time.Now(),
	}
	t.AddDomainEvent(NewTenantAddedEvent(t))
	return t, nil
}

// EffectiveRent returns the rent due after any unexpired discount
func (t *Tenant) EffectiveRent(now time.Time) decimal.Decimal {
	if t.DiscountAmount == nil {
		return t.RentAmount
	}
	if t.DiscountExpiresAt != nil && t.DiscountExpiresAt.Before(now) {
		return t.RentAmount
	}
	effective := t.RentAmount.Sub(*t.DiscountAmount)
	if effective.IsNegative() {
		return decimal.Zero
	}
	return effective
}

// ApplyDiscount sets a rent discount with an optional expiry
func (t *Tenant) ApplyDiscount(amount decimal.Decimal, expiresAt *time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount must be positive")
	}
	t.DiscountAmount = &amount
	t.DiscountExpiresAt = expiresAt
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// ClearDiscount removes any rent discount
func (t *Tenant) ClearDiscount() {
	t.DiscountAmount = nil
	t.DiscountExpiresAt = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// MarkLate transitions an active tenant to late
func (t *Tenant) MarkLate() error {
	if t.Status != TenantStatusActive {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusLate
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantMarkedLateEvent(t))
	return nil
}

// MarkActive returns a late tenant to good standing. Recording a paid
// payment is the sole trigger for this transition.
func (t *Tenant) MarkActive() error {
	if t.Status == TenantStatusArchived {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Deactivate marks the tenant inactive without archiving the record
func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusArchived {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Archive soft-deletes the tenant
func (t *Tenant) Archive() error {
	if t.Status == TenantStatusArchived {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusArchived
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantArchivedEvent(t))
	return nil
}

// Restore reactivates an archived tenant. The unit claim is not restored
// automatically; the tenant must claim a unit again.
func (t *Tenant) Restore() error {
	if t.Status != TenantStatusArchived {
		return shared.ErrInvalidState
	}
	t.Status = TenantStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsActive returns true while the tenant occupies a unit in good or late standing
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive || t.Status == TenantStatusLate
}
