package property

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PropertyStatus represents the lifecycle status of a property
type PropertyStatus string

const (
	PropertyStatusActive          PropertyStatus = "ACTIVE"
	PropertyStatusInactive        PropertyStatus = "INACTIVE"
	PropertyStatusUnderRenovation PropertyStatus = "UNDER_RENOVATION"
	PropertyStatusArchived        PropertyStatus = "ARCHIVED"
)

// MaxUnitsPerProperty bounds unit provisioning and resize requests.
const MaxUnitsPerProperty = 10000

// CashFlow holds the denormalized financial rollup stored on the property
// for fast read access. NetIncome is always derived from Income - Expenses
// and never written independently.
type CashFlow struct {
	Income        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Expenses      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	NetIncome     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OccupiedUnits int             `gorm:"not null;default:0"`
	VacantUnits   int             `gorm:"not null;default:0"`
}

// Property is the aggregate root for a rental property. It is the sizing
// authority for its units: NumberOfUnits changes must be reconciled with
// the unit inventory within the same logical operation.
type Property struct {
	shared.OrgAggregateRoot
	Name          string          `gorm:"not null;index"`
	Address       string          `gorm:"not null"`
	NumberOfUnits int             `gorm:"not null"`
	TotalUnits    int             `gorm:"not null"`
	RentAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status        PropertyStatus  `gorm:"type:varchar(32);not null;default:'ACTIVE';index"`
	IsActive      bool            `gorm:"not null;default:true"`
	OccupancyRate int             `gorm:"not null;default:0"`
	CashFlow      CashFlow        `gorm:"embedded;embeddedPrefix:cash_flow_"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a new property with the given unit count
func NewProperty(orgID uuid.UUID, name, address string, numberOfUnits int, rentAmount decimal.Decimal) (*Property, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Property name is required")
	}
	if numberOfUnits < 1 || numberOfUnits > MaxUnitsPerProperty {
		return nil, shared.NewDomainError("INVALID_UNIT_COUNT", "Number of units must be between 1 and 10000")
	}
	if rentAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RENT", "Rent amount cannot be negative")
	}

	p := &Property{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Address:          address,
		NumberOfUnits:    numberOfUnits,
		TotalUnits:       numberOfUnits,
		RentAmount:       rentAmount,
		Status:           PropertyStatusActive,
		IsActive:         true,
	}
	p.AddDomainEvent(NewPropertyCreatedEvent(p))
	return p, nil
}

// Resize updates the declared unit count. The caller is responsible for
// reconciling the unit inventory before acknowledging the resize.
func (p *Property) Resize(newCount int) error {
	if newCount < 1 || newCount > MaxUnitsPerProperty {
		return shared.NewDomainError("INVALID_UNIT_COUNT", "Number of units must be between 1 and 10000")
	}
	if p.Status == PropertyStatusArchived {
		return shared.ErrInvalidState
	}

	oldCount := p.NumberOfUnits
	p.NumberOfUnits = newCount
	p.TotalUnits = newCount
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if oldCount != newCount {
		p.AddDomainEvent(NewPropertyResizedEvent(p, oldCount, newCount))
	}
	return nil
}

// ApplyOccupancy recomputes the occupancy rate from unit counts and mirrors
// the counts into the cash-flow rollup. countable is the number of
// non-archived units for this property.
func (p *Property) ApplyOccupancy(occupied, countable int) {
	rate := 0
	if countable > 0 {
		rate = int(math.Round(float64(occupied) / float64(countable) * 100))
	}
	p.OccupancyRate = rate
	p.CashFlow.OccupiedUnits = occupied
	p.CashFlow.VacantUnits = countable - occupied
	p.UpdatedAt = time.Now()
}

// AddIncome accumulates income and recomputes net income
func (p *Property) AddIncome(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Income amount must be positive")
	}
	p.CashFlow.Income = p.CashFlow.Income.Add(amount)
	p.CashFlow.NetIncome = p.CashFlow.Income.Sub(p.CashFlow.Expenses)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AddExpense accumulates expenses and recomputes net income
func (p *Property) AddExpense(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	p.CashFlow.Expenses = p.CashFlow.Expenses.Add(amount)
	p.CashFlow.NetIncome = p.CashFlow.Income.Sub(p.CashFlow.Expenses)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Archive soft-deletes the property. The active-tenant precondition is
// enforced by the application layer before this is called.
func (p *Property) Archive() error {
	if p.Status == PropertyStatusArchived {
		return shared.ErrInvalidState
	}
	p.Status = PropertyStatusArchived
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPropertyArchivedEvent(p))
	return nil
}

// Restore reactivates an archived property. Cash flow and cascaded payment
// statuses are intentionally not restored.
func (p *Property) Restore() error {
	if p.Status != PropertyStatusArchived {
		return shared.ErrInvalidState
	}
	p.Status = PropertyStatusActive
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPropertyRestoredEvent(p))
	return nil
}

// IsArchived returns true if the property has been soft-deleted
func (p *Property) IsArchived() bool {
	return p.Status == PropertyStatusArchived
}
