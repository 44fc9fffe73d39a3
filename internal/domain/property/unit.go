package property

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitStatus represents the occupancy status of a unit.
// OCCUPIED and AVAILABLE are derived from tenant linkage and can only be
// reached through Claim and Vacate; the remaining statuses are settable
// directly.
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "AVAILABLE"
	UnitStatusOccupied    UnitStatus = "OCCUPIED"
	UnitStatusMaintenance UnitStatus = "MAINTENANCE"
	UnitStatusReserved    UnitStatus = "RESERVED"
	UnitStatusArchived    UnitStatus = "ARCHIVED"
)

// RentHistoryCap bounds the rent history kept on each unit.
const RentHistoryCap = 50

// RentChange records a rent amount change on a unit
type RentChange struct {
	Amount    decimal.Decimal `json:"amount"`
	ChangedAt time.Time       `json:"changed_at"`
}

// UnitHistory tracks occupancy statistics for a unit
type UnitHistory struct {
	TotalTenants   int             `gorm:"not null;default:0"`
	AvgStayMonths  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	LastOccupiedAt *time.Time
	LastVacatedAt  *time.Time
}

// Unit represents a single rentable unit within a property.
// The composite identifier (PropertyID, UnitNumber) is unique.
type Unit struct {
	shared.OrgAggregateRoot
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_unit_property_number,priority:1"`
	UnitNumber  string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_unit_property_number,priority:2"`
	Nickname    string          `gorm:"type:varchar(64)"`
	Status      UnitStatus      `gorm:"type:varchar(32);not null;default:'AVAILABLE';index"`
	TenantID    *uuid.UUID      `gorm:"type:uuid;index"`
	RentAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	History     UnitHistory     `gorm:"embedded;embeddedPrefix:history_"`
	RentHistory []RentChange    `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// FormatUnitNumber renders the canonical zero-padded unit number for an
// ordinal position. Counts above 999 fall back to plain decimal so the
// padding stays stable for typical properties.
func FormatUnitNumber(n int) string {
	if n <= 999 {
		return fmt.Sprintf("%03d", n)
	}
	return fmt.Sprintf("%d", n)
}

// NewUnit creates a new available unit for a property, seeding the rent
// history with the initial amount.
func NewUnit(orgID, propertyID uuid.UUID, unitNumber string, rentAmount decimal.Decimal) (*Unit, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if unitNumber == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_NUMBER", "Unit number is required")
	}
	if rentAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RENT", "Rent amount cannot be negative")
	}

	return &Unit{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PropertyID:       propertyID,
		UnitNumber:       unitNumber,
		Status:           UnitStatusAvailable,
		RentAmount:       rentAmount,
		RentHistory:      []RentChange{{Amount: rentAmount, ChangedAt: time.Now()}},
	}, nil
}

// IsOccupied returns true if a tenant currently holds the unit
func (u *Unit) IsOccupied() bool {
	return u.TenantID != nil
}

// Claim links a tenant to the unit and marks it occupied. The unit must be
// available with no tenant attached; the persistence layer additionally
// enforces this with a compare-and-swap update so concurrent claims cannot
// both succeed.
func (u *Unit) Claim(tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if u.TenantID != nil {
		return shared.ErrUnitOccupied
	}
	if u.Status != UnitStatusAvailable {
		return shared.NewDomainError("UNIT_NOT_AVAILABLE", "Unit is not available for occupancy")
	}

	now := time.Now()
	u.TenantID = &tenantID
	u.Status = UnitStatusOccupied
	u.History.TotalTenants++
	u.History.LastOccupiedAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()

	u.AddDomainEvent(NewUnitOccupiedEvent(u, tenantID))
	return nil
}

// Vacate clears the tenant link and returns the unit to available,
// folding the completed stay into the running average stay duration.
func (u *Unit) Vacate() error {
	if u.TenantID == nil {
		return shared.NewDomainError("UNIT_NOT_OCCUPIED", "Unit has no tenant to vacate")
	}

	now := time.Now()
	if u.History.LastOccupiedAt != nil && u.History.TotalTenants > 0 {
		stayMonths := decimal.NewFromFloat(now.Sub(*u.History.LastOccupiedAt).Hours() / (24 * 30))
		completed := decimal.NewFromInt(int64(u.History.TotalTenants))
		prior := u.History.AvgStayMonths.Mul(completed.Sub(decimal.NewFromInt(1)))
		u.History.AvgStayMonths = prior.Add(stayMonths).Div(completed).Round(2)
	}
	u.History.LastVacatedAt = &now
	u.TenantID = nil
	u.Status = UnitStatusAvailable
	u.UpdatedAt = now
	u.IncrementVersion()

	u.AddDomainEvent(NewUnitVacatedEvent(u))
	return nil
}

// SetMaintenance flags the unit for maintenance. An existing tenant link is
// left untouched; shrinking a property parks excess units here without
// force-vacating their tenants unless the caller asks for it.
func (u *Unit) SetMaintenance() error {
	if u.Status == UnitStatusArchived {
		return shared.ErrInvalidState
	}
	u.Status = UnitStatusMaintenance
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetReserved marks the unit as reserved for a pending move-in
func (u *Unit) SetReserved() error {
	if u.Status != UnitStatusAvailable {
		return shared.NewDomainError("UNIT_NOT_AVAILABLE", "Only available units can be reserved")
	}
	u.Status = UnitStatusReserved
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ArchiveUnit archives the unit and severs any tenant link
func (u *Unit) ArchiveUnit() {
	u.Status = UnitStatusArchived
	u.TenantID = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUnitArchivedEvent(u))
}

// RestoreToAvailable resets the unit to available, unconditionally clearing
// any occupancy. Used when an archived property is restored; tenant records
// still claiming the unit are not reconciled here.
func (u *Unit) RestoreToAvailable() {
	u.Status = UnitStatusAvailable
	u.TenantID = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ChangeRent updates the rent amount and appends to the rent history when
// the new amount differs from the last recorded one. History is capped at
// the most recent RentHistoryCap entries.
func (u *Unit) ChangeRent(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_RENT", "Rent amount cannot be negative")
	}

	u.RentAmount = amount
	last := u.lastRecordedRent()
	if last == nil || !last.Equal(amount) {
		u.RentHistory = append(u.RentHistory, RentChange{Amount: amount, ChangedAt: time.Now()})
		if len(u.RentHistory) > RentHistoryCap {
			u.RentHistory = u.RentHistory[len(u.RentHistory)-RentHistoryCap:]
		}
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

func (u *Unit) lastRecordedRent() *decimal.Decimal {
	if len(u.RentHistory) == 0 {
		return nil
	}
	amount := u.RentHistory[len(u.RentHistory)-1].Amount
	return &amount
}
