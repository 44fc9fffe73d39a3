package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// ProvisionResult summarizes a best-effort unit provisioning pass
type ProvisionResult struct {
	Requested int `json:"requested"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

// ResizeOptions controls how a shrink treats units that still carry tenants.
// The default leaves tenant links untouched on units parked in maintenance.
type ResizeOptions struct {
	ForceVacate bool `json:"force_vacate"`
}

// ResizeResult summarizes a completed resize
type ResizeResult struct {
	PropertyID        uuid.UUID `json:"property_id"`
	PreviousUnitCount int       `json:"previous_unit_count"`
	NewUnitCount      int       `json:"new_unit_count"`
	UnitsCreated      int       `json:"units_created"`
	UnitsToMaintain   int       `json:"units_to_maintain"`
	TenantsVacated    int       `json:"tenants_vacated"`
}

// CreatePropertyInput carries the fields needed to register a property
type CreatePropertyInput struct {
	OrgID         uuid.UUID
	UserID        *uuid.UUID
	Name          string
	Address       string
	NumberOfUnits int
	RentAmount    decimal.Decimal
}

// RecordExpenseInput carries the fields needed to record a property expense
type RecordExpenseInput struct {
	OrgID       uuid.UUID
	PropertyID  uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	IncurredAt  time.Time
}

// UnitResponse is the application-level view of a unit
type UnitResponse struct {
	ID             uuid.UUID       `json:"id"`
	PropertyID     uuid.UUID       `json:"property_id"`
	UnitNumber     string          `json:"unit_number"`
	Nickname       string          `json:"nickname,omitempty"`
	Status         string          `json:"status"`
	TenantID       *uuid.UUID      `json:"tenant_id,omitempty"`
	RentAmount     decimal.Decimal `json:"rent_amount"`
	TotalTenants   int             `json:"total_tenants"`
	LastOccupiedAt *time.Time      `json:"last_occupied_at,omitempty"`
	LastVacatedAt  *time.Time      `json:"last_vacated_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToUnitResponse maps a domain unit to its response form
func ToUnitResponse(u *property.Unit) UnitResponse {
	return UnitResponse{
		ID:             u.ID,
		PropertyID:     u.PropertyID,
		UnitNumber:     u.UnitNumber,
		Nickname:       u.Nickname,
		Status:         string(u.Status),
		TenantID:       u.TenantID,
		RentAmount:     u.RentAmount,
		TotalTenants:   u.History.TotalTenants,
		LastOccupiedAt: u.History.LastOccupiedAt,
		LastVacatedAt:  u.History.LastVacatedAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// PropertyResponse is the application-level view of a property
type PropertyResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	NumberOfUnits int             `json:"number_of_units"`
	Status        string          `json:"status"`
	IsActive      bool            `json:"is_active"`
	OccupancyRate int             `json:"occupancy_rate"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	OccupiedUnits int             `json:"occupied_units"`
	VacantUnits   int             `json:"vacant_units"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToPropertyResponse maps a domain property to its response form
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:            p.ID,
		Name:          p.Name,
		Address:       p.Address,
		NumberOfUnits: p.NumberOfUnits,
		Status:        string(p.Status),
		IsActive:      p.IsActive,
		OccupancyRate: p.OccupancyRate,
		RentAmount:    p.RentAmount,
		Income:        p.CashFlow.Income,
		Expenses:      p.CashFlow.Expenses,
		NetIncome:     p.CashFlow.NetIncome,
		OccupiedUnits: p.CashFlow.OccupiedUnits,
		VacantUnits:   p.CashFlow.VacantUnits,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
