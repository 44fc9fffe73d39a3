package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// CreateTenantInput carries the fields needed to move a tenant in.
// The target unit can be addressed by ID or by its number within the
// property; exactly one is required.
type CreateTenantInput struct {
	OrgID      uuid.UUID
	UserID     *uuid.UUID
	PropertyID uuid.UUID
	UnitID     *uuid.UUID
	UnitNumber string
	FullName   string
	Phone      string
	RentAmount *decimal.Decimal // defaults to the unit's current rent
}

// ApplyDiscountInput carries the fields for a rent discount
type ApplyDiscountInput struct {
	OrgID     uuid.UUID
	TenantID  uuid.UUID
	Amount    decimal.Decimal
	ExpiresAt *time.Time
}

// TenantResponse is the application-level view of a tenant
type TenantResponse struct {
	ID                uuid.UUID        `json:"id"`
	PropertyID        uuid.UUID        `json:"property_id"`
	UnitID            uuid.UUID        `json:"unit_id"`
	UnitNumber        string           `json:"unit_number"`
	FullName          string           `json:"full_name"`
	Phone             string           `json:"phone,omitempty"`
	RentAmount        decimal.Decimal  `json:"rent_amount"`
	EffectiveRent     decimal.Decimal  `json:"effective_rent"`
	Status            string           `json:"status"`
	DiscountAmount    *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountExpiresAt *time.Time       `json:"discount_expires_at,omitempty"`
	MoveInDate        time.Time        `json:"move_in_date"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToTenantResponse maps a domain tenant to its response form
func ToTenantResponse(t *leasing.Tenant) TenantResponse {
	return TenantResponse{
		ID:                t.ID,
		PropertyID:        t.PropertyID,
		UnitID:            t.UnitID,
		UnitNumber:        t.UnitNumber,
		FullName:          t.FullName,
		Phone:             t.Phone,
		RentAmount:        t.RentAmount,
		EffectiveRent:     t.EffectiveRent(time.Now()),
		Status:            string(t.Status),
		DiscountAmount:    t.DiscountAmount,
		DiscountExpiresAt: t.DiscountExpiresAt,
		MoveInDate:        t.MoveInDate,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
