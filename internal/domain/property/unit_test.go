package property

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestUnit(t *testing.T) *Unit {
	t.Helper()
	unit, err := NewUnit(testOrgID(), uuid.New(), "001", decimal.NewFromInt(1000))
	assert.NoError(t, err)
	return unit
}

func TestFormatUnitNumber(t *testing.T) {
	assert.Equal(t, "001", FormatUnitNumber(1))
	assert.Equal(t, "042", FormatUnitNumber(42))
	assert.Equal(t, "999", FormatUnitNumber(999))
	assert.Equal(t, "1000", FormatUnitNumber(1000))
}

func TestNewUnit(t *testing.T) {
	unit := newTestUnit(t)

	assert.Equal(t, UnitStatusAvailable, unit.Status)
	assert.Nil(t, unit.TenantID)
	assert.Len(t, unit.RentHistory, 1)
	assert.True(t, unit.RentHistory[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestNewUnit_Validation(t *testing.T) {
	_, err := NewUnit(testOrgID(), uuid.Nil, "001", decimal.NewFromInt(100))
	assert.Error(t, err)

	_, err = NewUnit(testOrgID(), uuid.New(), "", decimal.NewFromInt(100))
	assert.Error(t, err)

	_, err = NewUnit(testOrgID(), uuid.New(), "001", decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestUnit_Claim(t *testing.T) {
	unit := newTestUnit(t)
	tenantID := uuid.New()

	err := unit.Claim(tenantID)

	assert.NoError(t, err)
	assert.Equal(t, UnitStatusOccupied, unit.Status)
	assert.Equal(t, tenantID, *unit.TenantID)
	assert.Equal(t, 1, unit.History.TotalTenants)
	assert.NotNil(t, unit.History.LastOccupiedAt)
	assert.True(t, unit.IsOccupied())
}

func TestUnit_Claim_AlreadyOccupied(t *testing.T) {
	unit := newTestUnit(t)
	assert.NoError(t, unit.Claim(uuid.New()))

	err := unit.Claim(uuid.New())

	assert.ErrorIs(t, err, shared.ErrUnitOccupied)
	assert.Equal(t, 1, unit.History.TotalTenants)
}

func TestUnit_Claim_NotAvailable(t *testing.T) {
	unit := newTestUnit(t)
	assert.NoError(t, unit.SetMaintenance())

	err := unit.Claim(uuid.New())

	assert.Error(t, err)
	assert.Nil(t, unit.TenantID)
}

func TestUnit_Vacate(t *testing.T) {
	unit := newTestUnit(t)
	assert.NoError(t, unit.Claim(uuid.New()))

	err := unit.Vacate()

	assert.NoError(t, err)
	assert.Equal(t, UnitStatusAvailable, unit.Status)
	assert.Nil(t, unit.TenantID)
	assert.NotNil(t, unit.History.LastVacatedAt)
	// The completed stay count survives a vacate
	assert.Equal(t, 1, unit.History.TotalTenants)
}

func TestUnit_Vacate_NotOccupied(t *testing.T) {
	unit := newTestUnit(t)

	err := unit.Vacate()

	assert.Error(t, err)
}

func TestUnit_SetMaintenance_KeepsTenantLink(t *testing.T) {
	unit := newTestUnit(t)
	tenantID := uuid.New()
	assert.NoError(t, unit.Claim(tenantID))

	err := unit.SetMaintenance()

	assert.NoError(t, err)
	assert.Equal(t, UnitStatusMaintenance, unit.Status)
	assert.Equal(t, tenantID, *unit.TenantID)
}

func TestUnit_ArchiveSeversTenantLink(t *testing.T) {
	unit := newTestUnit(t)
	assert.NoError(t, unit.Claim(uuid.New()))

	unit.ArchiveUnit()

	assert.Equal(t, UnitStatusArchived, unit.Status)
	assert.Nil(t, unit.TenantID)
}

func TestUnit_RestoreToAvailable(t *testing.T) {
	unit := newTestUnit(t)
	assert.NoError(t, unit.Claim(uuid.New()))
	unit.ArchiveUnit()

	unit.RestoreToAvailable()

	assert.Equal(t, UnitStatusAvailable, unit.Status)
	assert.Nil(t, unit.TenantID)
}

func TestUnit_ChangeRent(t *testing.T) {
	unit := newTestUnit(t)

	assert.NoError(t, unit.ChangeRent(decimal.NewFromInt(1100)))
	assert.True(t, unit.RentAmount.Equal(decimal.NewFromInt(1100)))
	assert.Len(t, unit.RentHistory, 2)

	// Setting the same amount again does not grow the history
	assert.NoError(t, unit.ChangeRent(decimal.NewFromInt(1100)))
	assert.Len(t, unit.RentHistory, 2)

	assert.Error(t, unit.ChangeRent(decimal.NewFromInt(-1)))
}
