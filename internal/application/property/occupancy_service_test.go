package property

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPropertyRepository is a mock implementation of property.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]property.Property), args.Error(1)
}

func (m *MockPropertyRepository) ExistsByName(ctx context.Context, orgID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, orgID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUnitRepository is a mock implementation of property.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByPropertyAndNumber(ctx context.Context, orgID, propertyID uuid.UUID, unitNumber string) (*property.Unit, error) {
	args := m.Called(ctx, orgID, propertyID, unitNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID) ([]property.Unit, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) CountByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) CountsByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (property.UnitCounts, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(property.UnitCounts), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, u *property.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) CreateBatchUnordered(ctx context.Context, units []*property.Unit) (property.BatchInsertResult, error) {
	args := m.Called(ctx, units)
	return args.Get(0).(property.BatchInsertResult), args.Error(1)
}

func (m *MockUnitRepository) ClaimForTenant(ctx context.Context, orgID, unitID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, unitID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) ReleaseForTenant(ctx context.Context, orgID, unitID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, unitID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) MarkMaintenanceAboveOrdinal(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) (int64, error) {
	args := m.Called(ctx, orgID, propertyID, keepCount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) FindOccupiedAboveOrdinal(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) ([]property.Unit, error) {
	args := m.Called(ctx, orgID, propertyID, keepCount)
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) ResetByPropertyToAvailable(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTenantRepository is a mock implementation of leasing.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*leasing.Tenant, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]leasing.Tenant, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID) ([]leasing.Tenant, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).([]leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindActiveByUnit(ctx context.Context, orgID, unitID uuid.UUID) (*leasing.Tenant, error) {
	args := m.Called(ctx, orgID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) CountActiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) FindActiveWithoutPaymentSince(ctx context.Context, orgID uuid.UUID, cutoff time.Time) ([]leasing.Tenant, error) {
	args := m.Called(ctx, orgID, cutoff)
	return args.Get(0).([]leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *leasing.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestOrgID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestProperty(t *testing.T, units int) *property.Property {
	t.Helper()
	prop, err := property.NewProperty(newTestOrgID(), "Sunset Apartments", "142 Sunset Blvd", units, decimal.NewFromInt(1000))
	assert.NoError(t, err)
	prop.ClearDomainEvents()
	return prop
}

func newOccupancyService(propertyRepo *MockPropertyRepository, unitRepo *MockUnitRepository, tenantRepo *MockTenantRepository) *OccupancyService {
	return NewOccupancyService(propertyRepo, unitRepo, tenantRepo, zap.NewNop())
}

// Tests for OccupancyService.ProvisionUnits

func TestOccupancyService_ProvisionUnits_TopsUpToDesired(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)
	service := newOccupancyService(propertyRepo, unitRepo, tenantRepo)

	ctx := context.Background()
	prop := newTestProperty(t, 5)

	unitRepo.On("CountByProperty", ctx, prop.OrgID, prop.ID).Return(int64(2), nil)
	unitRepo.On("CreateBatchUnordered", ctx, mock.MatchedBy(func(units []*property.Unit) bool {
		// Numbering continues from the existing count
		return len(units) == 3 &&
			units[0].UnitNumber == "003" &&
			units[1].UnitNumber == "004" &&
			units[2].UnitNumber == "005"
	})).Return(property.BatchInsertResult{Inserted: 3}, nil)
	unitRepo.On("CountsByProperty", ctx, prop.OrgID, prop.ID).Return(property.UnitCounts{Countable: 5, Occupied: 2}, nil)
	propertyRepo.On("Save", ctx, prop).Return(nil)

	result, err := service.ProvisionUnits(ctx, prop, 5)

	assert.NoError(t, err)
	assert.Equal(t, 5, result.Requested)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Skipped)
	unitRepo.AssertExpectations(t)
}

func TestOccupancyService_ProvisionUnits_AlreadyAtCount(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)
	service := newOccupancyService(propertyRepo, unitRepo, tenantRepo)

	ctx := context.Background()
	prop := newTestProperty(t, 5)

	unitRepo.On("CountByProperty", ctx, prop.OrgID, prop.ID).Return(int64(5), nil)

	result, err := service.ProvisionUnits(ctx, prop, 5)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	unitRepo.AssertNotCalled(t, "CreateBatchUnordered", mock.Anything, mock.Anything)
}

func TestOccupancyService_ProvisionUnits_SkipsDuplicates(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)
	service := newOccupancyService(propertyRepo, unitRepo, tenantRepo)

	ctx := context.Background()
	prop := newTestProperty(t, 4)

	unitRepo.On("CountByProperty", ctx, prop.OrgID, prop.ID).Return(int64(1), nil)
	unitRepo.On("CreateBatchUnordered", ctx, mock.Anything).Return(property.BatchInsertResult{Inserted: 2, Skipped: 1}, nil)
	unitRepo.On("CountsByProperty", ctx, prop.OrgID, prop.ID).Return(property.UnitCounts{Countable: 4, Occupied: 0}, nil)
	propertyRepo.On("Save", ctx, prop).Return(nil)

	result, err := service.ProvisionUnits(ctx, prop, 4)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestOccupancyService_ProvisionUnits_CountOutOfRange(t *testing.T) {
	service := newOccupancyService(new(MockPropertyRepository), new(MockUnitRepository), new(MockTenantRepository))
	prop := newTestProperty(t, 5)

	_, err := service.ProvisionUnits(context.Background(), prop, 0)
	assert.Error(t, err)

	_, err = service.ProvisionUnits(context.Background(), prop, property.MaxUnitsPerProperty+1)
	assert.Error(t, err)
}

// Tests for OccupancyService.Resize

func TestOccupancyService_Resize_Grow(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)
	service := newOccupancyService(propertyRepo, unitRepo, tenantRepo)

	ctx := context.Background()
	prop := newTestProperty(t, 10)

	propertyRepo.On("FindByIDForOrg", ctx, prop.OrgID, prop.ID).Return(prop, nil)
	unitRepo.On("CountByProperty", ctx, prop.OrgID, prop.ID).Return(int64(10), nil)
	unitRepo.On("CreateBatchUnordered", ctx, mock.Anything).Return(property.BatchInsertResult{Inserted: 5}, nil)
	unitRepo.On("CountsByProperty", ctx, prop.OrgID, prop.ID).Return(property.UnitCounts{Countable: 15, Occupied: 4}, nil)
	propertyRepo.On("Save", ctx, prop).Return(nil)

	result, err := service.Resize(ctx, prop.OrgID, prop.ID, 15, ResizeOptions{})

	assert.NoError(t, err)
	assert.Equal(t, 10, result.PreviousUnitCount)
	assert.Equal(t, 15, result.NewUnitCount)
	assert.Equal(t, 5, result.UnitsCreated)
	assert.Equal(t, 0, result.UnitsToMaintain)
	assert.Equal(t, 15, prop.NumberOfUnits)
	propertyRepo.AssertExpectations(t)
	unitRepo.AssertExpectations(t)
}

func TestOccupancyService_Resize_ShrinkParksExcessInMaintenance(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)
	service := newOccupancyService(propertyRepo, unitRepo, tenantRepo)

	ctx := context.Background()
	prop := newTestProperty(t, 10)

	propertyRepo.On("FindByIDForOrg", ctx, prop.OrgID, prop.ID).Return(prop, nil)
	unitRepo.On("CountByProperty", ctx, prop.OrgID, prop.ID).Return(int64(10), nil)
	unitRepo.On("MarkMaintenanceAboveOrdinal", ctx, prop.OrgID, prop.ID, 6).Return(int64(4), nil)
	unitRepo.On("CountsByProperty", ctx, prop.OrgID, prop.ID).Return(property.UnitCounts{Countable: 6, Occupied: 3}, nil)
	propertyRepo.On("Save", ctx, prop).Return(nil)

	result, err := service.Resize(ctx, prop.OrgID, prop.ID, 6, ResizeOptions{})

	assert.NoError(t, err)
	assert.Equal(t, 4, result.UnitsToMaintain)
	assert.Equal(t, 0, result.TenantsVacated)
	assert.Equal(t, 6, prop.NumberOfUnits)
	// Without ForceVacate, occupied units beyond the new count keep their tenants
	unitRepo.AssertNotCalled(t, "FindOccupiedAboveOrdinal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOccupancyService_Resize_ShrinkForceVacate(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	tenantRepo := new(MockTenantRepository)
	service := newOccupancyService(propertyRepo, unitRepo, tenantRepo)

	ctx := context.Background()
	prop := newTestProperty(t, 10)

	displaced, err := leasing.NewTenant(prop.OrgID, prop.ID, uuid.New(), "007", "Casey Brook", decimal.NewFromInt(900))
	assert.NoError(t, err)
	displaced.ClearDomainEvents()

	occupiedUnit, err := property.NewUnit(prop.OrgID, prop.ID, "007", decimal.NewFromInt(900))
	assert.NoError(t, err)
	assert.NoError(t, occupiedUnit.Claim(displaced.ID))
	occupiedUnit.ClearDomainEvents()

	propertyRepo.On("FindByIDForOrg", ctx, prop.OrgID, prop.ID).Return(prop, nil)
	unitRepo.On("CountByProperty", ctx, prop.OrgID, prop.ID).Return(int64(10), nil)
	unitRepo.On("FindOccupiedAboveOrdinal", ctx, prop.OrgID, prop.ID, 6).Return([]property.Unit{*occupiedUnit}, nil)
	unitRepo.On("Save", ctx, mock.AnythingOfType("*property.Unit")).Return(nil)
	tenantRepo.On("FindByIDForOrg", ctx, prop.OrgID, displaced.ID).Return(displaced, nil)
	tenantRepo.On("Save", ctx, displaced).Return(nil)
	unitRepo.On("MarkMaintenanceAboveOrdinal", ctx, prop.OrgID, prop.ID, 6).Return(int64(4), nil)
	unitRepo.On("CountsByProperty", ctx, prop.OrgID, prop.ID).Return(property.UnitCounts{Countable: 6, Occupied: 2}, nil)
	propertyRepo.On("Save", ctx, prop).Return(nil)

	result, err := service.Resize(ctx, prop.OrgID, prop.ID, 6, ResizeOptions{ForceVacate: true})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.TenantsVacated)
	assert.Equal(t, 4, result.UnitsToMaintain)
	assert.Equal(t, leasing.TenantStatusInactive, displaced.Status)
	tenantRepo.AssertExpectations(t)
	unitRepo.AssertExpectations(t)
}

func TestOccupancyService_Resize_ArchivedProperty(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 10)
	assert.NoError(t, prop.Archive())

	propertyRepo.On("FindByIDForOrg", ctx, prop.OrgID, prop.ID).Return(prop, nil)

	_, err := service.Resize(ctx, prop.OrgID, prop.ID, 5, ResizeOptions{})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_ARCHIVED", domainErr.Code)
	unitRepo.AssertNotCalled(t, "CountByProperty", mock.Anything, mock.Anything, mock.Anything)
}

func TestOccupancyService_Resize_CountOutOfRange(t *testing.T) {
	service := newOccupancyService(new(MockPropertyRepository), new(MockUnitRepository), new(MockTenantRepository))

	_, err := service.Resize(context.Background(), newTestOrgID(), uuid.New(), 0, ResizeOptions{})

	assert.Error(t, err)
}

// Tests for OccupancyService.RecomputeOccupancy

func TestOccupancyService_RecomputeOccupancy(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 10)

	propertyRepo.On("FindByIDForOrg", ctx, prop.OrgID, prop.ID).Return(prop, nil)
	unitRepo.On("CountsByProperty", ctx, prop.OrgID, prop.ID).Return(property.UnitCounts{Countable: 10, Occupied: 3}, nil)
	propertyRepo.On("Save", ctx, prop).Return(nil)

	response, err := service.RecomputeOccupancy(ctx, prop.OrgID, prop.ID)

	assert.NoError(t, err)
	assert.Equal(t, 30, response.OccupancyRate)
	assert.Equal(t, 3, response.OccupiedUnits)
	assert.Equal(t, 7, response.VacantUnits)
}

func TestOccupancyService_ListUnits(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 2)

	first, _ := property.NewUnit(prop.OrgID, prop.ID, "001", decimal.NewFromInt(1000))
	second, _ := property.NewUnit(prop.OrgID, prop.ID, "002", decimal.NewFromInt(1000))

	propertyRepo.On("FindByIDForOrg", ctx, prop.OrgID, prop.ID).Return(prop, nil)
	unitRepo.On("FindByProperty", ctx, prop.OrgID, prop.ID).Return([]property.Unit{*first, *second}, nil)

	units, err := service.ListUnits(ctx, prop.OrgID, prop.ID)

	assert.NoError(t, err)
	assert.Len(t, units, 2)
	assert.Equal(t, "001", units[0].UnitNumber)
	assert.Equal(t, "002", units[1].UnitNumber)
}

func TestOccupancyService_ReserveUnit(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 4)

	unit, err := property.NewUnit(prop.OrgID, prop.ID, "003", decimal.NewFromInt(1200))
	assert.NoError(t, err)

	unitRepo.On("FindByPropertyAndNumber", ctx, prop.OrgID, prop.ID, "003").Return(unit, nil)
	unitRepo.On("Save", ctx, unit).Return(nil)

	response, err := service.ReserveUnit(ctx, prop.OrgID, prop.ID, "003")

	assert.NoError(t, err)
	assert.Equal(t, string(property.UnitStatusReserved), response.Status)
	assert.Nil(t, response.TenantID)
	unitRepo.AssertExpectations(t)
}

func TestOccupancyService_ReserveUnit_OccupiedUnitRejected(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 4)

	unit, err := property.NewUnit(prop.OrgID, prop.ID, "003", decimal.NewFromInt(1200))
	assert.NoError(t, err)
	assert.NoError(t, unit.Claim(uuid.New()))

	unitRepo.On("FindByPropertyAndNumber", ctx, prop.OrgID, prop.ID, "003").Return(unit, nil)

	_, err = service.ReserveUnit(ctx, prop.OrgID, prop.ID, "003")

	assert.Error(t, err)
	unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOccupancyService_SetUnitRent(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 4)

	unit, err := property.NewUnit(prop.OrgID, prop.ID, "002", decimal.NewFromInt(1200))
	assert.NoError(t, err)

	unitRepo.On("FindByPropertyAndNumber", ctx, prop.OrgID, prop.ID, "002").Return(unit, nil)
	unitRepo.On("Save", ctx, unit).Return(nil)

	response, err := service.SetUnitRent(ctx, prop.OrgID, prop.ID, "002", decimal.NewFromInt(1350))

	assert.NoError(t, err)
	assert.True(t, response.RentAmount.Equal(decimal.NewFromInt(1350)))
	// The original seed amount plus the change
	assert.Len(t, unit.RentHistory, 2)
}

func TestOccupancyService_SetUnitRent_NegativeAmountRejected(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	prop := newTestProperty(t, 4)

	unit, err := property.NewUnit(prop.OrgID, prop.ID, "002", decimal.NewFromInt(1200))
	assert.NoError(t, err)

	unitRepo.On("FindByPropertyAndNumber", ctx, prop.OrgID, prop.ID, "002").Return(unit, nil)

	_, err = service.SetUnitRent(ctx, prop.OrgID, prop.ID, "002", decimal.NewFromInt(-50))

	assert.Error(t, err)
	unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOccupancyService_SetUnitRent_UnitNotFound(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	orgID := newTestOrgID()
	propertyID := uuid.New()

	unitRepo.On("FindByPropertyAndNumber", ctx, orgID, propertyID, "099").Return(nil, shared.ErrNotFound)

	_, err := service.SetUnitRent(ctx, orgID, propertyID, "099", decimal.NewFromInt(1350))

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOccupancyService_ListUnits_PropertyNotFound(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	unitRepo := new(MockUnitRepository)
	service := newOccupancyService(propertyRepo, unitRepo, new(MockTenantRepository))

	ctx := context.Background()
	orgID := newTestOrgID()
	propertyID := uuid.New()

	propertyRepo.On("FindByIDForOrg", ctx, orgID, propertyID).Return(nil, shared.ErrNotFound)

	_, err := service.ListUnits(ctx, orgID, propertyID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	unitRepo.AssertNotCalled(t, "FindByProperty", mock.Anything, mock.Anything, mock.Anything)
}
