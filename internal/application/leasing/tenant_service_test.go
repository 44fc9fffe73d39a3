package leasing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

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

// MockUsageLimitChecker is a mock implementation of appproperty.UsageLimitChecker
type MockUsageLimitChecker struct {
	mock.Mock
}

func (m *MockUsageLimitChecker) CheckAndRecord(ctx context.Context, orgID uuid.UUID, resourceType string) error {
	args := m.Called(ctx, orgID, resourceType)
	return args.Error(0)
}

func (m *MockUsageLimitChecker) ReleaseUsage(ctx context.Context, orgID uuid.UUID, resourceType string) error {
	args := m.Called(ctx, orgID, resourceType)
	return args.Error(0)
}

type tenantServiceMocks struct {
	tenantRepo   *MockTenantRepository
	propertyRepo *MockPropertyRepository
	unitRepo     *MockUnitRepository
}

func newTenantService(t *testing.T) (*TenantService, tenantServiceMocks) {
	t.Helper()
	mocks := tenantServiceMocks{
		tenantRepo:   new(MockTenantRepository),
		propertyRepo: new(MockPropertyRepository),
		unitRepo:     new(MockUnitRepository),
	}
	occupancy := appproperty.NewOccupancyService(mocks.propertyRepo, mocks.unitRepo, mocks.tenantRepo, zap.NewNop())
	service := NewTenantService(mocks.tenantRepo, mocks.propertyRepo, mocks.unitRepo, occupancy, zap.NewNop())
	return service, mocks
}

func testOrgID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func testProperty(t *testing.T) *property.Property {
	t.Helper()
	prop, err := property.NewProperty(testOrgID(), "Sunset Apartments", "142 Sunset Blvd", 10, decimal.NewFromInt(1000))
	assert.NoError(t, err)
	prop.ClearDomainEvents()
	return prop
}

func testUnit(t *testing.T, prop *property.Property, number string) *property.Unit {
	t.Helper()
	unit, err := property.NewUnit(prop.OrgID, prop.ID, number, decimal.NewFromInt(1000))
	assert.NoError(t, err)
	return unit
}

func expectRecompute(mocks tenantServiceMocks, prop *property.Property, counts property.UnitCounts) {
	mocks.propertyRepo.On("FindByIDForOrg", mock.Anything, prop.OrgID, prop.ID).Return(prop, nil)
	mocks.unitRepo.On("CountsByProperty", mock.Anything, prop.OrgID, prop.ID).Return(counts, nil)
	mocks.propertyRepo.On("Save", mock.Anything, prop).Return(nil)
}

func TestTenantService_Create_Success(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)
	unit := testUnit(t, prop, "004")

	mocks.unitRepo.On("FindByIDForOrg", ctx, prop.OrgID, unit.ID).Return(unit, nil)
	mocks.tenantRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Tenant")).Return(nil)
	mocks.unitRepo.On("ClaimForTenant", ctx, prop.OrgID, unit.ID, mock.AnythingOfType("uuid.UUID")).Return(true, nil)
	expectRecompute(mocks, prop, property.UnitCounts{Countable: 10, Occupied: 1})

	unitID := unit.ID
	response, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitID:     &unitID,
		FullName:   "Robin Hale",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Robin Hale", response.FullName)
	assert.Equal(t, "004", response.UnitNumber)
	// Rent defaults to the unit's asking rent
	assert.True(t, decimal.NewFromInt(1000).Equal(response.RentAmount))
	mocks.tenantRepo.AssertExpectations(t)
	mocks.unitRepo.AssertExpectations(t)
}

func TestTenantService_Create_ResolvesByUnitNumber(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)
	unit := testUnit(t, prop, "007")
	customRent := decimal.NewFromInt(1250)

	mocks.unitRepo.On("FindByPropertyAndNumber", ctx, prop.OrgID, prop.ID, "007").Return(unit, nil)
	mocks.tenantRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Tenant")).Return(nil)
	mocks.unitRepo.On("ClaimForTenant", ctx, prop.OrgID, unit.ID, mock.AnythingOfType("uuid.UUID")).Return(true, nil)
	expectRecompute(mocks, prop, property.UnitCounts{Countable: 10, Occupied: 1})

	response, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitNumber: "007",
		FullName:   "Robin Hale",
		RentAmount: &customRent,
	})

	assert.NoError(t, err)
	assert.True(t, customRent.Equal(response.RentAmount))
}

func TestTenantService_Create_LostClaimCompensates(t *testing.T) {
	service, mocks := newTenantService(t)
	limits := new(MockUsageLimitChecker)
	service.SetUsageLimitChecker(limits)

	ctx := context.Background()
	prop := testProperty(t)
	unit := testUnit(t, prop, "004")

	var savedTenantID uuid.UUID
	limits.On("CheckAndRecord", ctx, prop.OrgID, ResourceTypeTenant).Return(nil)
	mocks.unitRepo.On("FindByIDForOrg", ctx, prop.OrgID, unit.ID).Return(unit, nil)
	mocks.tenantRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Tenant")).Run(func(args mock.Arguments) {
		savedTenantID = args.Get(1).(*leasing.Tenant).ID
	}).Return(nil)
	mocks.unitRepo.On("ClaimForTenant", ctx, prop.OrgID, unit.ID, mock.AnythingOfType("uuid.UUID")).Return(false, nil)
	mocks.tenantRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	limits.On("ReleaseUsage", ctx, prop.OrgID, ResourceTypeTenant).Return(nil)

	unitID := unit.ID
	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitID:     &unitID,
		FullName:   "Robin Hale",
	})

	assert.ErrorIs(t, err, shared.ErrUnitOccupied)
	mocks.tenantRepo.AssertCalled(t, "Delete", ctx, savedTenantID)
	limits.AssertExpectations(t)
}

func TestTenantService_Create_ClaimErrorCompensates(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)
	unit := testUnit(t, prop, "004")

	mocks.unitRepo.On("FindByIDForOrg", ctx, prop.OrgID, unit.ID).Return(unit, nil)
	mocks.tenantRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Tenant")).Return(nil)
	mocks.unitRepo.On("ClaimForTenant", ctx, prop.OrgID, unit.ID, mock.AnythingOfType("uuid.UUID")).Return(false, errors.New("connection reset"))
	mocks.tenantRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	unitID := unit.ID
	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitID:     &unitID,
		FullName:   "Robin Hale",
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrUnitOccupied)
	mocks.tenantRepo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
}

func TestTenantService_Create_UnitOccupiedBeforeClaim(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)
	unit := testUnit(t, prop, "004")
	assert.NoError(t, unit.Claim(uuid.New()))

	mocks.unitRepo.On("FindByIDForOrg", ctx, prop.OrgID, unit.ID).Return(unit, nil)

	unitID := unit.ID
	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitID:     &unitID,
		FullName:   "Robin Hale",
	})

	assert.ErrorIs(t, err, shared.ErrUnitOccupied)
	mocks.tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_Create_UnitMismatch(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)
	other := testProperty(t)
	unit := testUnit(t, other, "001")

	mocks.unitRepo.On("FindByIDForOrg", ctx, prop.OrgID, unit.ID).Return(unit, nil)

	unitID := unit.ID
	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitID:     &unitID,
		FullName:   "Robin Hale",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNIT_MISMATCH", domainErr.Code)
}

func TestTenantService_Create_ArchivedProperty(t *testing.T) {
	service, mocks := newTenantService(t)
	limits := new(MockUsageLimitChecker)
	service.SetUsageLimitChecker(limits)

	ctx := context.Background()
	prop := testProperty(t)
	assert.NoError(t, prop.Archive())
	unit := testUnit(t, prop, "004")

	limits.On("CheckAndRecord", ctx, prop.OrgID, ResourceTypeTenant).Return(nil)
	limits.On("ReleaseUsage", ctx, prop.OrgID, ResourceTypeTenant).Return(nil)

	unitID := unit.ID
	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		UnitID:     &unitID,
		FullName:   "Robin Hale",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_ARCHIVED", domainErr.Code)
	limits.AssertExpectations(t)
	mocks.unitRepo.AssertNotCalled(t, "FindByIDForOrg", mock.Anything, mock.Anything, mock.Anything)
}

func TestTenantService_Create_QuotaExceeded(t *testing.T) {
	service, mocks := newTenantService(t)
	limits := new(MockUsageLimitChecker)
	service.SetUsageLimitChecker(limits)

	ctx := context.Background()
	orgID := testOrgID()

	limits.On("CheckAndRecord", ctx, orgID, ResourceTypeTenant).Return(shared.ErrQuotaExceeded)

	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      orgID,
		PropertyID: uuid.New(),
		UnitNumber: "001",
		FullName:   "Robin Hale",
	})

	assert.ErrorIs(t, err, shared.ErrQuotaExceeded)
	mocks.propertyRepo.AssertNotCalled(t, "FindByIDForOrg", mock.Anything, mock.Anything, mock.Anything)
}

func TestTenantService_Create_MissingUnitSelector(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)

	_, err := service.Create(ctx, CreateTenantInput{
		OrgID:      prop.OrgID,
		PropertyID: prop.ID,
		FullName:   "Robin Hale",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_UNIT", domainErr.Code)
	mocks.tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_ApplyDiscount(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)

	tenant, err := leasing.NewTenant(prop.OrgID, prop.ID, uuid.New(), "004", "Robin Hale", decimal.NewFromInt(1000))
	assert.NoError(t, err)
	tenant.ClearDomainEvents()

	mocks.tenantRepo.On("FindByIDForOrg", ctx, prop.OrgID, tenant.ID).Return(tenant, nil)
	mocks.tenantRepo.On("Save", ctx, tenant).Return(nil)

	response, err := service.ApplyDiscount(ctx, ApplyDiscountInput{
		OrgID:    prop.OrgID,
		TenantID: tenant.ID,
		Amount:   decimal.NewFromInt(150),
	})

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(850).Equal(response.EffectiveRent))
}

func TestTenantService_ClearDiscount(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)

	tenant, err := leasing.NewTenant(prop.OrgID, prop.ID, uuid.New(), "004", "Robin Hale", decimal.NewFromInt(1000))
	assert.NoError(t, err)
	tenant.ClearDomainEvents()
	assert.NoError(t, tenant.ApplyDiscount(decimal.NewFromInt(150), nil))

	mocks.tenantRepo.On("FindByIDForOrg", ctx, prop.OrgID, tenant.ID).Return(tenant, nil)
	mocks.tenantRepo.On("Save", ctx, tenant).Return(nil)

	response, err := service.ClearDiscount(ctx, prop.OrgID, tenant.ID)

	assert.NoError(t, err)
	assert.Nil(t, response.DiscountAmount)
	assert.True(t, decimal.NewFromInt(1000).Equal(response.EffectiveRent))
}

func TestTenantService_MarkOverdueTenants(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	prop := testProperty(t)
	orgID := prop.OrgID

	first, err := leasing.NewTenant(orgID, prop.ID, uuid.New(), "001", "Robin Hale", decimal.NewFromInt(1000))
	assert.NoError(t, err)
	first.ClearDomainEvents()
	second, err := leasing.NewTenant(orgID, prop.ID, uuid.New(), "002", "Casey Brook", decimal.NewFromInt(1000))
	assert.NoError(t, err)
	second.ClearDomainEvents()
	// Already late, MarkLate fails and the tenant is skipped
	assert.NoError(t, second.MarkLate())
	second.ClearDomainEvents()

	mocks.tenantRepo.On("FindActiveWithoutPaymentSince", ctx, orgID, mock.AnythingOfType("time.Time")).
		Return([]leasing.Tenant{*first, *second}, nil)
	mocks.tenantRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Tenant")).Return(nil)

	flagged, err := service.MarkOverdueTenants(ctx, orgID)

	assert.NoError(t, err)
	assert.Equal(t, 1, flagged)
	mocks.tenantRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestTenantService_MarkOverdueTenants_NoneOverdue(t *testing.T) {
	service, mocks := newTenantService(t)
	ctx := context.Background()
	orgID := testOrgID()

	mocks.tenantRepo.On("FindActiveWithoutPaymentSince", ctx, orgID, mock.AnythingOfType("time.Time")).
		Return([]leasing.Tenant{}, nil)

	flagged, err := service.MarkOverdueTenants(ctx, orgID)

	assert.NoError(t, err)
	assert.Equal(t, 0, flagged)
	mocks.tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
