package leasing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ResourceTypeTenant is the usage-limit bucket for tenants
const ResourceTypeTenant = "tenant"

// TenantService handles tenant move-in and standing
type TenantService struct {
	tenantRepo   leasing.TenantRepository
	propertyRepo property.PropertyRepository
	unitRepo     property.UnitRepository
	occupancy    *appproperty.OccupancyService
	usageLimits  appproperty.UsageLimitChecker
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo leasing.TenantRepository,
	propertyRepo property.PropertyRepository,
	unitRepo property.UnitRepository,
	occupancy *appproperty.OccupancyService,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		occupancy:    occupancy,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventBus = publisher
}

// SetUsageLimitChecker sets the usage limit checker (optional)
func (s *TenantService) SetUsageLimitChecker(checker appproperty.UsageLimitChecker) {
	s.usageLimits = checker
}

// Create moves a tenant into a unit. The unit claim is a compare-and-swap
// on the unit row, so two concurrent move-ins for the same unit cannot both
// succeed; the loser's tenant record is removed again.
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*TenantResponse, error) {
	if s.usageLimits != nil {
		if err := s.usageLimits.CheckAndRecord(ctx, input.OrgID, ResourceTypeTenant); err != nil {
			return nil, err
		}
	}

	prop, err := s.propertyRepo.FindByIDForOrg(ctx, input.OrgID, input.PropertyID)
	if err != nil {
		s.releaseUsage(ctx, input.OrgID)
		return nil, err
	}
	if prop.IsArchived() {
		s.releaseUsage(ctx, input.OrgID)
		return nil, shared.NewDomainError("PROPERTY_ARCHIVED", "Cannot add tenants to an archived property")
	}

	unit, err := s.resolveUnit(ctx, input)
	if err != nil {
		s.releaseUsage(ctx, input.OrgID)
		return nil, err
	}

	rent := unit.RentAmount
	if input.RentAmount != nil {
		rent = *input.RentAmount
	}

	tenant, err := leasing.NewTenant(input.OrgID, prop.ID, unit.ID, unit.UnitNumber, input.FullName, rent)
	if err != nil {
		s.releaseUsage(ctx, input.OrgID)
		return nil, err
	}
	tenant.Phone = input.Phone
	if input.UserID != nil {
		tenant.CreatedBy = input.UserID
	}

	// Validates availability and records the occupancy bookkeeping on the
	// in-memory copy; the authoritative check is the CAS below.
	if err := unit.Claim(tenant.ID); err != nil {
		s.releaseUsage(ctx, input.OrgID)
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.releaseUsage(ctx, input.OrgID)
		return nil, err
	}

	claimed, err := s.unitRepo.ClaimForTenant(ctx, input.OrgID, unit.ID, tenant.ID)
	if err != nil {
		s.compensate(ctx, tenant)
		return nil, err
	}
	if !claimed {
		// Lost the race to a concurrent move-in
		s.compensate(ctx, tenant)
		return nil, shared.ErrUnitOccupied
	}

	s.publishEvents(ctx, &unit.BaseAggregateRoot)
	s.publishEvents(ctx, &tenant.BaseAggregateRoot)

	if _, err := s.occupancy.RecomputeOccupancy(ctx, input.OrgID, prop.ID); err != nil {
		s.logger.Error("Failed to recompute occupancy after move-in",
			zap.String("property_id", prop.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Tenant moved in",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("unit_number", unit.UnitNumber),
		zap.String("property_id", prop.ID.String()))

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Get returns a tenant by ID
func (s *TenantService) Get(ctx context.Context, orgID, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// List returns tenants for the organization with pagination
func (s *TenantService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (*shared.Paginated[TenantResponse], error) {
	tenants, err := s.tenantRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		items = append(items, ToTenantResponse(&tenants[i]))
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

// ApplyDiscount sets a rent discount on a tenant
func (s *TenantService) ApplyDiscount(ctx context.Context, input ApplyDiscountInput) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, input.OrgID, input.TenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.ApplyDiscount(input.Amount, input.ExpiresAt); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// ClearDiscount removes any rent discount from a tenant
func (s *TenantService) ClearDiscount(ctx context.Context, orgID, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, orgID, tenantID)
	if err != nil {
		return nil, err
	}
	tenant.ClearDiscount()
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// MarkOverdueTenants flags active tenants without a paid payment in the
// trailing overdue window as late. Returns the number of tenants flagged.
func (s *TenantService) MarkOverdueTenants(ctx context.Context, orgID uuid.UUID) (int, error) {
	cutoff := time.Now().Add(-leasing.OverduePeriod)
	overdue, err := s.tenantRepo.FindActiveWithoutPaymentSince(ctx, orgID, cutoff)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range overdue {
		tenant := &overdue[i]
		if err := tenant.MarkLate(); err != nil {
			continue
		}
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return flagged, err
		}
		s.publishEvents(ctx, &tenant.BaseAggregateRoot)
		flagged++
	}

	if flagged > 0 {
		s.logger.Info("Overdue sweep flagged tenants",
			zap.String("org_id", orgID.String()),
			zap.Int("flagged", flagged))
	}
	return flagged, nil
}

func (s *TenantService) resolveUnit(ctx context.Context, input CreateTenantInput) (*property.Unit, error) {
	var unit *property.Unit
	var err error

	switch {
	case input.UnitID != nil:
		unit, err = s.unitRepo.FindByIDForOrg(ctx, input.OrgID, *input.UnitID)
	case input.UnitNumber != "":
		unit, err = s.unitRepo.FindByPropertyAndNumber(ctx, input.OrgID, input.PropertyID, input.UnitNumber)
	default:
		return nil, shared.NewDomainError("INVALID_UNIT", "A unit ID or unit number is required")
	}
	if err != nil {
		return nil, err
	}
	if unit.PropertyID != input.PropertyID {
		return nil, shared.NewDomainError("UNIT_MISMATCH", "Unit does not belong to the property")
	}
	return unit, nil
}

// compensate removes a tenant row whose unit claim did not go through
func (s *TenantService) compensate(ctx context.Context, tenant *leasing.Tenant) {
	if err := s.tenantRepo.Delete(ctx, tenant.ID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to remove tenant after lost unit claim",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
	}
	s.releaseUsage(ctx, tenant.OrgID)
}

func (s *TenantService) releaseUsage(ctx context.Context, orgID uuid.UUID) {
	if s.usageLimits == nil {
		return
	}
	if err := s.usageLimits.ReleaseUsage(ctx, orgID, ResourceTypeTenant); err != nil {
		s.logger.Warn("Failed to release tenant usage", zap.Error(err))
	}
}

func (s *TenantService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventBus == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
