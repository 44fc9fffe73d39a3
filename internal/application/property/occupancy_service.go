package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OccupancyService keeps a property's unit inventory and occupancy rollup
// consistent with its declared unit count.
type OccupancyService struct {
	propertyRepo property.PropertyRepository
	unitRepo     property.UnitRepository
	tenantRepo   leasing.TenantRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewOccupancyService creates a new OccupancyService
func NewOccupancyService(
	propertyRepo property.PropertyRepository,
	unitRepo property.UnitRepository,
	tenantRepo leasing.TenantRepository,
	logger *zap.Logger,
) *OccupancyService {
	return &OccupancyService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OccupancyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventBus = publisher
}

// ProvisionUnits tops the property's unit inventory up to desiredCount.
// Numbering continues from the current count, so re-running after a partial
// failure fills the gaps: rows that already exist are skipped by the
// unique index on (property_id, unit_number) rather than aborting the batch.
func (s *OccupancyService) ProvisionUnits(ctx context.Context, prop *property.Property, desiredCount int) (*ProvisionResult, error) {
	if desiredCount < 1 || desiredCount > property.MaxUnitsPerProperty {
		return nil, shared.NewDomainError("INVALID_UNIT_COUNT", "Desired unit count out of range")
	}

	existing, err := s.unitRepo.CountByProperty(ctx, prop.OrgID, prop.ID)
	if err != nil {
		return nil, err
	}

	result := &ProvisionResult{Requested: desiredCount}
	if int(existing) >= desiredCount {
		return result, nil
	}

	units := make([]*property.Unit, 0, desiredCount-int(existing))
	for ordinal := int(existing) + 1; ordinal <= desiredCount; ordinal++ {
		unit, err := property.NewUnit(prop.OrgID, prop.ID, property.FormatUnitNumber(ordinal), prop.RentAmount)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	batch, err := s.unitRepo.CreateBatchUnordered(ctx, units)
	if err != nil {
		return nil, err
	}
	result.Created = batch.Inserted
	result.Skipped = batch.Skipped

	if batch.Skipped > 0 {
		s.logger.Warn("Unit provisioning skipped duplicate unit numbers",
			zap.String("property_id", prop.ID.String()),
			zap.Int("created", batch.Inserted),
			zap.Int("skipped", batch.Skipped))
	}

	if err := s.recompute(ctx, prop); err != nil {
		// The units exist; a stale rate is repaired by the next recompute
		s.logger.Error("Failed to recompute occupancy after provisioning",
			zap.String("property_id", prop.ID.String()),
			zap.Error(err))
	}

	return result, nil
}

// Resize changes a property's unit count and reconciles the unit inventory.
// Growing appends numbered units; shrinking parks units beyond the new count
// in maintenance. With ForceVacate set, occupied units beyond the new count
// are vacated and their tenants deactivated before the maintenance sweep.
func (s *OccupancyService) Resize(ctx context.Context, orgID, propertyID uuid.UUID, newCount int, opts ResizeOptions) (result *ResizeResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "occupancy", "resize",
		telemetry.WithAttribute(telemetry.SpanAttrOrgID, orgID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrPropertyID, propertyID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrUnitCount, newCount),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if newCount < 1 || newCount > property.MaxUnitsPerProperty {
		return nil, shared.NewDomainError("INVALID_UNIT_COUNT", "Unit count must be between 1 and 10000")
	}

	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	if prop.IsArchived() {
		return nil, shared.NewDomainError("PROPERTY_ARCHIVED", "Cannot resize an archived property")
	}

	currentCount, err := s.unitRepo.CountByProperty(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}

	result = &ResizeResult{
		PropertyID:        propertyID,
		PreviousUnitCount: int(currentCount),
		NewUnitCount:      newCount,
	}

	switch {
	case newCount > int(currentCount):
		provisioned, err := s.ProvisionUnits(ctx, prop, newCount)
		if err != nil {
			return nil, err
		}
		result.UnitsCreated = provisioned.Created

	case newCount < int(currentCount):
		if opts.ForceVacate {
			vacated, err := s.forceVacateAbove(ctx, orgID, propertyID, newCount)
			if err != nil {
				return nil, err
			}
			result.TenantsVacated = vacated
		}

		marked, err := s.unitRepo.MarkMaintenanceAboveOrdinal(ctx, orgID, propertyID, newCount)
		if err != nil {
			return nil, err
		}
		result.UnitsToMaintain = int(marked)
	}

	if err := prop.Resize(newCount); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, prop); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &prop.BaseAggregateRoot)

	if err := s.recompute(ctx, prop); err != nil {
		s.logger.Error("Failed to recompute occupancy after resize",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
	}

	s.logger.Info("Property resized",
		zap.String("property_id", propertyID.String()),
		zap.Int("previous_count", result.PreviousUnitCount),
		zap.Int("new_count", newCount),
		zap.Int("units_created", result.UnitsCreated),
		zap.Int("units_to_maintain", result.UnitsToMaintain),
		zap.Int("tenants_vacated", result.TenantsVacated))

	return result, nil
}

// ListUnits returns every unit of a property ordered by unit number
func (s *OccupancyService) ListUnits(ctx context.Context, orgID, propertyID uuid.UUID) ([]UnitResponse, error) {
	if _, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, propertyID); err != nil {
		return nil, err
	}

	units, err := s.unitRepo.FindByProperty(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}

	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = ToUnitResponse(&units[i])
	}
	return responses, nil
}

// ReserveUnit marks an available unit as held for a pending move-in. The
// reservation keeps the unit out of the claimable pool without linking a
// tenant.
func (s *OccupancyService) ReserveUnit(ctx context.Context, orgID, propertyID uuid.UUID, unitNumber string) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByPropertyAndNumber(ctx, orgID, propertyID, unitNumber)
	if err != nil {
		return nil, err
	}
	if err := unit.SetReserved(); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	s.logger.Info("Unit reserved",
		zap.String("property_id", propertyID.String()),
		zap.String("unit_number", unitNumber))

	response := ToUnitResponse(unit)
	return &response, nil
}

// SetUnitRent changes a unit's rent amount. Repeated calls with the same
// amount do not grow the unit's rent history.
func (s *OccupancyService) SetUnitRent(ctx context.Context, orgID, propertyID uuid.UUID, unitNumber string, amount decimal.Decimal) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByPropertyAndNumber(ctx, orgID, propertyID, unitNumber)
	if err != nil {
		return nil, err
	}
	previous := unit.RentAmount
	if err := unit.ChangeRent(amount); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	s.logger.Info("Unit rent changed",
		zap.String("property_id", propertyID.String()),
		zap.String("unit_number", unitNumber),
		zap.String("previous_amount", previous.String()),
		zap.String("new_amount", amount.String()))

	response := ToUnitResponse(unit)
	return &response, nil
}

// RecomputeOccupancy recalculates the occupancy rate and vacancy tallies
// from the unit table and stores them on the property.
func (s *OccupancyService) RecomputeOccupancy(ctx context.Context, orgID, propertyID uuid.UUID) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, prop); err != nil {
		return nil, err
	}
	response := ToPropertyResponse(prop)
	return &response, nil
}

func (s *OccupancyService) recompute(ctx context.Context, prop *property.Property) error {
	counts, err := s.unitRepo.CountsByProperty(ctx, prop.OrgID, prop.ID)
	if err != nil {
		return err
	}
	prop.ApplyOccupancy(counts.Occupied, counts.Countable)
	return s.propertyRepo.Save(ctx, prop)
}

// forceVacateAbove vacates occupied units beyond keepCount and deactivates
// the tenants that held them.
func (s *OccupancyService) forceVacateAbove(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) (int, error) {
	occupied, err := s.unitRepo.FindOccupiedAboveOrdinal(ctx, orgID, propertyID, keepCount)
	if err != nil {
		return 0, err
	}

	vacated := 0
	for i := range occupied {
		unit := &occupied[i]
		tenantID := unit.TenantID

		if err := unit.Vacate(); err != nil {
			return vacated, err
		}
		if err := s.unitRepo.Save(ctx, unit); err != nil {
			return vacated, err
		}
		s.publishEvents(ctx, &unit.BaseAggregateRoot)

		if tenantID != nil {
			tenant, err := s.tenantRepo.FindByIDForOrg(ctx, orgID, *tenantID)
			if err != nil {
				s.logger.Warn("Displaced tenant not found during force vacate",
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err))
			} else if err := tenant.Deactivate(); err == nil {
				if err := s.tenantRepo.Save(ctx, tenant); err != nil {
					return vacated, err
				}
			}
		}
		vacated++
	}

	return vacated, nil
}

func (s *OccupancyService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventBus == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
