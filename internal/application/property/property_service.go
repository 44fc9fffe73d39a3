package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/payment"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UsageLimitChecker gates resource creation against the organization's plan
type UsageLimitChecker interface {
	// CheckAndRecord verifies the organization may create one more resource
	// of the given type and records the usage. Returns ErrQuotaExceeded
	// when the plan limit is reached.
	CheckAndRecord(ctx context.Context, orgID uuid.UUID, resourceType string) error

	// ReleaseUsage gives back one unit of recorded usage
	ReleaseUsage(ctx context.Context, orgID uuid.UUID, resourceType string) error
}

// ResourceTypeProperty is the usage-limit bucket for properties
const ResourceTypeProperty = "property"

// PropertyService handles property registration and bookkeeping
type PropertyService struct {
	propertyRepo property.PropertyRepository
	unitRepo     property.UnitRepository
	tenantRepo   leasing.TenantRepository
	expenseRepo  payment.ExpenseRepository
	occupancy    *OccupancyService
	usageLimits  UsageLimitChecker
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	propertyRepo property.PropertyRepository,
	unitRepo property.UnitRepository,
	tenantRepo leasing.TenantRepository,
	expenseRepo payment.ExpenseRepository,
	occupancy *OccupancyService,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		expenseRepo:  expenseRepo,
		occupancy:    occupancy,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PropertyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventBus = publisher
}

// SetUsageLimitChecker sets the usage limit checker (optional)
func (s *PropertyService) SetUsageLimitChecker(checker UsageLimitChecker) {
	s.usageLimits = checker
}

// Create registers a property and provisions its numbered units
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (*PropertyResponse, error) {
	if s.usageLimits != nil {
		if err := s.usageLimits.CheckAndRecord(ctx, input.OrgID, ResourceTypeProperty); err != nil {
			return nil, err
		}
	}

	exists, err := s.propertyRepo.ExistsByName(ctx, input.OrgID, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PROPERTY_NAME_TAKEN", "A property with this name already exists")
	}

	prop, err := property.NewProperty(input.OrgID, input.Name, input.Address, input.NumberOfUnits, input.RentAmount)
	if err != nil {
		return nil, err
	}
	if input.UserID != nil {
		prop.CreatedBy = input.UserID
	}

	if err := s.propertyRepo.Save(ctx, prop); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &prop.BaseAggregateRoot)

	if _, err := s.occupancy.ProvisionUnits(ctx, prop, input.NumberOfUnits); err != nil {
		// The property row exists; provisioning is retried via resize
		s.logger.Error("Failed to provision units for new property",
			zap.String("property_id", prop.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Property created",
		zap.String("property_id", prop.ID.String()),
		zap.String("name", prop.Name),
		zap.Int("units", input.NumberOfUnits))

	response := ToPropertyResponse(prop)
	return &response, nil
}

// Get returns a property by ID
func (s *PropertyService) Get(ctx context.Context, orgID, id uuid.UUID) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	response := ToPropertyResponse(prop)
	return &response, nil
}

// List returns properties for the organization with pagination
func (s *PropertyService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (*shared.Paginated[PropertyResponse], error) {
	props, err := s.propertyRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.propertyRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PropertyResponse, 0, len(props))
	for i := range props {
		items = append(items, ToPropertyResponse(&props[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateDetails changes a property's name, address and asking rent.
// Changing the rent does not touch existing units or tenants.
func (s *PropertyService) UpdateDetails(ctx context.Context, orgID, id uuid.UUID, name, address string, rentAmount decimal.Decimal) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if prop.IsArchived() {
		return nil, shared.NewDomainError("PROPERTY_ARCHIVED", "Cannot update an archived property")
	}

	if name != "" && name != prop.Name {
		exists, err := s.propertyRepo.ExistsByName(ctx, orgID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("PROPERTY_NAME_TAKEN", "A property with this name already exists")
		}
		prop.Name = name
	}
	if address != "" {
		prop.Address = address
	}
	if rentAmount.IsPositive() {
		prop.RentAmount = rentAmount
	}

	if err := s.propertyRepo.Save(ctx, prop); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(prop)
	return &response, nil
}

// RecordExpense stores an expense row and folds it into the cash-flow rollup
func (s *PropertyService) RecordExpense(ctx context.Context, input RecordExpenseInput) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByIDForOrg(ctx, input.OrgID, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop.IsArchived() {
		return nil, shared.NewDomainError("PROPERTY_ARCHIVED", "Cannot record expenses on an archived property")
	}

	expense, err := payment.NewExpense(input.OrgID, input.PropertyID, input.Amount, input.Category, input.Description, input.IncurredAt)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	if err := prop.AddExpense(input.Amount); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, prop); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(prop)
	return &response, nil
}

func (s *PropertyService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventBus == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
