package property

import (
	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProperty = "Property"
	AggregateTypeUnit     = "Unit"
)

// Event type constants
const (
	EventTypePropertyCreated  = "PropertyCreated"
	EventTypePropertyResized  = "PropertyResized"
	EventTypePropertyArchived = "PropertyArchived"
	EventTypePropertyRestored = "PropertyRestored"
	EventTypeUnitOccupied     = "UnitOccupied"
	EventTypeUnitVacated      = "UnitVacated"
	EventTypeUnitArchived     = "UnitArchived"
)

// PropertyCreatedEvent is raised when a new property is registered
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID    uuid.UUID `json:"property_id"`
	Name          string    `json:"name"`
	NumberOfUnits int       `json:"number_of_units"`
}

// NewPropertyCreatedEvent creates a new PropertyCreatedEvent
func NewPropertyCreatedEvent(p *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyCreated, AggregateTypeProperty, p.ID, p.OrgID),
		PropertyID:      p.ID,
		Name:            p.Name,
		NumberOfUnits:   p.NumberOfUnits,
	}
}

// EventType returns the event type name
func (e *PropertyCreatedEvent) EventType() string {
	return EventTypePropertyCreated
}

// PropertyResizedEvent is raised when the declared unit count changes
type PropertyResizedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	OldCount   int       `json:"old_count"`
	NewCount   int       `json:"new_count"`
}

// NewPropertyResizedEvent creates a new PropertyResizedEvent
func NewPropertyResizedEvent(p *Property, oldCount, newCount int) *PropertyResizedEvent {
	return &PropertyResizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyResized, AggregateTypeProperty, p.ID, p.OrgID),
		PropertyID:      p.ID,
		OldCount:        oldCount,
		NewCount:        newCount,
	}
}

// EventType returns the event type name
func (e *PropertyResizedEvent) EventType() string {
	return EventTypePropertyResized
}

// PropertyArchivedEvent is raised when a property is soft-deleted
type PropertyArchivedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
}

// NewPropertyArchivedEvent creates a new PropertyArchivedEvent
func NewPropertyArchivedEvent(p *Property) *PropertyArchivedEvent {
	return &PropertyArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyArchived, AggregateTypeProperty, p.ID, p.OrgID),
		PropertyID:      p.ID,
		Name:            p.Name,
	}
}

// EventType returns the event type name
func (e *PropertyArchivedEvent) EventType() string {
	return EventTypePropertyArchived
}

// PropertyRestoredEvent is raised when an archived property is reactivated
type PropertyRestoredEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
}

// NewPropertyRestoredEvent creates a new PropertyRestoredEvent
func NewPropertyRestoredEvent(p *Property) *PropertyRestoredEvent {
	return &PropertyRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyRestored, AggregateTypeProperty, p.ID, p.OrgID),
		PropertyID:      p.ID,
	}
}

// EventType returns the event type name
func (e *PropertyRestoredEvent) EventType() string {
	return EventTypePropertyRestored
}

// UnitOccupiedEvent is raised when a tenant claims a unit
type UnitOccupiedEvent struct {
	shared.BaseDomainEvent
	UnitID     uuid.UUID `json:"unit_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UnitNumber string    `json:"unit_number"`
	TenantID   uuid.UUID `json:"tenant_id"`
}

// NewUnitOccupiedEvent creates a new UnitOccupiedEvent
func NewUnitOccupiedEvent(u *Unit, tenantID uuid.UUID) *UnitOccupiedEvent {
	return &UnitOccupiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitOccupied, AggregateTypeUnit, u.ID, u.OrgID),
		UnitID:          u.ID,
		PropertyID:      u.PropertyID,
		UnitNumber:      u.UnitNumber,
		TenantID:        tenantID,
	}
}

// EventType returns the event type name
func (e *UnitOccupiedEvent) EventType() string {
	return EventTypeUnitOccupied
}

// UnitVacatedEvent is raised when a unit transitions out of occupancy
type UnitVacatedEvent struct {
	shared.BaseDomainEvent
	UnitID     uuid.UUID `json:"unit_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UnitNumber string    `json:"unit_number"`
}

// NewUnitVacatedEvent creates a new UnitVacatedEvent
func NewUnitVacatedEvent(u *Unit) *UnitVacatedEvent {
	return &UnitVacatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitVacated, AggregateTypeUnit, u.ID, u.OrgID),
		UnitID:          u.ID,
		PropertyID:      u.PropertyID,
		UnitNumber:      u.UnitNumber,
	}
}

// EventType returns the event type name
func (e *UnitVacatedEvent) EventType() string {
	return EventTypeUnitVacated
}

// UnitArchivedEvent is raised when a unit is archived with its property
type UnitArchivedEvent struct {
	shared.BaseDomainEvent
	UnitID     uuid.UUID `json:"unit_id"`
	PropertyID uuid.UUID `json:"property_id"`
}

// NewUnitArchivedEvent creates a new UnitArchivedEvent
func NewUnitArchivedEvent(u *Unit) *UnitArchivedEvent {
	return &UnitArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitArchived, AggregateTypeUnit, u.ID, u.OrgID),
		UnitID:          u.ID,
		PropertyID:      u.PropertyID,
	}
}

// EventType returns the event type name
func (e *UnitArchivedEvent) EventType() string {
	return EventTypeUnitArchived
}
