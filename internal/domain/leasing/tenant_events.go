package leasing

import (
	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantAdded      = "TenantAdded"
	EventTypeTenantMarkedLate = "TenantMarkedLate"
	EventTypeTenantArchived   = "TenantArchived"
)

// TenantAddedEvent is raised when a tenant is created and claims a unit
type TenantAddedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UnitID     uuid.UUID `json:"unit_id"`
	UnitNumber string    `json:"unit_number"`
	FullName   string    `json:"full_name"`
}

// NewTenantAddedEvent creates a new TenantAddedEvent
func NewTenantAddedEvent(t *Tenant) *TenantAddedEvent {
	return &TenantAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantAdded, AggregateTypeTenant, t.ID, t.OrgID),
		TenantID:        t.ID,
		PropertyID:      t.PropertyID,
		UnitID:          t.UnitID,
		UnitNumber:      t.UnitNumber,
		FullName:        t.FullName,
	}
}

// EventType returns the event type name
func (e *TenantAddedEvent) EventType() string {
	return EventTypeTenantAdded
}

// TenantMarkedLateEvent is raised when the overdue automation flags a tenant
type TenantMarkedLateEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	PropertyID uuid.UUID `json:"property_id"`
	FullName   string    `json:"full_name"`
}

// NewTenantMarkedLateEvent creates a new TenantMarkedLateEvent
func NewTenantMarkedLateEvent(t *Tenant) *TenantMarkedLateEvent {
	return &TenantMarkedLateEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantMarkedLate, AggregateTypeTenant, t.ID, t.OrgID),
		TenantID:        t.ID,
		PropertyID:      t.PropertyID,
		FullName:        t.FullName,
	}
}

// EventType returns the event type name
func (e *TenantMarkedLateEvent) EventType() string {
	return EventTypeTenantMarkedLate
}

// TenantArchivedEvent is raised when a tenant is soft-deleted
type TenantArchivedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UnitID     uuid.UUID `json:"unit_id"`
}

// NewTenantArchivedEvent creates a new TenantArchivedEvent
func NewTenantArchivedEvent(t *Tenant) *TenantArchivedEvent {
	return &TenantArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantArchived, AggregateTypeTenant, t.ID, t.OrgID),
		TenantID:        t.ID,
		PropertyID:      t.PropertyID,
		UnitID:          t.UnitID,
	}
}

// EventType returns the event type name
func (e *TenantArchivedEvent) EventType() string {
	return EventTypeTenantArchived
}
