package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByIDForOrg finds a tenant by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Tenant, error)

	// FindAllForOrg finds all tenants for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Tenant, error)

	// FindByProperty finds all tenants attached to a property
	FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID) ([]Tenant, error)

	// FindActiveByUnit finds the active or late tenant holding a unit, if any
	FindActiveByUnit(ctx context.Context, orgID, unitID uuid.UUID) (*Tenant, error)

	// CountActiveByProperty counts tenants in ACTIVE or LATE status for a property
	CountActiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// FindActiveWithoutPaymentSince returns active tenants whose most recent
	// paid payment predates the cutoff (or who have none at all).
	FindActiveWithoutPaymentSince(ctx context.Context, orgID uuid.UUID, cutoff time.Time) ([]Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, t *Tenant) error

	// Delete hard-deletes a tenant. Used for compensating removal when a
	// unit claim is lost and for destructive cascades.
	Delete(ctx context.Context, id uuid.UUID) error

	// ArchiveByProperty archives all tenants of a property, returning the
	// number of rows affected
	ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes all tenants of a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)
}

// ReminderRepository defines the interface for reminder persistence
type ReminderRepository interface {
	// FindByID finds a reminder by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reminder, error)

	// FindActiveByTenant finds active reminders for a tenant
	FindActiveByTenant(ctx context.Context, orgID, tenantID uuid.UUID) ([]Reminder, error)

	// Save creates or updates a reminder
	Save(ctx context.Context, r *Reminder) error

	// CompleteDueRentReminders marks active rent reminders for the tenant
	// whose next run is at or before the given time as completed, returning
	// the number affected
	CompleteDueRentReminders(ctx context.Context, orgID, tenantID uuid.UUID, dueBy time.Time) (int64, error)

	// CancelByTenant cancels all active reminders for a tenant
	CancelByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// CancelByProperty cancels all active reminders for a property
	CancelByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByTenant hard-deletes all reminders for a tenant
	DeleteByTenant(ctx context.Context, orgID, tenantID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes all reminders for a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)
}
