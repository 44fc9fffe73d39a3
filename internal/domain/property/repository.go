package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// FindByID finds a property by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindByIDForOrg finds a property by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Property, error)

	// FindAllForOrg finds all properties for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Property, error)

	// ExistsByName checks whether an organization already has a property with the name
	ExistsByName(ctx context.Context, orgID uuid.UUID, name string) (bool, error)

	// Save creates or updates a property
	Save(ctx context.Context, p *Property) error

	// Delete hard-deletes a property. Used only by destructive cascades.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForOrg counts properties matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
}

// UnitCounts holds the per-property unit tallies used for the occupancy
// rollup. Countable excludes archived units.
type UnitCounts struct {
	Countable int
	Occupied  int
}

// BatchInsertResult summarizes a best-effort batch insert: rows that
// violate the (property_id, unit_number) unique index are skipped without
// aborting the batch.
type BatchInsertResult struct {
	Inserted int
	Skipped  int
}

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	// FindByID finds a unit by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)

	// FindByIDForOrg finds a unit by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Unit, error)

	// FindByPropertyAndNumber finds a unit by its composite business key
	FindByPropertyAndNumber(ctx context.Context, orgID, propertyID uuid.UUID, unitNumber string) (*Unit, error)

	// FindByProperty finds all units for a property ordered by unit number
	FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID) ([]Unit, error)

	// CountByProperty counts all units for a property regardless of status
	CountByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// CountsByProperty tallies countable (non-archived) and occupied units
	CountsByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (UnitCounts, error)

	// Save creates or updates a unit
	Save(ctx context.Context, u *Unit) error

	// CreateBatchUnordered inserts units best-effort: duplicates of the
	// (property_id, unit_number) key are skipped, the rest are inserted.
	CreateBatchUnordered(ctx context.Context, units []*Unit) (BatchInsertResult, error)

	// ClaimForTenant atomically links a tenant to the unit, succeeding only
	// if the unit is currently available with no tenant attached. Returns
	// false when the compare-and-swap loses to a concurrent claim.
	ClaimForTenant(ctx context.Context, orgID, unitID, tenantID uuid.UUID) (bool, error)

	// ReleaseForTenant atomically clears the given tenant's claim on the
	// unit. Returns false if the tenant no longer holds the unit.
	ReleaseForTenant(ctx context.Context, orgID, unitID, tenantID uuid.UUID) (bool, error)

	// MarkMaintenanceAboveOrdinal flags units whose zero-padded number sorts
	// beyond keepCount for maintenance. Tenant links are left untouched.
	MarkMaintenanceAboveOrdinal(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) (int64, error)

	// FindOccupiedAboveOrdinal returns occupied units beyond keepCount,
	// used when a shrink requests force-vacating displaced tenants.
	FindOccupiedAboveOrdinal(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) ([]Unit, error)

	// ArchiveByProperty archives every unit of a property and clears tenant
	// links. Returns the number of units affected.
	ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// ResetByPropertyToAvailable returns every unit of a property to
	// available with no tenant, regardless of prior state.
	ResetByPropertyToAvailable(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)

	// DeleteByProperty hard-deletes every unit of a property
	DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error)
}
