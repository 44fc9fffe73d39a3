package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	var unit property.Unit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByIDForOrg finds a unit by ID within an organization
func (r *GormUnitRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*property.Unit, error) {
	var unit property.Unit
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByPropertyAndNumber finds a unit by its composite business key
func (r *GormUnitRepository) FindByPropertyAndNumber(ctx context.Context, orgID, propertyID uuid.UUID, unitNumber string) (*property.Unit, error) {
	var unit property.Unit
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ? AND unit_number = ?", orgID, propertyID, unitNumber).
		First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByProperty finds all units for a property ordered by unit number.
// The length-first ordering keeps plain decimal numbers above 999 sorted
// after the zero-padded ones.
func (r *GormUnitRepository) FindByProperty(ctx context.Context, orgID, propertyID uuid.UUID) ([]property.Unit, error) {
	var units []property.Unit
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Order("LENGTH(unit_number) ASC, unit_number ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// CountByProperty counts all units for a property regardless of status
func (r *GormUnitRepository) CountByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountsByProperty tallies countable (non-archived) and occupied units. A
// unit parked in maintenance keeps its tenant link but is not occupied for
// the occupancy rate.
func (r *GormUnitRepository) CountsByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (property.UnitCounts, error) {
	var row struct {
		Countable int
		Occupied  int
	}
	if err := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Select(
			"COUNT(*) FILTER (WHERE status <> ?) AS countable, COUNT(*) FILTER (WHERE status = ?) AS occupied",
			property.UnitStatusArchived,
			property.UnitStatusOccupied,
		).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Scan(&row).Error; err != nil {
		return property.UnitCounts{}, err
	}
	return property.UnitCounts{Countable: row.Countable, Occupied: row.Occupied}, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, u *property.Unit) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// CreateBatchUnordered inserts units best-effort. Rows that collide with an
// existing (property_id, unit_number) pair are skipped via ON CONFLICT DO
// NOTHING rather than aborting the batch.
func (r *GormUnitRepository) CreateBatchUnordered(ctx context.Context, units []*property.Unit) (property.BatchInsertResult, error) {
	if len(units) == 0 {
		return property.BatchInsertResult{}, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "property_id"}, {Name: "unit_number"}},
			DoNothing: true,
		}).
		Create(units)
	if result.Error != nil {
		return property.BatchInsertResult{}, result.Error
	}

	inserted := int(result.RowsAffected)
	return property.BatchInsertResult{
		Inserted: inserted,
		Skipped:  len(units) - inserted,
	}, nil
}

// ClaimForTenant atomically links a tenant to the unit. The compare-and-swap
// predicate guarantees at most one concurrent claim wins; the loser observes
// zero affected rows.
func (r *GormUnitRepository) ClaimForTenant(ctx context.Context, orgID, unitID, tenantID uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("org_id = ? AND id = ? AND tenant_id IS NULL AND status = ?", orgID, unitID, property.UnitStatusAvailable).
		Updates(map[string]interface{}{
			"tenant_id":                tenantID,
			"status":                   property.UnitStatusOccupied,
			"history_total_tenants":    gorm.Expr("history_total_tenants + 1"),
			"history_last_occupied_at": now,
			"updated_at":               now,
			"version":                  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseForTenant atomically clears the given tenant's claim on the unit
func (r *GormUnitRepository) ReleaseForTenant(ctx context.Context, orgID, unitID, tenantID uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("org_id = ? AND id = ? AND tenant_id = ?", orgID, unitID, tenantID).
		Updates(map[string]interface{}{
			"tenant_id":               nil,
			"status":                  property.UnitStatusAvailable,
			"history_last_vacated_at": now,
			"updated_at":              now,
			"version":                 gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkMaintenanceAboveOrdinal flags units whose number sorts beyond keepCount
// for maintenance. Archived units and tenant links are left untouched.
func (r *GormUnitRepository) MarkMaintenanceAboveOrdinal(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("org_id = ? AND property_id = ? AND status <> ?", orgID, propertyID, property.UnitStatusArchived).
		Where(aboveOrdinalSQL, aboveOrdinalArgs(keepCount)...).
		Updates(map[string]interface{}{
			"status":     property.UnitStatusMaintenance,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindOccupiedAboveOrdinal returns occupied units beyond keepCount
func (r *GormUnitRepository) FindOccupiedAboveOrdinal(ctx context.Context, orgID, propertyID uuid.UUID, keepCount int) ([]property.Unit, error) {
	var units []property.Unit
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ? AND tenant_id IS NOT NULL", orgID, propertyID).
		Where(aboveOrdinalSQL, aboveOrdinalArgs(keepCount)...).
		Order("LENGTH(unit_number) ASC, unit_number ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// ArchiveByProperty archives every unit of a property and clears tenant links
func (r *GormUnitRepository) ArchiveByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("org_id = ? AND property_id = ? AND status <> ?", orgID, propertyID, property.UnitStatusArchived).
		Updates(map[string]interface{}{
			"tenant_id":  nil,
			"status":     property.UnitStatusArchived,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ResetByPropertyToAvailable returns every unit of a property to available
// with no tenant, regardless of prior state
func (r *GormUnitRepository) ResetByPropertyToAvailable(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Updates(map[string]interface{}{
			"tenant_id":  nil,
			"status":     property.UnitStatusAvailable,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByProperty hard-deletes every unit of a property
func (r *GormUnitRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND property_id = ?", orgID, propertyID).
		Delete(&property.Unit{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// aboveOrdinalSQL matches unit numbers past a threshold ordinal. Numbers are
// zero-padded to three digits up to 999 and plain decimal above, so
// length-first string comparison yields numeric order.
const aboveOrdinalSQL = "LENGTH(unit_number) > LENGTH(?) OR (LENGTH(unit_number) = LENGTH(?) AND unit_number > ?)"

func aboveOrdinalArgs(keepCount int) []interface{} {
	threshold := property.FormatUnitNumber(keepCount)
	return []interface{}{threshold, threshold, threshold}
}
